package worker

import (
	"sync"

	"github.com/torres-mse/garage/pkg/core"
)

// snapshotInbox buffers the snapshots handed over by the store between
// flush cycles. Only the newest snapshot is ever written; drain returns
// it together with the number of snapshots it supersedes.
type snapshotInbox struct {
	mu      sync.Mutex
	pending []core.GarageState
}

func (in *snapshotInbox) put(s core.GarageState) {
	in.mu.Lock()
	in.pending = append(in.pending, s)
	in.mu.Unlock()
}

func (in *snapshotInbox) size() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.pending)
}

// drain empties the inbox. The bool is false when nothing was queued.
func (in *snapshotInbox) drain() (core.GarageState, int, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	n := len(in.pending)
	if n == 0 {
		return core.GarageState{}, 0, false
	}
	newest := in.pending[n-1]
	in.pending = in.pending[:0]
	return newest, n, true
}

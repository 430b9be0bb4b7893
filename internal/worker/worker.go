// Package worker flushes garage state snapshots to the storage backend off
// the caller's goroutine. Saves are fire-and-forget from the store's point
// of view; consecutive snapshots coalesce so only the newest one is written.
package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/torres-mse/garage/internal/logging"
	"github.com/torres-mse/garage/internal/storage"
	"github.com/torres-mse/garage/pkg/core"
)

// Dependencies holds all dependencies for the worker manager
type Dependencies struct {
	Backend storage.Backend
	Logger  logging.Logger
}

// Manager owns the persist goroutine.
type Manager struct {
	deps    Dependencies
	pending snapshotInbox

	wake chan struct{}
	stop chan struct{}
	done chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once

	lastWriteNanos atomic.Int64

	writes        metric.Int64Counter
	writeFailures metric.Int64Counter
	writeDuration metric.Float64Histogram
}

// NewManager creates a new worker manager.
func NewManager(deps Dependencies) (*Manager, error) {
	if deps.Logger == nil {
		deps.Logger = logging.NopLogger{}
	}
	m := &Manager{
		deps: deps,
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	var err error
	m.writes, err = meter().Int64Counter("garage_state_writes_total")
	if err != nil {
		return nil, fmt.Errorf("creating writes counter: %w", err)
	}
	m.writeFailures, err = meter().Int64Counter("garage_state_write_failures_total")
	if err != nil {
		return nil, fmt.Errorf("creating write failures counter: %w", err)
	}
	m.writeDuration, err = meter().Float64Histogram("garage_state_write_duration_seconds")
	if err != nil {
		return nil, fmt.Errorf("creating write duration histogram: %w", err)
	}
	return m, nil
}

// Start launches the persist goroutine.
func (m *Manager) Start() {
	m.startOnce.Do(func() {
		go m.run()
	})
}

// Persist queues a snapshot for writing. Never blocks.
func (m *Manager) Persist(state core.GarageState) {
	m.pending.put(state)
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Stop flushes pending snapshots and waits for the goroutine to exit.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
	<-m.done
}

// QueueLen returns the number of unmerged snapshots waiting to be written.
func (m *Manager) QueueLen() int {
	return m.pending.size()
}

// GetLastDBWriteDuration returns the duration of the last write cycle.
func (m *Manager) GetLastDBWriteDuration() time.Duration {
	return time.Duration(m.lastWriteNanos.Load())
}

func (m *Manager) run() {
	defer close(m.done)
	for {
		select {
		case <-m.wake:
			m.flush()
		case <-m.stop:
			m.flush()
			return
		}
	}
}

// flush writes the newest queued snapshot. Older queued snapshots are
// superseded and dropped.
func (m *Manager) flush() {
	state, coalesced, ok := m.pending.drain()
	if !ok {
		return
	}

	start := time.Now()
	err := m.deps.Backend.SaveGarageState(state)
	elapsed := time.Since(start)
	m.lastWriteNanos.Store(int64(elapsed))
	m.writeDuration.Record(context.Background(), elapsed.Seconds())

	if err != nil {
		m.writeFailures.Add(context.Background(), 1)
		m.deps.Logger.Error("failed to persist garage state", "error", err, "vehicleId", state.VehicleID)
		return
	}
	m.writes.Add(context.Background(), 1)
	m.deps.Logger.Debug("persisted garage state",
		"vehicleId", state.VehicleID,
		"coalesced", coalesced,
		"durationMs", elapsed.Milliseconds(),
	)
}

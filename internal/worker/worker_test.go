package worker

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torres-mse/garage/pkg/core"
)

// fakeBackend records saved states. An optional delay simulates slow writes
// so coalescing can be observed.
type fakeBackend struct {
	mu     sync.Mutex
	states []core.GarageState
	delay  time.Duration
	err    error
}

func (f *fakeBackend) Init() error  { return nil }
func (f *fakeBackend) Close() error { return nil }

func (f *fakeBackend) SaveGarageState(state core.GarageState) error {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.states = append(f.states, state)
	return nil
}

func (f *fakeBackend) LoadGarageState() (core.GarageState, bool, error) {
	return core.GarageState{}, false, nil
}

func (f *fakeBackend) LoadCatalog() ([]core.Vehicle, []core.Part, error) {
	return nil, nil, nil
}

func (f *fakeBackend) saved() []core.GarageState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]core.GarageState(nil), f.states...)
}

func TestPersistWritesSnapshot(t *testing.T) {
	backend := &fakeBackend{}
	m, err := NewManager(Dependencies{Backend: backend})
	require.NoError(t, err)
	m.Start()

	m.Persist(core.GarageState{VehicleID: "ts-240", Balance: 46500})
	m.Stop()

	states := backend.saved()
	require.NotEmpty(t, states)
	assert.Equal(t, "ts-240", states[len(states)-1].VehicleID)
	assert.InDelta(t, 46500.0, states[len(states)-1].Balance, 1e-9)
}

func TestStopFlushesPending(t *testing.T) {
	backend := &fakeBackend{}
	m, err := NewManager(Dependencies{Backend: backend})
	require.NoError(t, err)
	// Not started yet: snapshots queue up.
	m.Persist(core.GarageState{VehicleID: "a"})
	m.Persist(core.GarageState{VehicleID: "b"})

	m.Start()
	m.Stop()

	states := backend.saved()
	require.NotEmpty(t, states)
	// Newest snapshot wins.
	assert.Equal(t, "b", states[len(states)-1].VehicleID)
	assert.Equal(t, 0, m.QueueLen())
}

func TestCoalescingKeepsNewest(t *testing.T) {
	backend := &fakeBackend{delay: 20 * time.Millisecond}
	m, err := NewManager(Dependencies{Backend: backend})
	require.NoError(t, err)
	m.Start()

	for i := 0; i < 50; i++ {
		m.Persist(core.GarageState{Balance: float64(i)})
	}
	m.Stop()

	states := backend.saved()
	require.NotEmpty(t, states)
	// Far fewer writes than snapshots, and the final write is the newest.
	assert.Less(t, len(states), 50)
	assert.InDelta(t, 49.0, states[len(states)-1].Balance, 1e-9)
}

func TestWriteFailureDoesNotStopWorker(t *testing.T) {
	backend := &fakeBackend{err: errors.New("disk full")}
	m, err := NewManager(Dependencies{Backend: backend})
	require.NoError(t, err)
	m.Start()

	m.Persist(core.GarageState{VehicleID: "a"})

	// Worker keeps accepting and flushing after a failure.
	backend.mu.Lock()
	backend.err = nil
	backend.mu.Unlock()
	m.Persist(core.GarageState{VehicleID: "b"})
	m.Stop()

	states := backend.saved()
	require.NotEmpty(t, states)
	assert.Equal(t, "b", states[len(states)-1].VehicleID)
}

func TestLastWriteDuration(t *testing.T) {
	backend := &fakeBackend{delay: 5 * time.Millisecond}
	m, err := NewManager(Dependencies{Backend: backend})
	require.NoError(t, err)
	m.Start()

	assert.Equal(t, time.Duration(0), m.GetLastDBWriteDuration())
	m.Persist(core.GarageState{VehicleID: "ts-240"})
	m.Stop()

	assert.GreaterOrEqual(t, m.GetLastDBWriteDuration(), 5*time.Millisecond)
}

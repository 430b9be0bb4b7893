package dispatcher

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingLogger records log lines for assertions.
type capturingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *capturingLogger) record(level, msg string, kv []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf("%s %s %v", level, msg, kv))
}

func (l *capturingLogger) Debug(msg string, kv ...any) { l.record("debug", msg, kv) }
func (l *capturingLogger) Info(msg string, kv ...any)  { l.record("info", msg, kv) }
func (l *capturingLogger) Error(msg string, kv ...any) { l.record("error", msg, kv) }

func (l *capturingLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, line := range l.lines {
		if strings.HasPrefix(line, level+" ") {
			n++
		}
	}
	return n
}

func newTestRouter(t *testing.T) (*Router, *capturingLogger) {
	t.Helper()
	log := &capturingLogger{}
	r, err := New(log)
	require.NoError(t, err)
	return r, log
}

func TestRouter_SyncVerb(t *testing.T) {
	r, _ := newTestRouter(t)

	var got Command
	r.Handle("install", func(c Command) (any, error) {
		got = c
		return "installed", nil
	})

	result, err := r.Run(Command{Verb: "install", Args: []string{"turbo-stage2"}})
	require.NoError(t, err)
	assert.Equal(t, "installed", result)
	assert.Equal(t, []string{"turbo-stage2"}, got.Args)
}

func TestRouter_UnknownVerb(t *testing.T) {
	r, _ := newTestRouter(t)

	_, err := r.Run(Command{Verb: "paint"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestRouter_Resolves(t *testing.T) {
	r, _ := newTestRouter(t)

	r.Handle("save", func(Command) (any, error) { return nil, nil })

	assert.True(t, r.Resolves("save"))
	assert.False(t, r.Resolves("paint"))
}

func TestRouter_ReplacesHandler(t *testing.T) {
	r, _ := newTestRouter(t)

	r.Handle("balance", func(Command) (any, error) { return "old", nil })
	r.Handle("balance", func(Command) (any, error) { return "new", nil })

	result, err := r.Run(Command{Verb: "balance"})
	require.NoError(t, err)
	assert.Equal(t, "new", result)
}

func TestRouter_BacklogRunsAsync(t *testing.T) {
	r, _ := newTestRouter(t)

	var ran atomic.Int32
	var wg sync.WaitGroup
	wg.Add(3)
	r.HandleWith("export", func(Command) (any, error) {
		ran.Add(1)
		wg.Done()
		return nil, nil
	}, Binding{Backlog: 8})

	for i := 0; i < 3; i++ {
		_, err := r.Run(Command{Verb: "export"})
		require.NoError(t, err)
	}
	wg.Wait()

	assert.Equal(t, int32(3), ran.Load())
}

func TestRouter_BacklogShedsWhenFull(t *testing.T) {
	r, _ := newTestRouter(t)

	release := make(chan struct{})
	r.HandleWith("export", func(Command) (any, error) {
		<-release
		return nil, nil
	}, Binding{Backlog: 1})
	defer close(release)

	// First command occupies the drain goroutine, second fills the
	// backlog. Anything beyond that is shed.
	r.Run(Command{Verb: "export"})
	r.Run(Command{Verb: "export"})
	deadline := time.After(time.Second)
	for {
		_, err := r.Run(Command{Verb: "export"})
		if err != nil {
			assert.Contains(t, err.Error(), "backlog full")
			return
		}
		select {
		case <-deadline:
			t.Fatal("backlog never filled")
		default:
		}
	}
}

func TestRouter_BacklogWaitBlocks(t *testing.T) {
	r, _ := newTestRouter(t)

	release := make(chan struct{})
	r.HandleWith("status", func(Command) (any, error) {
		<-release
		return nil, nil
	}, Binding{Backlog: 1, Wait: true})

	r.Run(Command{Verb: "status"})
	r.Run(Command{Verb: "status"})

	blocked := make(chan struct{})
	go func() {
		r.Run(Command{Verb: "status"})
		close(blocked)
	}()

	select {
	case <-blocked:
		t.Fatal("run should have blocked on the full backlog")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)
	<-blocked
}

func TestRouter_TraceLogsRuns(t *testing.T) {
	r, log := newTestRouter(t)

	r.HandleWith("select", func(Command) (any, error) {
		return "ok", nil
	}, Binding{Trace: true})

	_, err := r.Run(Command{Verb: "select", Args: []string{"ts-240"}})
	require.NoError(t, err)
	assert.Equal(t, 1, log.count("debug"))
	assert.Equal(t, 0, log.count("error"))
}

func TestRouter_TraceLogsFailure(t *testing.T) {
	r, log := newTestRouter(t)

	r.HandleWith("install", func(Command) (any, error) {
		return nil, fmt.Errorf("no vehicle selected")
	}, Binding{Trace: true})

	_, err := r.Run(Command{Verb: "install"})
	require.Error(t, err)
	assert.Equal(t, 1, log.count("error"))
}

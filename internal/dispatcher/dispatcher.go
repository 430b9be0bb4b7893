// Package dispatcher routes parsed CLI input to per-verb handlers. A verb
// runs synchronously unless its Binding moves it onto a backlog goroutine.
package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/torres-mse/garage/internal/logging"
)

// Command is one parsed line of user input.
type Command struct {
	Verb     string
	Args     []string
	IssuedAt time.Time
}

// Handler runs a verb. A string result is printed by the REPL.
type Handler func(Command) (any, error)

// Binding controls how a verb's handler runs.
type Binding struct {
	// Backlog moves the handler onto its own goroutine fed through a
	// channel of this depth. Zero keeps the handler synchronous.
	Backlog int
	// Wait blocks the caller when the backlog is full instead of
	// shedding the command.
	Wait bool
	// Trace logs every run of the verb with its duration.
	Trace bool
}

// Router maps verbs to handlers.
type Router struct {
	log logging.Logger

	mu       sync.RWMutex
	routes   map[string]Handler
	backlogs map[string]chan Command

	backlogDepth metric.Int64ObservableGauge
	handled      metric.Int64Counter
	shed         metric.Int64Counter
}

// New builds an empty router. Instruments register against the global
// meter provider and are no-ops until one is installed.
func New(log logging.Logger) (*Router, error) {
	if log == nil {
		log = logging.NopLogger{}
	}
	r := &Router{
		log:      log,
		routes:   make(map[string]Handler),
		backlogs: make(map[string]chan Command),
	}

	m := meter()
	var err error
	r.backlogDepth, err = m.Int64ObservableGauge("garage_command_backlog")
	if err != nil {
		return nil, fmt.Errorf("creating backlog gauge: %w", err)
	}
	_, err = m.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		r.mu.RLock()
		defer r.mu.RUnlock()
		for verb, ch := range r.backlogs {
			o.ObserveInt64(r.backlogDepth, int64(len(ch)),
				metric.WithAttributes(attribute.String("verb", verb)))
		}
		return nil
	}, r.backlogDepth)
	if err != nil {
		return nil, fmt.Errorf("registering backlog callback: %w", err)
	}
	r.handled, err = m.Int64Counter("garage_commands_handled_total")
	if err != nil {
		return nil, fmt.Errorf("creating handled counter: %w", err)
	}
	r.shed, err = m.Int64Counter("garage_commands_shed_total")
	if err != nil {
		return nil, fmt.Errorf("creating shed counter: %w", err)
	}
	return r, nil
}

// Handle registers a verb with default behavior. Registering a verb
// twice replaces the earlier handler.
func (r *Router) Handle(verb string, h Handler) {
	r.HandleWith(verb, h, Binding{})
}

// HandleWith registers a verb with explicit run behavior.
func (r *Router) HandleWith(verb string, h Handler, b Binding) {
	verbAttr := attribute.String("verb", verb)
	inner := h
	h = func(c Command) (any, error) {
		v, err := inner(c)
		r.handled.Add(context.Background(), 1, metric.WithAttributes(verbAttr))
		return v, err
	}
	if b.Trace {
		h = r.traced(verb, h)
	}
	if b.Backlog > 0 {
		h = r.backlogged(verb, b, h)
	}
	r.mu.Lock()
	r.routes[verb] = h
	r.mu.Unlock()
}

// Run routes a command to its verb's handler.
func (r *Router) Run(c Command) (any, error) {
	r.mu.RLock()
	h, ok := r.routes[c.Verb]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown command %q", c.Verb)
	}
	return h(c)
}

// Resolves reports whether a verb has a handler.
func (r *Router) Resolves(verb string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.routes[verb]
	return ok
}

// backlogged hands the verb's commands to a drain goroutine. The caller
// gets nil back immediately; a full backlog either blocks or sheds
// depending on the binding.
func (r *Router) backlogged(verb string, b Binding, h Handler) Handler {
	ch := make(chan Command, b.Backlog)
	r.mu.Lock()
	r.backlogs[verb] = ch
	r.mu.Unlock()

	go func() {
		for c := range ch {
			h(c)
		}
	}()

	if b.Wait {
		return func(c Command) (any, error) {
			ch <- c
			return nil, nil
		}
	}

	verbAttr := attribute.String("verb", verb)
	return func(c Command) (any, error) {
		select {
		case ch <- c:
			return nil, nil
		default:
			r.shed.Add(context.Background(), 1, metric.WithAttributes(verbAttr))
			return nil, fmt.Errorf("backlog full for %q", verb)
		}
	}
}

func (r *Router) traced(verb string, h Handler) Handler {
	return func(c Command) (any, error) {
		start := time.Now()
		v, err := h(c)
		if err != nil {
			r.log.Error("command failed",
				"verb", verb, "durationMs", time.Since(start).Milliseconds(), "error", err)
			return v, err
		}
		r.log.Debug("command done",
			"verb", verb, "args", len(c.Args), "durationMs", time.Since(start).Milliseconds())
		return v, err
	}
}

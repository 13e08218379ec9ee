package mux

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Handler is invoked for every decoded Notification whose marker it was
// registered for, in registration order. A panic inside a Handler is
// recovered and logged; it never unwinds the dispatch loop.
type Handler func(Notification)

// LayoutSync is the built-in handler the Session Driver registers itself
// as, so the dispatcher always refreshes cached layout state for a
// "layout-change" notification before any user handler for the same
// notification runs.
type LayoutSync interface {
	HandleLayoutChange(n Notification)
}

// Dispatcher is the sole consumer of a decoded notification stream and the
// sole writer to a Pipeline's "pop next callback" side.
type Dispatcher struct {
	pipeline *Pipeline
	ls       *LineSource
	log      *slog.Logger

	mu       sync.Mutex
	handlers map[string][]Handler
	sync     LayoutSync

	stopped atomic.Bool
	done    chan struct{}
}

// NewDispatcher wires a Dispatcher to a line source and the pipeline it
// feeds. log may be nil, in which case slog.Default() is used.
func NewDispatcher(ls *LineSource, p *Pipeline, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		pipeline: p,
		ls:       ls,
		log:      log,
		handlers: make(map[string][]Handler),
		done:     make(chan struct{}),
	}
}

// SetLayoutSync registers the built-in layout-change consumer.
func (d *Dispatcher) SetLayoutSync(s LayoutSync) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sync = s
}

// AddHandler registers fn to run for every notification whose marker
// equals marker (e.g. "output", "window-add"), in registration order.
func (d *Dispatcher) AddHandler(marker string, fn Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[marker] = append(d.handlers[marker], fn)
}

// Done is closed once the dispatcher has stopped, whether due to %exit,
// EOF, or ctx cancellation.
func (d *Dispatcher) Done() <-chan struct{} { return d.done }

// Stopped reports whether the dispatch loop has returned.
func (d *Dispatcher) Stopped() bool { return d.stopped.Load() }

// Run decodes lines from the line source until EOF, %exit, or ctx is
// cancelled, dispatching Results to the pipeline's FIFO callbacks and
// every other notification to registered handlers. It returns once the
// stream ends; callers typically run it in its own goroutine.
func (d *Dispatcher) Run(ctx context.Context) {
	defer func() {
		d.stopped.Store(true)
		d.pipeline.Close()
		close(d.done)
	}()

	dec := NewDecoder(d.handle_result, d.handle_notification, d.handle_parse_error)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := d.ls.NextLine()
		if err != nil {
			return
		}
		dec.Feed(line)

		if d.stopped.Load() {
			return
		}
	}
}

func (d *Dispatcher) handle_result(r Result) {
	ch, ok := d.pipeline.TakeNextCallback()
	if !ok {
		d.log.Warn("mux: result with no pending callback", "begin_ts", r.BeginTS)
		return
	}
	ch <- r
	close(ch)
}

func (d *Dispatcher) handle_notification(n Notification) {
	if n.Marker == "exit" {
		d.stopped.Store(true)
	}

	d.mu.Lock()
	sync := d.sync
	handlers := append([]Handler(nil), d.handlers[n.Marker]...)
	d.mu.Unlock()

	if n.Marker == "layout-change" && sync != nil {
		d.invoke_sync(sync, n)
	}

	for _, h := range handlers {
		d.invoke_handler(h, n)
	}
}

func (d *Dispatcher) invoke_sync(s LayoutSync, n Notification) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("mux: layout sync panicked", "marker", n.Marker, "recover", r)
		}
	}()
	s.HandleLayoutChange(n)
}

func (d *Dispatcher) invoke_handler(h Handler, n Notification) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("mux: handler panicked", "marker", n.Marker, "recover", r)
		}
	}()
	h(n)
}

func (d *Dispatcher) handle_parse_error(e *ParseError) {
	d.log.Debug("mux: parse error", "error", e)
}

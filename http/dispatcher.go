package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
)

// DefaultBacklog is the number of requests that may wait for a HandleClient
// call before new connections block.
const DefaultBacklog = 8

const (
	stateQueued int32 = iota
	stateClaimed
	stateAbandoned
)

type pending struct {
	w     http.ResponseWriter
	r     *http.Request
	done  chan struct{}
	state atomic.Int32
}

// Dispatcher hands requests accepted by net/http to a single consumer.
// Connection goroutines park in ServeHTTP until HandleClient or Serve picks
// their request up, and the wrapped handler runs on the consumer's goroutine.
type Dispatcher struct {
	handler http.Handler
	queue   chan *pending

	closed    chan struct{}
	closeOnce sync.Once
}

// NewDispatcher wraps handler. A non-positive backlog means DefaultBacklog.
func NewDispatcher(handler http.Handler, backlog int) *Dispatcher {
	if backlog <= 0 {
		backlog = DefaultBacklog
	}
	return &Dispatcher{
		handler: handler,
		queue:   make(chan *pending, backlog),
		closed:  make(chan struct{}),
	}
}

// ServeHTTP queues the request and waits until it has been handled. If the
// client goes away or the dispatcher is closed before the request is picked
// up, the request is dropped; a closed dispatcher answers 503.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p := &pending{w: w, r: r, done: make(chan struct{})}

	select {
	case d.queue <- p:
	case <-r.Context().Done():
		return
	case <-d.closed:
		writeUnavailable(w)
		return
	}

	select {
	case <-p.done:
		return
	case <-r.Context().Done():
	case <-d.closed:
	}

	if p.state.CompareAndSwap(stateQueued, stateAbandoned) {
		if d.isClosed() {
			writeUnavailable(w)
		}
		return
	}

	<-p.done
}

// HandleClient handles at most one queued request and reports whether it
// did. It never blocks waiting for a request.
func (d *Dispatcher) HandleClient() bool {
	for {
		select {
		case p := <-d.queue:
			if !p.state.CompareAndSwap(stateQueued, stateClaimed) {
				continue
			}
			d.run(p)
			return true
		default:
			return false
		}
	}
}

// Serve handles requests one at a time until ctx is done or the dispatcher
// is closed.
func (d *Dispatcher) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.closed:
			return ErrDispatcherClosed
		case p := <-d.queue:
			if p.state.CompareAndSwap(stateQueued, stateClaimed) {
				d.run(p)
			}
		}
	}
}

// Pending returns the number of requests waiting to be handled, including
// ones whose client has already gone away.
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}

// Close stops accepting requests. Requests still waiting are answered 503.
func (d *Dispatcher) Close() error {
	d.closeOnce.Do(func() {
		close(d.closed)
	})
	return nil
}

func (d *Dispatcher) isClosed() bool {
	select {
	case <-d.closed:
		return true
	default:
		return false
	}
}

func (d *Dispatcher) run(p *pending) {
	defer close(p.done)
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("handler panic", "uri", p.r.URL.Path, "panic", rec)
		}
	}()
	d.handler.ServeHTTP(p.w, p.r)
}

func writeUnavailable(w http.ResponseWriter) {
	send(w, http.StatusServiceUnavailable, "text/plain; charset=utf-8", ErrDispatcherClosed.Error())
}

package link

import (
	"context"
	"fmt"
	"sync"
)

// Router acts on a consumed link, typically by navigating the application to
// the link's destination. The dispatcher has no navigation knowledge itself.
type Router interface {
	Route(ctx context.Context, link Link) error
}

// RouterFunc adapts a function to the Router interface.
type RouterFunc func(ctx context.Context, link Link) error

func (f RouterFunc) Route(ctx context.Context, link Link) error { return f(ctx, link) }

// Dispatcher combines the buffer with the two external readiness signals:
// authentication state and navigation mount state. Whenever both are up it
// consumes the buffered link and hands it to the Router.
type Dispatcher struct {
	buffer *Buffer
	router Router

	mu            sync.Mutex
	authenticated bool
	mounted       bool
}

func NewDispatcher(buffer *Buffer, router Router) *Dispatcher {
	return &Dispatcher{buffer: buffer, router: router}
}

// Ready reports whether both readiness signals are up.
func (d *Dispatcher) Ready() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.authenticated && d.mounted
}

// Authenticated reports the last recorded authentication signal.
func (d *Dispatcher) Authenticated() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.authenticated
}

// Mounted reports the last recorded navigation-mounted signal.
func (d *Dispatcher) Mounted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mounted
}

// SetAuthenticated records the authentication signal and replays the buffered
// link when the dispatcher just became ready.
func (d *Dispatcher) SetAuthenticated(ctx context.Context, authenticated bool) error {
	d.mu.Lock()
	d.authenticated = authenticated
	d.mu.Unlock()
	return d.Dispatch(ctx)
}

// SetMounted records the navigation-mounted signal and replays the buffered
// link when the dispatcher just became ready.
func (d *Dispatcher) SetMounted(ctx context.Context, mounted bool) error {
	d.mu.Lock()
	d.mounted = mounted
	d.mu.Unlock()
	return d.Dispatch(ctx)
}

// Offer routes the link immediately when ready, otherwise buffers it for
// later replay. Buffering always succeeds. Readiness may flip between the
// check and the capture, so a buffered link is re-dispatched right away
// rather than stranded until the next readiness transition.
func (d *Dispatcher) Offer(ctx context.Context, link Link) error {
	if d.Ready() {
		if err := d.router.Route(ctx, link); err != nil {
			return fmt.Errorf("failed to route link %v: %w", link.Kind, err)
		}
		return nil
	}
	d.buffer.Capture(link)
	return d.Dispatch(ctx)
}

// Dispatch consumes the buffered link if the dispatcher is ready and routes
// it. A routing failure loses the link; it is not re-buffered.
func (d *Dispatcher) Dispatch(ctx context.Context) error {
	pending, ok := d.buffer.TryConsume(d.Ready())
	if !ok {
		return nil
	}
	if err := d.router.Route(ctx, pending); err != nil {
		return fmt.Errorf("failed to route link %v: %w", pending.Kind, err)
	}
	return nil
}

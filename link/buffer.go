package link

import (
	"sync"
	"time"
)

// Link is a parsed deep link. CapturedAt is diagnostic and feeds the optional
// expiry policy.
type Link struct {
	Kind       string            `json:"kind"`
	Params     map[string]string `json:"params,omitempty"`
	CapturedAt time.Time         `json:"capturedAt"`
}

// Buffer holds at most one pending link. Capture overwrites, TryConsume
// clears on success, Peek never mutates. All methods are safe for concurrent
// use; mutations are totally ordered by an internal mutex.
type Buffer struct {
	mu      sync.Mutex
	pending *Link
	ttl     time.Duration
	now     func() time.Time
}

// BufferOption customizes a Buffer.
type BufferOption func(b *Buffer)

// WithTTL discards a buffered link once it is older than ttl. There is no
// default expiry: the zero value keeps links indefinitely and the cut-off is
// a deliberate configuration input.
func WithTTL(ttl time.Duration) BufferOption {
	return func(b *Buffer) {
		b.ttl = ttl
	}
}

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) BufferOption {
	return func(b *Buffer) {
		b.now = now
	}
}

func NewBuffer(options ...BufferOption) *Buffer {
	ret := &Buffer{now: time.Now}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Capture stores the link, overwriting any previously buffered unconsumed
// link. It always succeeds. A zero CapturedAt is stamped with the current
// time.
func (b *Buffer) Capture(link Link) {
	if link.CapturedAt.IsZero() {
		link.CapturedAt = b.now()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = &link
}

// Peek returns the buffered link without consuming it.
func (b *Buffer) Peek() (Link, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dropExpiredLocked(); b.pending == nil {
		return Link{}, false
	}
	return *b.pending, true
}

// TryConsume returns and clears the buffered link when ready is true and a
// link is present; otherwise it leaves the buffer untouched. Consuming an
// empty buffer is an idempotent no-op.
func (b *Buffer) TryConsume(ready bool) (Link, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dropExpiredLocked(); !ready || b.pending == nil {
		return Link{}, false
	}
	pending := *b.pending
	b.pending = nil
	return pending, true
}

func (b *Buffer) dropExpiredLocked() {
	if b.ttl <= 0 || b.pending == nil {
		return
	}
	if b.now().Sub(b.pending.CapturedAt) > b.ttl {
		b.pending = nil
	}
}

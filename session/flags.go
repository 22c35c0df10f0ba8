package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// Flags persists "recently verified" timestamps keyed by action, backed by
// any afs-supported scheme (file://, mem:// in tests). It is collaborator
// state: the confirmation core consults it, it never owns challenge
// lifecycle. All methods are safe for concurrent use; load and persistence
// are totally ordered by an internal mutex.
type Flags struct {
	fs  afs.Service
	URL string
	now func() time.Time

	mu     sync.Mutex
	flags  map[string]time.Time
	loaded bool
}

// FlagsOption customizes a Flags store.
type FlagsOption func(f *Flags)

// WithFlagsClock overrides the time source, for deterministic tests.
func WithFlagsClock(now func() time.Time) FlagsOption {
	return func(f *Flags) {
		f.now = now
	}
}

// NewFlags creates a store persisting at URL.
func NewFlags(URL string, options ...FlagsOption) *Flags {
	ret := &Flags{
		fs:    afs.New(),
		URL:   URL,
		flags: map[string]time.Time{},
		now:   time.Now,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// MarkVerified records a successful verification for key at the current time
// and persists the snapshot.
func (f *Flags) MarkVerified(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.loadLocked(ctx); err != nil {
		return err
	}
	f.flags[key] = f.now()
	return f.saveLocked(ctx)
}

// VerifiedAt returns the last recorded verification time for key.
func (f *Flags) VerifiedAt(ctx context.Context, key string) (time.Time, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.loadLocked(ctx); err != nil {
		return time.Time{}, false, err
	}
	at, ok := f.flags[key]
	return at, ok, nil
}

// RecentlyVerified reports whether key was verified within the given window.
func (f *Flags) RecentlyVerified(ctx context.Context, key string, within time.Duration) (bool, error) {
	at, ok, err := f.VerifiedAt(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	return f.now().Sub(at) <= within, nil
}

func (f *Flags) loadLocked(ctx context.Context) error {
	if f.loaded {
		return nil
	}
	exists, err := f.fs.Exists(ctx, f.URL)
	if err != nil {
		return fmt.Errorf("failed to check flags %v: %w", f.URL, err)
	}
	if exists {
		data, err := f.fs.DownloadWithURL(ctx, f.URL)
		if err != nil {
			return fmt.Errorf("failed to load flags %v: %w", f.URL, err)
		}
		snapshot := map[string]time.Time{}
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return fmt.Errorf("failed to decode flags %v: %w", f.URL, err)
		}
		for key, at := range snapshot {
			f.flags[key] = at
		}
	}
	f.loaded = true
	return nil
}

func (f *Flags) saveLocked(ctx context.Context) error {
	data, err := json.Marshal(f.flags)
	if err != nil {
		return err
	}
	if err := f.fs.Upload(ctx, f.URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to persist flags %v: %w", f.URL, err)
	}
	return nil
}

package confirm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Service guarantees single-flight confirmation: Idle -> AwaitingInput ->
// Resolved -> Idle, with no transition skipping AwaitingInput. Instances are
// created explicitly and injected by the application's composition root; there
// is no package-level singleton.
type Service struct {
	mu          sync.Mutex
	current     *request
	subscribers []subscriber
	nextSub     int
	verifier    Verifier
	validate    *validator.Validate
}

type subscriber struct {
	id       int
	listener Listener
}

// New creates a confirmation service. A Verifier is mandatory: accepting any
// credential is opt-in through the explicit AcceptAll test verifier, never a
// default.
func New(options ...Option) (*Service, error) {
	ret := &Service{validate: validator.New()}
	for _, option := range options {
		option(ret)
	}
	if ret.verifier == nil {
		return nil, errors.New("confirm: no verifier specified")
	}
	return ret, nil
}

// Request opens a challenge and suspends the caller until the presentation
// layer resolves it. When another challenge is outstanding it fails
// immediately with ErrAlreadyInProgress without touching the outstanding one.
// Cancelling ctx abandons the challenge and clears it.
func (s *Service) Request(ctx context.Context, options *Options) (*Result, error) {
	if options == nil {
		return nil, fmt.Errorf("confirmation options were nil")
	}
	if err := s.validate.Struct(options); err != nil {
		return nil, fmt.Errorf("invalid confirmation options: %w", err)
	}
	req := &request{id: uuid.NewString(), options: *options, done: make(chan *Result, 1)}

	s.mu.Lock()
	if s.current != nil {
		s.mu.Unlock()
		return nil, ErrAlreadyInProgress
	}
	s.current = req
	s.notifyLocked(State{Visible: true, Id: req.id, Options: req.options})
	s.mu.Unlock()

	select {
	case result := <-req.done:
		return result, nil
	case <-ctx.Done():
		if s.clear(req) {
			return nil, ctx.Err()
		}
		// resolved concurrently with cancellation; the result is owed to the caller
		return <-req.done, nil
	}
}

// Subscribe registers a listener for visibility changes and returns an
// unsubscribe handle. Notifications fire synchronously after every state
// mutation, in mutation order.
func (s *Service) Subscribe(listener Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subscribers = append(s.subscribers, subscriber{id: id, listener: listener})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, candidate := range s.subscribers {
			if candidate.id == id {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// State returns the current visibility snapshot, for presentation layers that
// mount after a challenge was opened.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return State{}
	}
	return State{Visible: true, Id: s.current.id, Options: s.current.options}
}

// Active reports whether a challenge is outstanding.
func (s *Service) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// Submit verifies the entered credential and resolves the challenge with
// OutcomeSuccess or OutcomeFailed. It is a no-op returning nil when no
// challenge with the given id is outstanding.
func (s *Service) Submit(ctx context.Context, id, code string) *Result {
	req := s.outstanding()
	if req == nil || req.id != id {
		return nil
	}
	result := &Result{Outcome: OutcomeSuccess}
	if err := s.verifier.Verify(ctx, code); err != nil {
		result = &Result{Outcome: OutcomeFailed, Reason: err.Error()}
	}
	if !s.resolve(id, result) {
		return nil
	}
	return result
}

// Cancel resolves the outstanding challenge with OutcomeCancelled. It is a
// no-op when no challenge with the given id is outstanding.
func (s *Service) Cancel(id string) bool {
	return s.resolve(id, &Result{Outcome: OutcomeCancelled})
}

// Fail resolves the outstanding challenge with OutcomeFailed and the supplied
// reason, e.g. when the presentation layer hits an unrecoverable error.
func (s *Service) Fail(id, reason string) bool {
	return s.resolve(id, &Result{Outcome: OutcomeFailed, Reason: reason})
}

// outstanding returns the current request snapshot.
func (s *Service) outstanding() *request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// resolve clears the outstanding request before notifying anyone, so a new
// Request issued during notification never observes a stale challenge.
func (s *Service) resolve(id string, result *Result) bool {
	s.mu.Lock()
	req := s.current
	if req == nil || req.id != id {
		s.mu.Unlock()
		return false
	}
	s.current = nil
	s.notifyLocked(State{})
	s.mu.Unlock()
	req.done <- result
	return true
}

// clear removes req if it is still outstanding, without producing a result.
func (s *Service) clear(req *request) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != req {
		return false
	}
	s.current = nil
	s.notifyLocked(State{})
	return true
}

func (s *Service) notifyLocked(state State) {
	for _, candidate := range s.subscribers {
		candidate.listener(state)
	}
}

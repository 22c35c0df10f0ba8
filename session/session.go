package session

import (
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Service holds the current session token. Readiness means a token is present
// and unexpired. The token is issued and verified by the backend; claims are
// parsed unverified here solely to derive expiry and subject.
type Service struct {
	mu        sync.Mutex
	token     *oauth2.Token
	subject   string
	watchers  []watcher
	nextWatch int
}

type watcher struct {
	id int
	fn func(ready bool)
}

func New() *Service {
	return &Service{}
}

// Authenticate installs a session token. When the token carries an id_token
// and no expiry, expiry is derived from the token claims. Watchers observe a
// readiness transition synchronously.
func (s *Service) Authenticate(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("session token was empty")
	}
	subject := ""
	if raw, ok := token.Extra("id_token").(string); ok && raw != "" {
		claims := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
			return fmt.Errorf("failed to parse id token: %w", err)
		}
		if token.Expiry.IsZero() {
			expiry, err := claims.GetExpirationTime()
			if err != nil {
				return fmt.Errorf("failed to get expiration time: %w", err)
			}
			if expiry != nil {
				token.Expiry = expiry.Time
			}
		}
		subject, _ = claims.GetSubject()
	}

	s.mu.Lock()
	wasReady := s.readyLocked()
	s.token = token
	s.subject = subject
	s.notifyTransitionLocked(wasReady)
	s.mu.Unlock()
	return nil
}

// Clear drops the session, e.g. on logout; watchers observe the transition.
func (s *Service) Clear() {
	s.mu.Lock()
	wasReady := s.readyLocked()
	s.token = nil
	s.subject = ""
	s.notifyTransitionLocked(wasReady)
	s.mu.Unlock()
}

// Ready reports whether an unexpired session token is installed.
func (s *Service) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readyLocked()
}

// Subject returns the identity subject claim of the current session, when
// one was derived from an id token.
func (s *Service) Subject() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subject, s.subject != ""
}

// Token returns the current session token.
func (s *Service) Token() (*oauth2.Token, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != nil
}

// Watch registers a readiness-transition listener and returns an unsubscribe
// handle. Delivery is synchronous; listeners must not call back into the
// Service.
func (s *Service) Watch(fn func(ready bool)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextWatch
	s.nextWatch++
	s.watchers = append(s.watchers, watcher{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, candidate := range s.watchers {
			if candidate.id == id {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				return
			}
		}
	}
}

func (s *Service) readyLocked() bool {
	return s.token != nil && s.token.Valid()
}

func (s *Service) notifyTransitionLocked(wasReady bool) {
	ready := s.readyLocked()
	if ready == wasReady {
		return
	}
	for _, candidate := range s.watchers {
		candidate.fn(ready)
	}
}

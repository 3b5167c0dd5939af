// Package session holds the signed-in user and bearer token as an
// explicit object passed into collaborators, with change notification
// tied to sign-in/sign-out instead of ambient global state.
package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/irobinett3/footy-social/internal/models"
)

type Session struct {
	clientID string

	mu        sync.RWMutex
	user      *models.User
	token     string
	listeners []func()
}

func New() *Session {
	return &Session{
		clientID: uuid.NewString(),
	}
}

// ClientID identifies this client instance in logs and request headers.
// It is stable for the lifetime of the process, not tied to sign-in.
func (s *Session) ClientID() string {
	return s.clientID
}

func (s *Session) SignIn(user models.User, token string) {
	s.mu.Lock()
	s.user = &user
	s.token = token
	s.mu.Unlock()
	s.notify()
}

func (s *Session) SignOut() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()
	s.notify()
}

// Token returns the current bearer token, empty when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current user, nil when signed out.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Subscribe registers fn to run after every sign-in or sign-out.
// Listeners are invoked synchronously and must not block.
func (s *Session) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Session) notify() {
	s.mu.RLock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}

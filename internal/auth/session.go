package auth

import (
	"context"
	"sync"
)

// Listener is notified with the current identity; nil means signed out.
type Listener func(ctx context.Context, identity *Identity)

// Session is the identity context of a single request. Pages subscribe to it
// instead of reading a global current user.
type Session struct {
	token string

	mu        sync.Mutex
	identity  *Identity
	resolved  bool
	nextID    int
	listeners map[int]Listener
}

func NewSession(token string) *Session {
	return &Session{
		token:     token,
		listeners: map[int]Listener{},
	}
}

func (s *Session) Token() string {
	return s.token
}

// Identity returns the current identity and whether the session was resolved
// at all. A resolved session with a nil identity is signed out.
func (s *Session) Identity() (*Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity, s.resolved
}

// Subscribe registers listener. When the session is already resolved the
// listener is called right away with the current identity.
func (s *Session) Subscribe(ctx context.Context, listener Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	identity, resolved := s.identity, s.resolved
	s.mu.Unlock()

	if resolved {
		listener(ctx, identity)
	}

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Resolve sets the identity and notifies every listener.
func (s *Session) Resolve(ctx context.Context, identity *Identity) {
	s.mu.Lock()
	s.identity = identity
	s.resolved = true
	listeners := make([]Listener, 0, len(s.listeners))
	for i := 0; i < s.nextID; i++ {
		if l, ok := s.listeners[i]; ok {
			listeners = append(listeners, l)
		}
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(ctx, identity)
	}
}

type sessionCtxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

// SessionFromContext returns nil when no session is attached.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionCtxKey{}).(*Session)
	return s
}

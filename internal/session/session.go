// Package session keeps per-browser state server side. The browser only holds
// a signed token naming the session; the principal is stored as a user id and
// resolved on every request.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Session is the server-side state for one browser.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Flash     []string  `json:"flash,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// New returns an anonymous session with a fresh id.
func New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}
}

// Authenticated reports whether a user is bound to the session.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}

func (s *Session) AddFlash(msg string) {
	s.Flash = append(s.Flash, msg)
}

// PopFlash returns and clears pending flash messages.
func (s *Session) PopFlash() []string {
	msgs := s.Flash
	s.Flash = nil
	return msgs
}

func (s *Session) clone() *Session {
	cp := *s
	cp.Flash = append([]string(nil), s.Flash...)
	return &cp
}

// Store persists sessions. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, sess *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/careportal/internal/model"
	"github.com/jwalitptl/careportal/internal/session"
)

const (
	ContextSession   = "session"
	ContextPrincipal = "principal"
)

// PrincipalResolver turns the user id stored in a session back into a user.
type PrincipalResolver interface {
	DeserializePrincipal(ctx context.Context, id string) *model.User
}

type AuthMiddleware struct {
	sessions *session.Manager
	users    PrincipalResolver
}

func NewAuthMiddleware(sessions *session.Manager, users PrincipalResolver) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		users:    users,
	}
}

// LoadSession attaches the request's session and, when it names a known
// user, the principal. It never rejects a request.
func (m *AuthMiddleware) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := m.sessions.Load(c.Request)
		if sess.Authenticated() {
			if user := m.users.DeserializePrincipal(c.Request.Context(), sess.UserID); user != nil {
				c.Set(ContextPrincipal, model.NewPrincipal(user))
			} else {
				sess.UserID = ""
			}
		}
		c.Set(ContextSession, sess)
		c.Next()
	}
}

// RequireAuthenticated redirects anonymous requests to the login page.
func (m *AuthMiddleware) RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if PrincipalFrom(c) == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAnonymous sends logged-in users to their dashboard. A role without a
// dashboard is let through.
func (m *AuthMiddleware) RequireAnonymous() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := PrincipalFrom(c)
		if p != nil {
			if dest := p.Role.LandingPath(); dest != "/login" {
				c.Redirect(http.StatusFound, dest)
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

// SessionFrom returns the session attached by LoadSession. Requests that did
// not pass through it get a fresh anonymous session.
func SessionFrom(c *gin.Context) *session.Session {
	if v, ok := c.Get(ContextSession); ok {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	sess := session.New()
	c.Set(ContextSession, sess)
	return sess
}

// PrincipalFrom returns the authenticated principal or nil.
func PrincipalFrom(c *gin.Context) *model.Principal {
	if v, ok := c.Get(ContextPrincipal); ok {
		if p, ok := v.(*model.Principal); ok {
			return p
		}
	}
	return nil
}

// WithSession adapts a handler that takes the session explicitly.
func WithSession(h func(c *gin.Context, sess *session.Session)) gin.HandlerFunc {
	return func(c *gin.Context) {
		h(c, SessionFrom(c))
	}
}

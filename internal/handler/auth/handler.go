package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/careportal/internal/handler"
	"github.com/jwalitptl/careportal/internal/model"
	"github.com/jwalitptl/careportal/internal/service/auth"
	"github.com/jwalitptl/careportal/internal/session"
	"github.com/jwalitptl/careportal/internal/view"
	"github.com/jwalitptl/careportal/pkg/httputil"
)

// MsgLoginFailed is flashed for every rejected login, whatever the cause.
const MsgLoginFailed = "Login failed. Check your email, password and account type."

type Handler struct {
	*handler.BaseHandler
	svc *auth.Service
}

func NewHandler(base *handler.BaseHandler, svc *auth.Service) *Handler {
	return &Handler{BaseHandler: base, svc: svc}
}

func (h *Handler) LoginPage(c *gin.Context, sess *session.Session) {
	h.Render(c, view.PageLogin, sess, gin.H{"Title": "Log in"})
}

func (h *Handler) RegisterPage(c *gin.Context, sess *session.Session) {
	h.Render(c, view.PageRegister, sess, gin.H{"Title": "Register"})
}

func (h *Handler) Login(c *gin.Context, sess *session.Session) {
	var req model.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.FlashRedirect(c, sess, "/login", MsgLoginFailed)
		return
	}

	user, err := h.svc.Login(c.Request.Context(), sess, &req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrRoleMismatch) {
			h.FlashRedirect(c, sess, "/login", MsgLoginFailed)
			return
		}
		h.Fail(c, err)
		return
	}

	// Rotate the session id at login. Earlier failure messages are stale now.
	sess.PopFlash()
	fresh, err := h.Sessions.Regenerate(c.Request.Context(), sess)
	if err != nil {
		h.Fail(c, err)
		return
	}
	if !h.Commit(c, fresh) {
		return
	}
	httputil.Redirect(c, user.Role.LandingPath())
}

func (h *Handler) Register(c *gin.Context, sess *session.Session) {
	var req model.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		httputil.Redirect(c, "/register")
		return
	}

	if _, err := h.svc.Register(c.Request.Context(), &req); err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("registration failed")
		httputil.Redirect(c, "/register")
		return
	}
	httputil.Redirect(c, "/login")
}

// Logout ends the session and sends the browser to the dashboard of the role
// it had, which in turn bounces to the login page.
func (h *Handler) Logout(c *gin.Context, sess *session.Session) {
	role := h.svc.Logout(c.Request.Context(), sess)
	if err := h.Sessions.Destroy(c.Request.Context(), c.Writer, sess); err != nil {
		log.Error().Err(err).Str("session_id", sess.ID).Msg("failed to destroy session")
	}
	httputil.Redirect(c, role.LandingPath())
}

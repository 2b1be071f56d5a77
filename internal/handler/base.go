package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/careportal/internal/middleware"
	"github.com/jwalitptl/careportal/internal/session"
	"github.com/jwalitptl/careportal/pkg/httputil"
)

// BaseHandler carries what every page handler needs to answer a browser:
// rendering with the session's flash and committing session changes.
type BaseHandler struct {
	Sessions *session.Manager
}

func NewBaseHandler(sessions *session.Manager) *BaseHandler {
	return &BaseHandler{Sessions: sessions}
}

// Render writes page with data plus the principal and any pending flash
// messages, which are consumed.
func (h *BaseHandler) Render(c *gin.Context, page string, sess *session.Session, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Principal"] = middleware.PrincipalFrom(c)

	if flash := sess.PopFlash(); len(flash) > 0 {
		data["Flash"] = flash
		if !h.Commit(c, sess) {
			return
		}
	}
	c.HTML(http.StatusOK, page, data)
}

// Commit saves sess and refreshes its cookie. On failure it answers 500 and
// returns false.
func (h *BaseHandler) Commit(c *gin.Context, sess *session.Session) bool {
	if err := h.Sessions.Save(c.Request.Context(), c.Writer, sess); err != nil {
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.ContextRequestID)).
			Msg("failed to save session")
		c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return false
	}
	return true
}

// FlashRedirect queues msg for the next page and redirects there.
func (h *BaseHandler) FlashRedirect(c *gin.Context, sess *session.Session, path, msg string) {
	sess.AddFlash(msg)
	if !h.Commit(c, sess) {
		return
	}
	httputil.Redirect(c, path)
}

// Fail records err for the error middleware, which answers with a plain-text
// status derived from it.
func (h *BaseHandler) Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

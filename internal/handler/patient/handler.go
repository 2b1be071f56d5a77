package patient

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/careportal/internal/handler"
	"github.com/jwalitptl/careportal/internal/middleware"
	"github.com/jwalitptl/careportal/internal/model"
	"github.com/jwalitptl/careportal/internal/service/patient"
	"github.com/jwalitptl/careportal/internal/session"
	"github.com/jwalitptl/careportal/internal/view"
	apperrors "github.com/jwalitptl/careportal/pkg/errors"
	"github.com/jwalitptl/careportal/pkg/httputil"
)

type Handler struct {
	*handler.BaseHandler
	svc patient.PatientService
}

func NewHandler(base *handler.BaseHandler, svc patient.PatientService) *Handler {
	return &Handler{BaseHandler: base, svc: svc}
}

func (h *Handler) Dashboard(c *gin.Context, sess *session.Session) {
	p := middleware.PrincipalFrom(c)

	record, err := h.svc.Dashboard(c.Request.Context(), p.Name)
	if err != nil {
		h.Fail(c, err)
		return
	}
	distributors, err := h.svc.ListDistributors(c.Request.Context())
	if err != nil {
		h.Fail(c, err)
		return
	}

	h.Render(c, view.PagePatient, sess, gin.H{
		"Title":        "Patient",
		"Patient":      record,
		"Distributors": distributors,
	})
}

func (h *Handler) RequestRefill(c *gin.Context) {
	var form model.RefillRequestForm
	if err := c.ShouldBind(&form); err != nil {
		h.Fail(c, apperrors.NewBadRequest("invalid refill request", err))
		return
	}
	form.PatientName = patientName(c, form.PatientName)

	if _, err := h.svc.RequestRefill(c.Request.Context(), &form); err != nil {
		h.Fail(c, err)
		return
	}
	httputil.Redirect(c, "/patient")
}

func (h *Handler) UpdateHealthRecord(c *gin.Context) {
	var form model.HealthRecordForm
	if err := c.ShouldBind(&form); err != nil {
		h.Fail(c, apperrors.NewBadRequest("invalid health record", err))
		return
	}
	form.PatientName = patientName(c, form.PatientName)

	if err := h.svc.UpdateHealthRecord(c.Request.Context(), &form); err != nil {
		h.Fail(c, err)
		return
	}
	httputil.Redirect(c, "/patient")
}

// patientName prefers the posted name and falls back to the logged-in user.
func patientName(c *gin.Context, posted string) string {
	if posted != "" {
		return posted
	}
	if p := middleware.PrincipalFrom(c); p != nil {
		return p.Name
	}
	return ""
}

package doctor

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/careportal/internal/handler"
	"github.com/jwalitptl/careportal/internal/middleware"
	"github.com/jwalitptl/careportal/internal/model"
	"github.com/jwalitptl/careportal/internal/service/doctor"
	"github.com/jwalitptl/careportal/internal/session"
	"github.com/jwalitptl/careportal/internal/view"
	apperrors "github.com/jwalitptl/careportal/pkg/errors"
	"github.com/jwalitptl/careportal/pkg/httputil"
)

type Handler struct {
	*handler.BaseHandler
	svc doctor.Service
}

func NewHandler(base *handler.BaseHandler, svc doctor.Service) *Handler {
	return &Handler{BaseHandler: base, svc: svc}
}

func (h *Handler) Dashboard(c *gin.Context, sess *session.Session) {
	ctx := c.Request.Context()
	p := middleware.PrincipalFrom(c)

	dv, err := h.svc.Dashboard(ctx, p.UserID)
	if err != nil {
		h.Fail(c, err)
		return
	}
	patients, err := h.svc.ListPatients(ctx)
	if err != nil {
		h.Fail(c, err)
		return
	}
	distributors, err := h.svc.ListDistributors(ctx)
	if err != nil {
		h.Fail(c, err)
		return
	}

	h.Render(c, view.PageDoctor, sess, gin.H{
		"Title":        "Doctor",
		"View":         dv,
		"AllPatients":  patients,
		"Distributors": distributors,
	})
}

func (h *Handler) ManagePatients(c *gin.Context) {
	var form model.ManagePatientsForm
	if err := c.ShouldBind(&form); err != nil {
		h.Fail(c, apperrors.NewBadRequest("invalid patient list", err))
		return
	}
	if form.DoctorID == "" {
		if p := middleware.PrincipalFrom(c); p != nil {
			form.DoctorID = p.UserID
		}
	}

	if err := h.svc.ManagePatients(c.Request.Context(), &form); err != nil {
		h.Fail(c, err)
		return
	}
	httputil.Redirect(c, "/doctor")
}

func (h *Handler) UpdateRequestStatus(c *gin.Context) {
	var form model.UpdateRequestStatusForm
	if err := c.ShouldBind(&form); err != nil {
		h.Fail(c, apperrors.NewBadRequest("patientName and requestId are required", err))
		return
	}

	if err := h.svc.UpdateRequestStatus(c.Request.Context(), &form); err != nil {
		h.Fail(c, err)
		return
	}
	httputil.Redirect(c, "/doctor")
}

func (h *Handler) AddDistributor(c *gin.Context) {
	var distributor model.Distributor
	if err := c.ShouldBind(&distributor); err != nil {
		h.Fail(c, apperrors.NewBadRequest("invalid distributor", err))
		return
	}

	if err := h.svc.AddDistributor(c.Request.Context(), &distributor); err != nil {
		h.Fail(c, err)
		return
	}
	httputil.Redirect(c, "/doctor")
}

package menopause

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sakhi-app/core/internal/middleware"
	"github.com/sakhi-app/core/internal/models"
	"github.com/sakhi-app/core/internal/pkg/pagination"
	"github.com/sakhi-app/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/menopause", authMW)
	g.POST("/symptoms", h.logSymptoms)
	g.GET("/symptoms", h.listSymptoms)
	g.POST("/treatments", h.addTreatment)
	g.GET("/treatments", h.listTreatments)
	g.PATCH("/treatments/:id", h.updateTreatment)
	g.DELETE("/treatments/:id", h.deleteTreatment)
	g.GET("/analytics", h.analytics)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errTreatmentNotFound), errors.Is(err, errUserNotFound):
		response.NotFoundMsg(c, err.Error())
	case errors.Is(err, errDateRequired), errors.Is(err, errEndBeforeStart):
		response.UnprocessableEntity(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// POST /menopause/symptoms
func (h *Handler) logSymptoms(c *gin.Context) {
	var dto SymptomDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	l, err := h.svc.LogSymptoms(middleware.CurrentUserID(c), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, l)
}

// GET /menopause/symptoms?limit=30
func (h *Handler) listSymptoms(c *gin.Context) {
	logs, err := h.svc.RecentSymptoms(middleware.CurrentUserID(c), pagination.Limit(c, defaultSymptomLimit))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, logs)
}

func (h *Handler) addTreatment(c *gin.Context) {
	var dto TreatmentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.svc.AddTreatment(middleware.CurrentUserID(c), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, treatmentResponse{Treatment: *t, Active: t.ActiveOn(models.Today())})
}

func (h *Handler) listTreatments(c *gin.Context) {
	items, err := h.svc.Treatments(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	today := models.Today()
	out := make([]treatmentResponse, len(items))
	for i, t := range items {
		out[i] = treatmentResponse{Treatment: t, Active: t.ActiveOn(today)}
	}
	response.OK(c, out)
}

func (h *Handler) updateTreatment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var dto UpdateTreatmentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.svc.UpdateTreatment(middleware.CurrentUserID(c), id, &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, treatmentResponse{Treatment: *t, Active: t.ActiveOn(models.Today())})
}

func (h *Handler) deleteTreatment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteTreatment(middleware.CurrentUserID(c), id); err != nil {
		writeError(c, err)
		return
	}
	response.Message(c, "treatment deleted")
}

// GET /menopause/analytics
func (h *Handler) analytics(c *gin.Context) {
	report, err := h.svc.Analytics(middleware.CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, report)
}

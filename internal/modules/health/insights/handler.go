package insights

import (
	"github.com/gin-gonic/gin"
	"github.com/sakhi-app/core/internal/middleware"
	"github.com/sakhi-app/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/analytics", authMW)
	g.GET("/period", h.period)
	g.GET("/health-summary", h.summary)
}

// GET /analytics/period
func (h *Handler) period(c *gin.Context) {
	report, err := h.svc.PeriodInsights(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, report)
}

// GET /analytics/health-summary
func (h *Handler) summary(c *gin.Context) {
	out, err := h.svc.Summary(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, out)
}

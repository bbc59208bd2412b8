package period

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sakhi-app/core/internal/middleware"
	"github.com/sakhi-app/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/period", authMW)
	g.POST("/logs", h.create)
	g.GET("/logs", h.list)
	g.GET("/logs/:id", h.get)
	g.PATCH("/logs/:id", h.update)
	g.DELETE("/logs/:id", h.delete)
	g.GET("/analytics", h.analytics)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errLogNotFound):
		response.NotFoundMsg(c, err.Error())
	case errors.Is(err, errStartRequired), errors.Is(err, errEndBeforeStart), errors.Is(err, errStartInFuture):
		response.UnprocessableEntity(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

// POST /period/logs
func (h *Handler) create(c *gin.Context) {
	var dto CreateLogDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	l, err := h.svc.Create(middleware.CurrentUserID(c), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, toResponse(*l))
}

// GET /period/logs
func (h *Handler) list(c *gin.Context) {
	logs, err := h.svc.Recent(middleware.CurrentUserID(c), 0)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]logResponse, len(logs))
	for i, l := range logs {
		out[i] = toResponse(l)
	}
	response.OK(c, out)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	l, err := h.svc.Get(middleware.CurrentUserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, toResponse(*l))
}

// PATCH /period/logs/:id
func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var dto UpdateLogDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	l, err := h.svc.Update(middleware.CurrentUserID(c), id, &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, toResponse(*l))
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(middleware.CurrentUserID(c), id); err != nil {
		writeError(c, err)
		return
	}
	response.Message(c, "period log deleted")
}

// GET /period/analytics
func (h *Handler) analytics(c *gin.Context) {
	out, err := h.svc.Analytics(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, out)
}

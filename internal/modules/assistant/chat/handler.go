package chat

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sakhi-app/core/internal/middleware"
	"github.com/sakhi-app/core/internal/pkg/pagination"
	"github.com/sakhi-app/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/chat", authMW)
	g.POST("/ask", h.ask)
	g.GET("/history", h.history)
	g.DELETE("/history", h.clear)
}

// POST /chat/ask
func (h *Handler) ask(c *gin.Context) {
	var dto AskDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	out, err := h.svc.Ask(c.Request.Context(), middleware.CurrentUserID(c), &dto)
	if err != nil {
		switch {
		case errors.Is(err, errUnsupportedLanguage):
			response.BadRequest(c, err.Error())
		case errors.Is(err, errEmptyQuestion), errors.Is(err, errQuestionTooLong):
			response.UnprocessableEntity(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, out)
}

// GET /chat/history?limit=10
func (h *Handler) history(c *gin.Context) {
	out, err := h.svc.History(middleware.CurrentUserID(c), pagination.Limit(c, defaultHistoryLimit))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, out)
}

func (h *Handler) clear(c *gin.Context) {
	n, err := h.svc.ClearHistory(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "chat history cleared", "deleted": n})
}

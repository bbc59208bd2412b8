package post

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sakhi-app/core/internal/middleware"
	"github.com/sakhi-app/core/internal/pkg/pagination"
	"github.com/sakhi-app/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/community/posts")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.GET("/:id/comments", h.comments)

	a := g.Group("", authMW)
	a.POST("", h.create)
	a.DELETE("/:id", h.delete)
	a.POST("/:id/upvote", h.upvote)
	a.POST("/:id/comments", h.comment)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func userLang(c *gin.Context) string {
	return c.DefaultQuery("user_lang", defaultLanguage)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errPostNotFound):
		response.NotFoundMsg(c, err.Error())
	case errors.Is(err, errNotAuthor):
		response.ForbiddenMsg(c, err.Error())
	case errors.Is(err, errAlreadyUpvoted):
		response.Conflict(c, err.Error())
	case errors.Is(err, errUnsupportedLanguage):
		response.BadRequest(c, err.Error())
	case errors.Is(err, errEmptyContent), errors.Is(err, errContentTooLong):
		response.UnprocessableEntity(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

// POST /community/posts
func (h *Handler) create(c *gin.Context) {
	var dto CreatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	out, err := h.svc.Create(middleware.CurrentUserID(c), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, out)
}

// GET /community/posts?user_lang=hi&page=1&size=20
func (h *Handler) list(c *gin.Context) {
	out, page, err := h.svc.List(c.Request.Context(), pagination.FromContext(c), userLang(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, out, page)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	out, err := h.svc.Get(c.Request.Context(), id, userLang(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, out)
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
	response.Message(c, "post deleted")
}

func (h *Handler) upvote(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	n, err := h.svc.Upvote(middleware.CurrentUserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, gin.H{"upvotes": n})
}

// POST /community/posts/:id/comments
func (h *Handler) comment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var dto CommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	out, err := h.svc.AddComment(middleware.CurrentUserID(c), id, &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, out)
}

func (h *Handler) comments(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	out, err := h.svc.Comments(c.Request.Context(), id, userLang(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, out)
}

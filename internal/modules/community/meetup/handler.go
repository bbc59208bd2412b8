package meetup

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sakhi-app/core/internal/middleware"
	"github.com/sakhi-app/core/internal/pkg/jwt"
	"github.com/sakhi-app/core/internal/pkg/response"
)

type Handler struct {
	svc    *Service
	signer *jwt.Signer
}

func NewHandler(svc *Service, signer *jwt.Signer) *Handler {
	return &Handler{svc: svc, signer: signer}
}

// RegisterRoutes mounts /meetups. Reads are public; a valid token adds the
// caller's joined/starred flags.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/meetups")
	optional := middleware.OptionalAuth(h.signer)
	g.GET("", optional, h.list)
	g.GET("/:id", optional, h.get)

	a := g.Group("", authMW)
	a.POST("", h.create)
	a.PUT("/:id", h.update)
	a.DELETE("/:id", h.delete)
	a.POST("/:id/join", h.join)
	a.POST("/:id/leave", h.leave)
	a.POST("/:id/star", h.star)
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
	case errors.Is(err, errMeetupNotFound):
		response.NotFoundMsg(c, err.Error())
	case errors.Is(err, errNotCreator):
		response.ForbiddenMsg(c, err.Error())
	case errors.Is(err, errAlreadyJoined), errors.Is(err, errAlreadyStarred):
		response.Conflict(c, err.Error())
	case errors.Is(err, errNotJoined):
		response.BadRequest(c, err.Error())
	case isValidationError(err):
		response.UnprocessableEntity(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

func (h *Handler) create(c *gin.Context) {
	var dto MeetupDTO
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

// GET /meetups?city=Pune&upcoming=true
func (h *Handler) list(c *gin.Context) {
	upcoming, _ := strconv.ParseBool(c.Query("upcoming"))
	out, err := h.svc.List(middleware.CurrentUserID(c), ListQuery{City: c.Query("city"), Upcoming: upcoming})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, out)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	out, err := h.svc.Get(middleware.CurrentUserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, out)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var dto MeetupDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	out, err := h.svc.Update(middleware.CurrentUserID(c), id, &dto)
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
	response.Message(c, "meetup deleted")
}

func (h *Handler) join(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Join(middleware.CurrentUserID(c), id); err != nil {
		writeError(c, err)
		return
	}
	response.Message(c, "joined meetup")
}

func (h *Handler) leave(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Leave(middleware.CurrentUserID(c), id); err != nil {
		writeError(c, err)
		return
	}
	response.Message(c, "left meetup")
}

func (h *Handler) star(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	n, err := h.svc.Star(middleware.CurrentUserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, gin.H{"stars": n})
}

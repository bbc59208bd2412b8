package user

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sakhi-app/core/internal/middleware"
	"github.com/sakhi-app/core/internal/models"
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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)

	a := g.Group("", authMW)
	a.GET("/me", h.me)
	a.GET("/user/:id", h.get)
	a.PUT("/user/language", h.updateLanguage)
	a.PATCH("/user/profile", h.updateProfile)
}

func (h *Handler) issue(c *gin.Context, u *models.User, created bool) {
	token, err := h.signer.Sign(u.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := authResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.signer.TTL()),
		User:      toResponse(u, true),
	}
	if created {
		response.Created(c, out)
		return
	}
	response.OK(c, out)
}

// POST /auth/register
func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.Register(&dto)
	if err != nil {
		switch {
		case errors.Is(err, errPhoneTaken):
			response.Conflict(c, err.Error())
		case isValidationError(err):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	h.issue(c, u, true)
}

// POST /auth/login
func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.Login(dto.Phone, dto.Pin)
	if err != nil {
		switch {
		case errors.Is(err, errPhoneRequired):
			response.BadRequest(c, err.Error())
		case errors.Is(err, errUserNotFound):
			response.NotFoundMsg(c, err.Error())
		case errors.Is(err, errWrongPin):
			response.UnauthorizedMsg(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	h.issue(c, u, false)
}

func (h *Handler) me(c *gin.Context) {
	u, err := h.svc.GetByID(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.NotFoundMsg(c, "user not found")
		return
	}
	response.OK(c, toResponse(u, true))
}

// GET /auth/user/:id
func (h *Handler) get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	u, err := h.svc.GetByID(uint(id))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.NotFoundMsg(c, "user not found")
		return
	}
	response.OK(c, toResponse(u, u.ID == middleware.CurrentUserID(c)))
}

// PUT /auth/user/language
func (h *Handler) updateLanguage(c *gin.Context) {
	var dto LanguageDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.UpdateLanguage(middleware.CurrentUserID(c), dto.Language)
	if err != nil {
		if errors.Is(err, errUnsupportedLanguage) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.NotFoundMsg(c, "user not found")
		return
	}
	response.Message(c, "language updated to "+u.LanguagePref)
}

// PATCH /auth/user/profile
func (h *Handler) updateProfile(c *gin.Context) {
	var dto UpdateProfileDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.UpdateProfile(middleware.CurrentUserID(c), &dto)
	if err != nil {
		if isValidationError(err) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.NotFoundMsg(c, "user not found")
		return
	}
	response.OK(c, toResponse(u, true))
}

func isValidationError(err error) bool {
	for _, target := range []error{errPhoneRequired, errInvalidPin, errInvalidAge, errInvalidStage, errUnsupportedLanguage} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

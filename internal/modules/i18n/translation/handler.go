package translation

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sakhi-app/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/translation")
	g.POST("/translate", h.translate)
	g.POST("/batch", h.batch)
	g.GET("/stats", h.stats)

	a := g.Group("", authMW)
	a.DELETE("/cache", h.clear)
}

func (h *Handler) checkPair(c *gin.Context, src, dst string) bool {
	for _, lang := range []string{src, dst} {
		if !h.svc.Supported(lang) {
			response.BadRequest(c, fmt.Sprintf("unsupported language %q", lang))
			return false
		}
	}
	return true
}

// POST /translation/translate
func (h *Handler) translate(c *gin.Context) {
	var dto TranslateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if !h.checkPair(c, dto.SourceLang, dto.TargetLang) {
		return
	}
	out := h.svc.Translate(c.Request.Context(), dto.Text, dto.SourceLang, dto.TargetLang)
	response.OK(c, translateResponse{
		Text:       dto.Text,
		Translated: out,
		SourceLang: dto.SourceLang,
		TargetLang: dto.TargetLang,
		Changed:    out != dto.Text,
	})
}

// POST /translation/batch
func (h *Handler) batch(c *gin.Context) {
	var dto BatchDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if len(dto.Texts) > maxBatch {
		response.UnprocessableEntity(c, fmt.Sprintf("at most %d texts per batch", maxBatch))
		return
	}
	if !h.checkPair(c, dto.SourceLang, dto.TargetLang) {
		return
	}
	out := h.svc.TranslateBatch(c.Request.Context(), dto.Texts, dto.SourceLang, dto.TargetLang)
	response.OK(c, gin.H{
		"translations": out,
		"source_lang":  dto.SourceLang,
		"target_lang":  dto.TargetLang,
	})
}

func (h *Handler) stats(c *gin.Context) {
	st, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, st)
}

func (h *Handler) clear(c *gin.Context) {
	n, err := h.svc.Clear(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "translation cache cleared", "removed": n})
}

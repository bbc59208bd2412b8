// Package response writes the JSON envelopes shared by every handler.
// Errors always carry {ok: 0, code, message}.
package response

import (
	"math/rand/v2"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
)

var notFoundMessages = []string{
	"Nothing here, sister. Try another path.",
	"We looked everywhere but could not find that.",
	"This page went for a walk and has not come back.",
	"Not found. Maybe it lives in another city.",
}

// Pagination metadata returned with paginated responses.
type Pagination struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	TotalPage   int   `json:"total_page"`
	Size        int   `json:"size"`
	HasNextPage bool  `json:"has_next_page"`
}

type pagedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// OK sends a 200 response. Slices are wrapped in {data: [...]}.
func OK(c *gin.Context, data interface{}) {
	if data != nil {
		v := reflect.ValueOf(data)
		if v.Kind() == reflect.Slice {
			c.JSON(http.StatusOK, gin.H{"data": data})
			return
		}
	}
	c.JSON(http.StatusOK, data)
}

// Paged sends a paginated response.
func Paged(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, pagedResponse{
		Data:       data,
		Pagination: pagination,
	})
}

// Created sends a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message sends a 200 {message, success} acknowledgement.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message, "success": true})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func BadRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context) {
	abort(c, http.StatusUnauthorized, "Please sign in to continue")
}

func UnauthorizedMsg(c *gin.Context, message string) {
	abort(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context) {
	abort(c, http.StatusForbidden, "You are not allowed to do that")
}

func ForbiddenMsg(c *gin.Context, message string) {
	abort(c, http.StatusForbidden, message)
}

// NotFound sends a 404 with a random friendly message.
func NotFound(c *gin.Context) {
	abort(c, http.StatusNotFound, notFoundMessages[rand.IntN(len(notFoundMessages))])
}

func NotFoundMsg(c *gin.Context, message string) {
	abort(c, http.StatusNotFound, message)
}

func Conflict(c *gin.Context, message string) {
	abort(c, http.StatusConflict, message)
}

func UnprocessableEntity(c *gin.Context, message string) {
	abort(c, http.StatusUnprocessableEntity, message)
}

func TooManyRequests(c *gin.Context) {
	abort(c, http.StatusTooManyRequests, "Too many requests, slow down a little")
}

// InternalError hides err from the client; handlers log it first.
func InternalError(c *gin.Context, err error) {
	_ = c.Error(err)
	abort(c, http.StatusInternalServerError, "Something went wrong, please try again")
}

func abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"ok": 0, "code": code, "message": message})
}

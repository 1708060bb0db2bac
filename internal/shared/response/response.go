package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookreview-backend/internal/shared/query"
)

// Body is the JSON envelope every endpoint responds with.
type Body struct {
	Success    bool              `json:"success"`
	Data       interface{}       `json:"data,omitempty"`
	Count      *int              `json:"count,omitempty"`
	Pagination *query.Pagination `json:"pagination,omitempty"`
	Message    string            `json:"message,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Data: data})
}

// List responds with a paginated collection.
func List(c *gin.Context, count int, pagination query.Pagination, data interface{}) {
	c.JSON(http.StatusOK, Body{
		Success:    true,
		Count:      &count,
		Pagination: &pagination,
		Data:       data,
	})
}

// Collection responds with an unpaginated collection (search results).
func Collection(c *gin.Context, count int, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Count: &count, Data: data})
}

func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Body{Success: false, Message: message})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func InternalServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

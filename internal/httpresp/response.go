// Package httpresp holds the success-side response helpers; errors go
// through httperr so both sides of the wire stay uniform.
package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListResponse is the envelope every admin collection endpoint returns.
// Total is the unpaged count, not the page length.
type ListResponse[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func List[T any](c *gin.Context, data []T, total int64) {
	c.JSON(http.StatusOK, ListResponse[T]{
		Data:  data,
		Total: total,
	})
}

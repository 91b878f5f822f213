package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/platefeed/backend/internal/service"
)

// respondError translates a service error into the matching HTTP
// response. Duplicate membership/follow and self-follow cases map to
// 400 with a human-readable message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyCart):
		c.Status(http.StatusNoContent)
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPermission):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrSelfFollow),
		errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// pagination reads page/limit query parameters. Invalid or missing
// values fall back to defaults rather than erroring.
func pagination(c *gin.Context, defaultLimit int) (page, limit int) {
	page, limit = 1, defaultLimit
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	return page, limit
}

// boolFlag parses a tri-state query flag: "1"/"true" and "0"/"false"
// select a restriction, anything else (including garbage) means the
// flag is absent.
func boolFlag(c *gin.Context, name string) *bool {
	switch c.Query(name) {
	case "1", "true":
		v := true
		return &v
	case "0", "false":
		v := false
		return &v
	default:
		return nil
	}
}

// paged is the envelope for paginated listings.
type paged struct {
	Count   int64       `json:"count"`
	Results interface{} `json:"results"`
}

package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// currentUserID returns the authenticated user's ID set by AuthMiddleware.
func currentUserID(c *gin.Context) uint {
	userID, _ := c.Get("userID")
	return userID.(uint)
}

// parseIDParam parses the named path parameter as an entity ID.
func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, errors.New("invalid ID")
	}
	return uint(id), nil
}

// parsePagination reads page/limit query parameters with the defaults and
// bounds used across all listing endpoints.
func parsePagination(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100 // Max limit
	}
	return page, limit
}

package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultConversationPageSize = 20
	DefaultMessagePageSize      = 50
	MaxPageSize                 = 100
	DefaultPage                 = 1 // Pages are 1-based
)

// ClampLimit normalizes a requested page size against the global bounds.
func ClampLimit(limit, fallback int) int {
	if limit <= 0 || limit > MaxPageSize {
		return fallback
	}
	return limit
}

// CalculateOffsetLimit calculates the offset and limit for SQL queries based on a
// 1-based page index.
func CalculateOffsetLimit(page, size int) (offset uint64, limit int) {
	limit = ClampLimit(size, DefaultConversationPageSize)
	if page < 1 {
		page = DefaultPage
	}
	offset = uint64((page - 1) * limit)
	return offset, limit
}

// ParsePaginationParams extracts offset-style pagination parameters from the request.
func ParsePaginationParams(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultConversationPageSize)))
	if err != nil {
		limit = DefaultConversationPageSize
	}
	limit = ClampLimit(limit, DefaultConversationPageSize)

	return page, limit
}

// ParseCursorParams extracts cursor-style pagination parameters from the request.
// A zero cursor means "start from the newest message".
func ParseCursorParams(c *gin.Context) (cursor int64, limit int) {
	if raw := c.Query("cursor"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			cursor = parsed
		}
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultMessagePageSize)))
	if err != nil {
		limit = DefaultMessagePageSize
	}
	limit = ClampLimit(limit, DefaultMessagePageSize)

	return cursor, limit
}

package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// PaginatedResponse is the envelope wrapping every paginated listing.
type PaginatedResponse struct {
	Data        interface{} `json:"data"`
	Total       int64       `json:"total"`
	Page        int         `json:"page"`
	Limit       int         `json:"limit"`
	TotalPages  int64       `json:"totalPages"`
	HasNextPage bool        `json:"hasNextPage"`
}

// NewPaginatedResponse builds the envelope. A nil data slice is replaced by
// an empty one so the JSON field is always an array.
func NewPaginatedResponse(data interface{}, total int64, page, limit int) PaginatedResponse {
	if data == nil {
		data = []interface{}{}
	}
	totalPages := int64(0)
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return PaginatedResponse{
		Data:        data,
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		HasNextPage: int64(page) < totalPages,
	}
}

// getPagination parses page and limit query parameters, clamping them to
// sane bounds.
func getPagination(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	if err != nil || page < 1 {
		page = defaultPage
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

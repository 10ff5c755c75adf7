package utils

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/tenant-task-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
	// All disables paging: every matching row is returned and no metadata is reported.
	All bool
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// GetPaginationParams extracts and validates pagination parameters from the request
func GetPaginationParams(c *gin.Context) PaginationParams {
	return ParsePagination(c.Query("page"), c.Query("limit"))
}

// ParsePagination normalizes raw page/limit values. limit=all turns paging off.
func ParsePagination(rawPage, rawLimit string) PaginationParams {
	if strings.EqualFold(strings.TrimSpace(rawLimit), constants.PageLimitAll) {
		return PaginationParams{Page: 1, All: true}
	}

	page, err := strconv.Atoi(rawPage)
	if err != nil || page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	limit, err := strconv.Atoi(rawLimit)
	if err != nil || limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// NewPaginationResponse builds metadata, or nil when paging is off.
func NewPaginationResponse(params PaginationParams, total int64) *PaginationResponse {
	if params.All {
		return nil
	}

	pages := int(total) / params.Limit
	if int(total)%params.Limit > 0 {
		pages++
	}

	return &PaginationResponse{
		Page:  params.Page,
		Limit: params.Limit,
		Total: total,
		Pages: pages,
	}
}

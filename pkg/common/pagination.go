package common

import (
	"net/http"
	"strconv"
)

// PaginationParams represents page-number pagination parameters
type PaginationParams struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// DefaultPaginationParams returns default pagination parameters
func DefaultPaginationParams() PaginationParams {
	return PaginationParams{
		Page:  1,
		Limit: 10,
	}
}

// ExtractPaginationParams extracts pagination parameters from request
func ExtractPaginationParams(r *http.Request) PaginationParams {
	params := DefaultPaginationParams()

	if page := r.URL.Query().Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			params.Page = p
		}
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			if l > 100 {
				l = 100 // Max page size
			}
			params.Limit = l
		}
	}

	return params
}

// CalculateOffset calculates the number of items to skip
func (p PaginationParams) CalculateOffset() int {
	return (p.Page - 1) * p.Limit
}

// CalculateTotalPages calculates total number of pages
func CalculateTotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit > 0 {
		pages++
	}
	return pages
}

// BuildPaginationMeta builds pagination metadata for one returned page.
// HasMore counts from the skip position so a short final page reports false.
func BuildPaginationMeta(params PaginationParams, returned, total int) *PaginationInfo {
	return &PaginationInfo{
		Current: params.Page,
		Pages:   CalculateTotalPages(total, params.Limit),
		Total:   total,
		HasMore: params.CalculateOffset()+returned < total,
	}
}

// PaginatedResult represents a paginated result
type PaginatedResult struct {
	Items      interface{}     `json:"items"`
	Pagination *PaginationInfo `json:"pagination"`
}

// NewPaginatedResult creates a new paginated result
func NewPaginatedResult(items interface{}, params PaginationParams, returned, total int) *PaginatedResult {
	return &PaginatedResult{
		Items:      items,
		Pagination: BuildPaginationMeta(params, returned, total),
	}
}

package models

import (
	"strings"
)

// SortKey selects the ordering of search results
type SortKey string

const (
	SortRecommended SortKey = "recommended"
	SortPriceLow    SortKey = "price_low"
	SortPriceHigh   SortKey = "price_high"
	SortRating      SortKey = "rating"
)

// ParseSortKey validates a sort key; empty means recommended
func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(s))); key {
	case "":
		return SortRecommended, nil
	case SortRecommended, SortPriceLow, SortPriceHigh, SortRating:
		return key, nil
	default:
		return "", NewValidationError("unknown sort key %q", s)
	}
}

// SearchFilters narrows the catalog. Nil fields do not filter.
type SearchFilters struct {
	Location    *string
	MaxDays     *int
	MinPrice    *int64
	MaxPrice    *int64
	TotalPeople *int
	StartDate   *Date
	EndDate     *Date
}

// SearchQuery is the query string of GET /tours/search
type SearchQuery struct {
	Location    string `form:"location"`
	MaxDays     *int   `form:"max_days" binding:"omitempty,min=1"`
	MinPrice    *int64 `form:"min_price" binding:"omitempty,min=0"`
	MaxPrice    *int64 `form:"max_price" binding:"omitempty,min=0"`
	TotalPeople *int   `form:"total_people" binding:"omitempty,min=1"`
	StartDate   string `form:"start_date" binding:"omitempty,isodate"`
	EndDate     string `form:"end_date" binding:"omitempty,isodate"`
	Sort        string `form:"sort"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	Limit       int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Filters converts the query into search filters
func (q *SearchQuery) Filters() (SearchFilters, error) {
	f := SearchFilters{
		MaxDays:     q.MaxDays,
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
		TotalPeople: q.TotalPeople,
	}
	if loc := strings.TrimSpace(q.Location); loc != "" {
		f.Location = &loc
	}
	if q.StartDate != "" {
		d, err := ParseDate(q.StartDate)
		if err != nil {
			return f, err
		}
		f.StartDate = &d
	}
	if q.EndDate != "" {
		d, err := ParseDate(q.EndDate)
		if err != nil {
			return f, err
		}
		f.EndDate = &d
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return f, NewValidationError("min_price cannot exceed max_price")
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return f, NewValidationError("end_date cannot be before start_date")
	}
	return f, nil
}

// PageQuery is a page/limit pair; zero values fall back to defaults
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

const (
	DefaultPage  = 1
	DefaultLimit = 12
)

// Normalize fills defaults
func (p PageQuery) Normalize() PageQuery {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	return p
}

// PaginatedResponse is the envelope of every paged list
type PaginatedResponse[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// NewPage slices items into the requested page
func NewPage[T any](items []T, q PageQuery) PaginatedResponse[T] {
	q = q.Normalize()
	total := len(items)

	// offsets are compared before multiplying so huge pages cannot overflow
	start := total
	if q.Page-1 <= total/q.Limit {
		start = (q.Page - 1) * q.Limit
	}
	end := total
	if q.Limit < total-start {
		end = start + q.Limit
	}

	totalPages := total / q.Limit
	if total%q.Limit != 0 {
		totalPages++
	}

	data := make([]T, end-start)
	copy(data, items[start:end])
	return PaginatedResponse[T]{
		Data:       data,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: totalPages,
	}
}

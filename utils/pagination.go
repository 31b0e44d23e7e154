package utils

import (
	"math"
	"strconv"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest is a 1-based page selection.
type PageRequest struct {
	Page     int
	PageSize int
}

// ParsePageRequest reads page and page_size query values. Missing or
// malformed values fall back to the defaults; page_size is capped.
func ParsePageRequest(page, pageSize string) PageRequest {
	p := PageRequest{Page: 1, PageSize: DefaultPageSize}
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(pageSize); err == nil && n > 0 {
		p.PageSize = n
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	if maxPage := maxOffset/p.PageSize + 1; p.Page > maxPage {
		p.Page = maxPage
	}
	return p
}

// maxOffset bounds Offset so it fits a 32-bit database integer.
const maxOffset = math.MaxInt32

func (p PageRequest) Offset() int {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	if p.Page-1 > maxOffset/p.PageSize {
		return maxOffset
	}
	return (p.Page - 1) * p.PageSize
}

func (p PageRequest) Limit() int {
	return p.PageSize
}

// Page is the list response wrapper.
type Page[T any] struct {
	Count    int64 `json:"count"`
	Next     *int  `json:"next"`
	Previous *int  `json:"previous"`
	Results  []T   `json:"results"`
}

func NewPage[T any](results []T, count int64, req PageRequest) Page[T] {
	if results == nil {
		results = []T{}
	}
	page := Page[T]{Count: count, Results: results}
	if int64(req.Offset()+len(results)) < count {
		next := req.Page + 1
		page.Next = &next
	}
	if req.Page > 1 {
		prev := req.Page - 1
		page.Previous = &prev
	}
	return page
}

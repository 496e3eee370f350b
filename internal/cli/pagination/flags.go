package pagination

import (
	"errors"
	"fmt"
)

// Pagination defaults and validation limits.
const (
	DefaultPage     = 1
	MinPage         = 1
	DefaultPageSize = 12
	MinPageSize     = 1
	MaxPageSize     = 100
)

// Common validation errors.
var (
	ErrInvalidPage     = errors.New("page must be >= 1")
	ErrInvalidPageSize = fmt.Errorf("page-size must be between %d and %d", MinPageSize, MaxPageSize)
)

// PaginationParams holds a page request as given on the command line.
//
//nolint:revive // PaginationParams is the canonical name for this exported type.
type PaginationParams struct {
	// Page is the 1-based page number.
	Page int
	// PageSize is the number of records per page.
	PageSize int
}

// NewPaginationParams returns params for the first page with the given size.
// A non-positive size selects DefaultPageSize.
func NewPaginationParams(pageSize int) PaginationParams {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return PaginationParams{Page: DefaultPage, PageSize: pageSize}
}

// Validate checks that the page and page size are in range.
func (p PaginationParams) Validate() error {
	if p.Page < MinPage {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, p.Page)
	}
	if p.PageSize < MinPageSize || p.PageSize > MaxPageSize {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.PageSize)
	}
	return nil
}

// Offset returns the 0-based index of the page's first record.
func (p PaginationParams) Offset() int {
	if p.Page < MinPage {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// CalculateTotalPages returns how many pages totalResults spans at this page size.
func (p PaginationParams) CalculateTotalPages(totalResults int) int {
	if totalResults <= 0 || p.PageSize <= 0 {
		return 0
	}
	pages := totalResults / p.PageSize
	if totalResults%p.PageSize > 0 {
		pages++
	}
	return pages
}

// Next returns params for the following page.
func (p PaginationParams) Next() PaginationParams {
	p.Page++
	return p
}

// Previous returns params for the preceding page, never going below the first page.
func (p PaginationParams) Previous() PaginationParams {
	if p.Page > MinPage {
		p.Page--
	}
	return p
}

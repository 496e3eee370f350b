package collection

import (
	"context"
	"errors"
	"fmt"
)

// Common collection errors.
var (
	ErrInvalidPageRequest = errors.New("page index and page size must be >= 1")
	ErrUnexpectedStatus   = errors.New("unexpected response status")
	ErrMalformedResponse  = errors.New("malformed collection response")
)

// Record is one item of the remote collection.
type Record struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	ArtistDisplay string `json:"artist_display"`
	PlaceOfOrigin string `json:"place_of_origin"`
	DateStart     int    `json:"date_start"`
	DateEnd       int    `json:"date_end"`
}

// Pagination is the paging metadata returned alongside a page.
type Pagination struct {
	Total       int `json:"total"`
	Limit       int `json:"limit"`
	Offset      int `json:"offset"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
}

// Page is one fetched page of records.
type Page struct {
	Records    []Record   `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Empty reports whether the page signals exhaustion.
func (p *Page) Empty() bool {
	return p == nil || len(p.Records) == 0
}

// PageFetcher retrieves one page of records. Implementations return an empty
// slice, not an error, once the collection is exhausted.
type PageFetcher interface {
	FetchPage(ctx context.Context, pageIndex, pageSize int) ([]Record, error)
}

// PageFetcherFunc adapts a plain function to PageFetcher.
type PageFetcherFunc func(ctx context.Context, pageIndex, pageSize int) ([]Record, error)

// FetchPage implements PageFetcher.
func (f PageFetcherFunc) FetchPage(ctx context.Context, pageIndex, pageSize int) ([]Record, error) {
	return f(ctx, pageIndex, pageSize)
}

// ValidatePageRequest checks a page request before any I/O is done.
func ValidatePageRequest(pageIndex, pageSize int) error {
	if pageIndex < 1 || pageSize < 1 {
		return fmt.Errorf("%w: page=%d size=%d", ErrInvalidPageRequest, pageIndex, pageSize)
	}
	return nil
}

// IDs returns the record IDs in order.
func IDs(records []Record) []int {
	ids := make([]int, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}

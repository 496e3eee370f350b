package collection

import (
	"context"
	"fmt"
	"sync"
)

// StaticSource serves pages from an in-memory slice of records.
type StaticSource struct {
	mu      sync.Mutex
	records []Record
	calls   int
}

// NewStaticSource returns a source over records, in the given order.
func NewStaticSource(records []Record) *StaticSource {
	return &StaticSource{records: append([]Record(nil), records...)}
}

// Page implements PageSource.
func (s *StaticSource) Page(ctx context.Context, pageIndex, pageSize int) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidatePageRequest(pageIndex, pageSize); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	total := len(s.records)
	start := (pageIndex - 1) * pageSize
	end := min(start+pageSize, total)

	page := &Page{
		Records: []Record{},
		Pagination: Pagination{
			Total:       total,
			Limit:       pageSize,
			Offset:      start,
			TotalPages:  (total + pageSize - 1) / pageSize,
			CurrentPage: pageIndex,
		},
	}
	if start < total {
		page.Records = append(page.Records, s.records[start:end]...)
	}
	return page, nil
}

// FetchPage implements PageFetcher.
func (s *StaticSource) FetchPage(ctx context.Context, pageIndex, pageSize int) ([]Record, error) {
	page, err := s.Page(ctx, pageIndex, pageSize)
	if err != nil {
		return nil, err
	}
	return page.Records, nil
}

// Calls returns how many pages have been served.
func (s *StaticSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// demoArtists cycles through the generated demo records.
//
//nolint:gochecknoglobals // fixed demo data
var demoArtists = []struct {
	artist string
	origin string
	year   int
}{
	{"Claude Monet\nFrench, 1840-1926", "France", 1890},
	{"Katsushika Hokusai\nJapanese, 1760-1849", "Japan", 1830},
	{"Georgia O'Keeffe\nAmerican, 1887-1986", "United States", 1926},
	{"Vincent van Gogh\nDutch, 1853-1890", "Netherlands", 1888},
	{"Frida Kahlo\nMexican, 1907-1954", "Mexico", 1939},
	{"Unknown Maker", "Egypt", -1300},
}

// DemoRecords generates n deterministic records with IDs 1..n.
func DemoRecords(n int) []Record {
	records := make([]Record, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		a := demoArtists[(i-1)%len(demoArtists)]
		records = append(records, Record{
			ID:            i,
			Title:         fmt.Sprintf("Study No. %d", i),
			ArtistDisplay: a.artist,
			PlaceOfOrigin: a.origin,
			DateStart:     a.year,
			DateEnd:       a.year + i%5,
		})
	}
	return records
}

package selection

import (
	"context"
	"sync"

	"github.com/rshade/artsel/internal/collection"
)

// pageCall records one FetchPage invocation.
type pageCall struct {
	page int
	size int
}

// scriptedFetcher answers page requests from a fixed script.
// Pages not in the script come back empty.
type scriptedFetcher struct {
	mu    sync.Mutex
	pages map[int][]collection.Record
	errs  map[int]error
	calls []pageCall
}

func newScriptedFetcher() *scriptedFetcher {
	return &scriptedFetcher{
		pages: map[int][]collection.Record{},
		errs:  map[int]error{},
	}
}

func (f *scriptedFetcher) withPage(page int, records []collection.Record) *scriptedFetcher {
	f.pages[page] = records
	return f
}

func (f *scriptedFetcher) withError(page int, err error) *scriptedFetcher {
	f.errs[page] = err
	return f
}

func (f *scriptedFetcher) FetchPage(_ context.Context, page, size int) ([]collection.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, pageCall{page: page, size: size})
	if err := f.errs[page]; err != nil {
		return nil, err
	}
	return f.pages[page], nil
}

func (f *scriptedFetcher) Calls() []pageCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]pageCall(nil), f.calls...)
}

// recordRange returns records with IDs from..to inclusive.
func recordRange(from, to int) []collection.Record {
	var out []collection.Record
	for id := from; id <= to; id++ {
		out = append(out, collection.Record{ID: id})
	}
	return out
}

// idRange returns the ints from..to inclusive.
func idRange(from, to int) []int {
	var out []int
	for id := from; id <= to; id++ {
		out = append(out, id)
	}
	return out
}

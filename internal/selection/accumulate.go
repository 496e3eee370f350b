package selection

import (
	"context"

	"github.com/rshade/artsel/internal/collection"
)

// firstPage is the page index Accumulate and Store.Grow assume visible came from.
const firstPage = 1

// Accumulation is the outcome of walking the collection for a target count.
type Accumulation struct {
	// Records holds the gathered records in collection order.
	Records []collection.Record

	// Fetches is the number of continuation pages requested.
	Fetches int

	// Exhausted is set when the walk ended on an empty page (or had no page size to continue with).
	Exhausted bool

	// Err is the fetch failure that ended the walk, if any.
	Err error

	// FailedPage is the page index whose fetch failed, when Err is set.
	FailedPage int
}

// Accumulate gathers up to target records, taking visible first and then
// fetching pages 2, 3, ... with a page size of len(visible) until the target
// is met, a page comes back empty, or a fetch fails.
//
// It never returns an error itself: a failed fetch is recorded in Err and the
// records gathered before it are kept. fetcher is not called when visible
// already covers target.
func Accumulate(
	ctx context.Context,
	target int,
	visible []collection.Record,
	fetcher collection.PageFetcher,
) Accumulation {
	return AccumulateFrom(ctx, target, firstPage, len(visible), visible, fetcher)
}

// AccumulateFrom is Accumulate for a visible page other than the first:
// continuation fetches start at visiblePage+1. pageSize is the size visible
// was requested with. Past the first page, a visible page shorter than
// pageSize is the last one, so the walk ends there as exhausted. visiblePage
// must be >= 1 and len(visible) must not exceed pageSize.
func AccumulateFrom(
	ctx context.Context,
	target int,
	visiblePage int,
	pageSize int,
	visible []collection.Record,
	fetcher collection.PageFetcher,
) Accumulation {
	var acc Accumulation
	if target <= 0 {
		return acc
	}

	remaining := target
	acc.Records = make([]collection.Record, 0, min(target, max(len(visible), 1)))

	take := func(records []collection.Record) {
		for _, r := range records {
			if remaining == 0 {
				return
			}
			acc.Records = append(acc.Records, r)
			remaining--
		}
	}

	take(visible)

	if remaining > 0 && len(visible) == 0 {
		// Nothing visible means there is no page size to continue with.
		acc.Exhausted = true
		return acc
	}
	if remaining > 0 && visiblePage > firstPage && len(visible) < pageSize {
		// A short page past the first is the end of the collection. Fetching
		// visiblePage+1 at a smaller size would land on earlier records.
		acc.Exhausted = true
		return acc
	}
	// Page 1 continues at its own length, which keeps offsets contiguous.
	continueSize := len(visible)

	for cursor := visiblePage; remaining > 0; {
		cursor++
		acc.Fetches++

		records, err := fetcher.FetchPage(ctx, cursor, continueSize)
		if err != nil {
			acc.Err = err
			acc.FailedPage = cursor
			return acc
		}
		if len(records) == 0 {
			acc.Exhausted = true
			return acc
		}
		take(records)
	}

	return acc
}

// MaxFetches is the upper bound on continuation fetches Accumulate makes for
// target with the given page size, assuming every page but the last is full.
func MaxFetches(target, pageSize int) int {
	if target <= 0 || pageSize <= 0 {
		return 0
	}
	return (target+pageSize-1)/pageSize + 1
}

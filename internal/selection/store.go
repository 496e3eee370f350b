package selection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/rshade/artsel/internal/collection"
	"github.com/rshade/artsel/internal/logging"
)

// Common selection errors.
var (
	ErrGrowInProgress = errors.New("a bulk selection is already in progress")
	ErrNilFetcher     = errors.New("page fetcher cannot be nil")
	ErrInvalidPage    = errors.New("visible page must be >= 1")
	ErrPageOverflow   = errors.New("visible page holds more records than the page size")
)

// Result describes one Grow call.
type Result struct {
	// Requested is the target count passed to Grow.
	Requested int

	// Gathered is how many records were walked in collection order.
	Gathered int

	// Appended is how many records were added to the selection. It is lower
	// than Gathered only when deduplication dropped records.
	Appended int

	// Fetches is the number of continuation pages requested.
	Fetches int

	// Exhausted is set when the collection ran out before the target was met.
	Exhausted bool

	// Warning is the fetch failure that cut the walk short, if any.
	Warning error
}

// Short reports whether fewer records were appended than requested.
func (r Result) Short() bool {
	return r.Appended < r.Requested
}

// Store holds the ordered selection. Reads and writes are safe from any
// goroutine; at most one Grow runs at a time.
type Store struct {
	mu   sync.RWMutex
	rows []collection.Record

	growing atomic.Bool

	dedupe bool
	logger zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithDeduplication drops records whose ID is already selected when Grow commits.
func WithDeduplication(enabled bool) Option {
	return func(s *Store) {
		s.dedupe = enabled
	}
}

// WithLogger sets the logger used to report partial bulk selections.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logging.ComponentLogger(l, "selection")
	}
}

// NewStore returns an empty selection.
func NewStore(opts ...Option) *Store {
	s := &Store{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Deduplicates reports whether the store drops already-selected IDs on Grow.
func (s *Store) Deduplicates() bool {
	return s.dedupe
}

// Rows returns a copy of the selection in order.
func (s *Store) Rows() []collection.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]collection.Record(nil), s.rows...)
}

// Set replaces the selection wholesale.
func (s *Store) Set(rows []collection.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append([]collection.Record(nil), rows...)
}

// Len returns the number of selected records, counting duplicates.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// Contains reports whether a record with id is selected.
func (s *Store) Contains(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rows {
		if r.ID == id {
			return true
		}
	}
	return false
}

// Toggle selects r if no record with its ID is selected, otherwise removes
// every entry with that ID. It returns true when r is selected afterwards.
func (s *Store) Toggle(r collection.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.rows[:0:0]
	for _, existing := range s.rows {
		if existing.ID != r.ID {
			kept = append(kept, existing)
		}
	}
	if len(kept) != len(s.rows) {
		s.rows = kept
		return false
	}
	s.rows = append(s.rows, r)
	return true
}

// Clear empties the selection.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = nil
}

// Growing reports whether a Grow call is in flight.
func (s *Store) Growing() bool {
	return s.growing.Load()
}

// Grow appends up to target records to the selection: first from visible,
// then from pages fetched through fetcher (page 2 onward, sized to
// len(visible)). Fetch failures end the walk early; whatever was gathered is
// still appended and the failure is returned in Result.Warning.
//
// The returned error is non-nil only when the call could not start:
// ErrGrowInProgress if another Grow on this store has not returned, or
// ErrNilFetcher if pages beyond visible are needed and fetcher is nil.
func (s *Store) Grow(
	ctx context.Context,
	target int,
	visible []collection.Record,
	fetcher collection.PageFetcher,
) (Result, error) {
	return s.GrowFrom(ctx, target, firstPage, len(visible), visible, fetcher)
}

// GrowFrom is Grow for a visible page other than the first: continuation
// fetches start at visiblePage+1 with pageSize, the size visible was fetched
// with, so the selection stays in collection order when bulk selection starts
// mid-collection. A short visible page past the first ends the walk as
// exhausted. It returns ErrInvalidPage if visiblePage < 1 and ErrPageOverflow
// if visible holds more than pageSize records.
func (s *Store) GrowFrom(
	ctx context.Context,
	target int,
	visiblePage int,
	pageSize int,
	visible []collection.Record,
	fetcher collection.PageFetcher,
) (Result, error) {
	res := Result{Requested: target}
	if target <= 0 {
		return res, nil
	}
	if visiblePage < firstPage {
		return res, fmt.Errorf("%w, got %d", ErrInvalidPage, visiblePage)
	}
	if len(visible) > pageSize {
		return res, fmt.Errorf("%w: %d records, page size %d", ErrPageOverflow, len(visible), pageSize)
	}
	if fetcher == nil && target > len(visible) {
		return res, ErrNilFetcher
	}
	if !s.growing.CompareAndSwap(false, true) {
		return res, ErrGrowInProgress
	}
	defer s.growing.Store(false)

	opID := logging.NewID()
	s.logger.Debug().Ctx(ctx).
		Str("operation_id", opID).
		Int("target", target).
		Int("visible_page", visiblePage).
		Int("page_size", pageSize).
		Int("visible", len(visible)).
		Msg("bulk selection started")

	acc := AccumulateFrom(ctx, target, visiblePage, pageSize, visible, fetcher)

	res.Gathered = len(acc.Records)
	res.Fetches = acc.Fetches
	res.Exhausted = acc.Exhausted
	res.Appended = s.commit(acc.Records)

	if acc.Err != nil {
		res.Warning = &PartialSelectionError{
			Page:     acc.FailedPage,
			Gathered: res.Gathered,
			Target:   target,
			Err:      acc.Err,
		}
		s.logger.Warn().Ctx(ctx).
			Str("operation_id", opID).
			Err(acc.Err).
			Int("page", acc.FailedPage).
			Int("gathered", res.Gathered).
			Int("target", target).
			Msg("page fetch failed during bulk selection; keeping partial selection")
	} else if acc.Exhausted {
		s.logger.Info().Ctx(ctx).
			Str("operation_id", opID).
			Int("gathered", res.Gathered).
			Int("target", target).
			Msg("collection exhausted before bulk selection target")
	}

	s.logger.Debug().Ctx(ctx).
		Str("operation_id", opID).
		Int("appended", res.Appended).
		Int("fetches", res.Fetches).
		Msg("bulk selection finished")

	return res, nil
}

// commit appends records to the selection and returns how many were added.
func (s *Store) commit(records []collection.Record) int {
	if len(records) == 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dedupe {
		s.rows = append(s.rows, records...)
		return len(records)
	}

	seen := make(map[int]struct{}, len(s.rows)+len(records))
	for _, r := range s.rows {
		seen[r.ID] = struct{}{}
	}
	added := 0
	for _, r := range records {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		s.rows = append(s.rows, r)
		added++
	}
	return added
}

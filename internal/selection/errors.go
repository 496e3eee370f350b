package selection

import "fmt"

// PartialSelectionError reports a bulk selection cut short by a failed page fetch.
type PartialSelectionError struct {
	Page     int
	Gathered int
	Target   int
	Err      error
}

func (e *PartialSelectionError) Error() string {
	return fmt.Sprintf("selected %d of %d records: fetching page %d: %v", e.Gathered, e.Target, e.Page, e.Err)
}

func (e *PartialSelectionError) Unwrap() error { return e.Err }

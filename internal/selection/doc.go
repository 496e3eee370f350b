// Package selection owns the user's selection of collection records and the
// bulk-selection algorithm that grows it across pages.
//
// Store is the single coordinator for selection state: the table reads
// through it and row toggles and bulk selection mutate through it.
//
// Grow selects the first N records in collection order, starting with the
// records currently visible and fetching following pages on demand. A fetch
// failure ends the walk early without discarding what was already gathered;
// the failure is logged and handed back as a warning, never as an error.
package selection

// Package pagination provides page-request validation and page metadata
// shared by the CLI commands and the table view.
//
// This package contains:
//   - PaginationParams: --page / --page-size parsing and validation
//   - PaginationMeta: display metadata derived from a collection's total count
//
// Pages are 1-based. The page size bound matches the collection endpoint's
// maximum limit.
package pagination

package pagination

// PaginationMeta contains metadata about one page of a collection.
//
//nolint:revive // PaginationMeta is the canonical name for this exported type.
type PaginationMeta struct {
	CurrentPage int  `json:"current_page" yaml:"current_page"`
	PageSize    int  `json:"page_size"    yaml:"page_size"`
	TotalPages  int  `json:"total_pages"  yaml:"total_pages"`
	TotalItems  int  `json:"total_items"  yaml:"total_items"`
	FirstItem   int  `json:"first_item"   yaml:"first_item"`
	LastItem    int  `json:"last_item"    yaml:"last_item"`
	HasPrevious bool `json:"has_previous" yaml:"has_previous"`
	HasNext     bool `json:"has_next"     yaml:"has_next"`
}

// NewPaginationMeta builds metadata for params given the collection's total
// count and how many records the page actually held. FirstItem and LastItem
// are 1-based positions and are both 0 for an empty page.
func NewPaginationMeta(params PaginationParams, totalCount, pageLen int) PaginationMeta {
	currentPage := max(params.Page, MinPage)
	totalPages := params.CalculateTotalPages(totalCount)

	meta := PaginationMeta{
		CurrentPage: currentPage,
		PageSize:    params.PageSize,
		TotalPages:  totalPages,
		TotalItems:  totalCount,
		HasPrevious: currentPage > 1,
		HasNext:     currentPage < totalPages,
	}

	if pageLen > 0 {
		meta.FirstItem = params.Offset() + 1
		meta.LastItem = params.Offset() + pageLen
	}

	return meta
}

package shared

// Filter carries common listing options for repository queries
type Filter struct {
	Page     int
	PageSize int
	SortBy   string
	SortDesc bool
}

// DefaultFilter returns a filter with sane pagination defaults
func DefaultFilter() Filter {
	return Filter{Page: 1, PageSize: 50}
}

// Offset returns the row offset for the current page
func (f Filter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.Limit()
}

// Limit returns the page size, bounded to [1, 500]
func (f Filter) Limit() int {
	switch {
	case f.PageSize < 1:
		return 50
	case f.PageSize > 500:
		return 500
	default:
		return f.PageSize
	}
}

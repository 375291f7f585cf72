// Package pagination computes 1-based page windows over counted result sets.
package pagination

// Window describes the page of a result set that will actually be served.
// Out-of-range requests are clamped rather than rejected, so a Window is
// always valid: Page is within [1, TotalPages] and Offset never exceeds
// the source size.
type Window struct {
	Page       int
	PageSize   int
	Offset     int
	TotalItems int64
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// New computes the window for the requested page. Requests below 1 clamp
// to the first page and requests beyond the end clamp to the last page.
// An empty source still has one (empty) page.
func New(total int64, pageSize, requested int) Window {
	if pageSize < 1 {
		pageSize = 1
	}
	if total < 0 {
		total = 0
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}

	page := requested
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	return Window{
		Page:       page,
		PageSize:   pageSize,
		Offset:     (page - 1) * pageSize,
		TotalItems: total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

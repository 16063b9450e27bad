package pagination

// DefaultLimit is the standard page size when a limit is not provided.
const DefaultLimit = 10

// MaxLimit caps how many items any listing query can request.
const MaxLimit = 100

// DefaultMaxVisible is the number of page slots a pager control renders.
const DefaultMaxVisible = 5

// Meta describes one fetched page of a collection.
type Meta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NewMeta derives page counts from a total item count. Page is clamped into
// the valid range so consumers never render an out-of-range current page.
func NewMeta(total, page, limit int) Meta {
	limit = NormalizeLimit(limit)
	if total < 0 {
		total = 0
	}
	pages := (total + limit - 1) / limit
	if page < 1 {
		page = 1
	}
	if pages > 0 && page > pages {
		page = pages
	}
	return Meta{Total: total, Page: page, Limit: limit, Pages: pages}
}

// ClampPage forces page into [1, max(Pages, 1)].
func (m Meta) ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	if m.Pages >= 1 && page > m.Pages {
		return m.Pages
	}
	return page
}

// HasNext reports whether a later page exists.
func (m Meta) HasNext() bool {
	return m.Pages > 1 && m.Page < m.Pages
}

// HasPrev reports whether an earlier page exists.
func (m Meta) HasPrev() bool {
	return m.Pages > 1 && m.Page > 1
}

// Ellipsis is the marker value used in a window for an elided page range.
const Ellipsis = -1

// Window returns the ordered pager markers for the given position: concrete
// page numbers plus Ellipsis entries where ranges are skipped. The first and
// last pages are always present when totalPages exceeds maxVisible, with a
// contiguous run centered on currentPage filling the remaining slots.
func Window(currentPage, totalPages, maxVisible int) []int {
	if maxVisible <= 0 {
		maxVisible = DefaultMaxVisible
	}
	if totalPages <= 0 {
		return nil
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}

	if totalPages <= maxVisible {
		out := make([]int, 0, totalPages)
		for p := 1; p <= totalPages; p++ {
			out = append(out, p)
		}
		return out
	}

	// First and last are fixed; the middle run gets the remaining slots.
	inner := maxVisible - 2
	if inner < 1 {
		inner = 1
	}
	start := currentPage - inner/2
	end := start + inner - 1

	if start < 2 {
		start = 2
		end = start + inner - 1
	}
	if end > totalPages-1 {
		end = totalPages - 1
		start = end - inner + 1
		if start < 2 {
			start = 2
		}
	}

	out := make([]int, 0, maxVisible+2)
	out = append(out, 1)
	if start > 2 {
		out = append(out, Ellipsis)
	}
	for p := start; p <= end; p++ {
		out = append(out, p)
	}
	if end < totalPages-1 {
		out = append(out, Ellipsis)
	}
	out = append(out, totalPages)
	return out
}

// Package pagination derives page contents and the page-number control from
// a result count. Nothing here is stored; callers recompute on every render.
package pagination

import "github.com/honeycarbs/job-aggregator/internal/domain"

const (
	DefaultPageSize   = 10
	DefaultWindowSize = 5
)

// PageSizes are the page sizes a user may choose from
var PageSizes = []int{5, 10, 25, 50}

// ItemKind tells a page button from an ellipsis marker
type ItemKind string

const (
	KindPage     ItemKind = "page"
	KindEllipsis ItemKind = "ellipsis"
)

// Item is one entry of the page-number control
type Item struct {
	Kind ItemKind `json:"kind"`
	N    int      `json:"n,omitempty"`
}

func page(n int) Item {
	return Item{Kind: KindPage, N: n}
}

func ellipsis() Item {
	return Item{Kind: KindEllipsis}
}

// ValidPageSize reports whether size is one of PageSizes
func ValidPageSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}

// TotalPages returns ceil(count/size), or 0 for an empty set
func TotalPages(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// DisplayTotal is the page count shown to the user ("Page 1 of 1" for no results)
func DisplayTotal(totalPages int) int {
	if totalPages < 1 {
		return 1
	}
	return totalPages
}

// VisibleItems returns the slice of rs shown on currentPage.
// Out-of-range pages yield an empty slice.
func VisibleItems(rs domain.ResultSet, currentPage, pageSize int) domain.ResultSet {
	if pageSize <= 0 {
		return domain.ResultSet{}
	}

	first := (currentPage - 1) * pageSize
	last := first + pageSize

	if first < 0 {
		first = 0
	}
	if last > len(rs) {
		last = len(rs)
	}
	if first >= last {
		return domain.ResultSet{}
	}

	return rs[first:last]
}

// GoToPage returns requested when it lies within [1, totalPages] and current otherwise
func GoToPage(current, requested, totalPages int) int {
	if requested < 1 || requested > totalPages {
		return current
	}
	return requested
}

// HasPrevious reports whether a "Previous" control is enabled
func HasPrevious(current int) bool {
	return current > 1
}

// HasNext reports whether a "Next" control is enabled
func HasNext(current, totalPages int) bool {
	return current < totalPages
}

// PageWindow builds the page-number control around current, e.g.
// 1 … 4 5 [6] 7 8 … 42. The window holds windowSize consecutive pages unless
// totalPages is smaller. A non-positive windowSize uses DefaultWindowSize.
func PageWindow(current, totalPages, windowSize int) []Item {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	if totalPages <= 0 {
		return []Item{}
	}

	start := max(1, current-windowSize/2)
	end := min(totalPages, start+windowSize-1)

	if end-start+1 < windowSize {
		start = max(1, end-windowSize+1)
	}

	items := make([]Item, 0, windowSize+4)

	if start > 1 {
		items = append(items, page(1))
		if start > 2 {
			items = append(items, ellipsis())
		}
	}

	for n := start; n <= end; n++ {
		items = append(items, page(n))
	}

	if end < totalPages {
		if end < totalPages-1 {
			items = append(items, ellipsis())
		}
		items = append(items, page(totalPages))
	}

	return items
}

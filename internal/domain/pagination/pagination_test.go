package pagination_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/pagination"
)

func records(n int) domain.ResultSet {
	rs := make(domain.ResultSet, n)
	for i := range rs {
		rs[i] = domain.JobRecord{Title: fmt.Sprintf("job-%d", i)}
	}
	return rs
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		count, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{23, 10, 3},
		{23, 25, 1},
		{50, 5, 10},
		{5, 0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, pagination.TotalPages(tc.count, tc.size), "count=%d size=%d", tc.count, tc.size)
	}
}

func TestDisplayTotal(t *testing.T) {
	assert.Equal(t, 1, pagination.DisplayTotal(0))
	assert.Equal(t, 3, pagination.DisplayTotal(3))
}

func TestVisibleItems_PagesCoverResultSet(t *testing.T) {
	for _, n := range []int{0, 1, 4, 5, 23, 50, 51, 137} {
		for _, size := range pagination.PageSizes {
			rs := records(n)
			total := pagination.TotalPages(n, size)

			var seen []string
			for p := 1; p <= total; p++ {
				for _, r := range pagination.VisibleItems(rs, p, size) {
					seen = append(seen, r.Title)
				}
			}

			require.Len(t, seen, n, "n=%d size=%d", n, size)
			for i, title := range seen {
				assert.Equal(t, fmt.Sprintf("job-%d", i), title)
			}
		}
	}
}

func TestVisibleItems_LastPartialPage(t *testing.T) {
	rs := records(23)

	got := pagination.VisibleItems(rs, 3, 10)

	require.Len(t, got, 3)
	assert.Equal(t, "job-20", got[0].Title)
	assert.Equal(t, "job-22", got[2].Title)
}

func TestVisibleItems_OutOfRangeDoesNotPanic(t *testing.T) {
	rs := records(23)

	assert.Empty(t, pagination.VisibleItems(rs, 5, 10))
	assert.Empty(t, pagination.VisibleItems(rs, 0, 10))
	assert.Empty(t, pagination.VisibleItems(rs, -3, 10))
	assert.Empty(t, pagination.VisibleItems(nil, 1, 10))
	assert.Empty(t, pagination.VisibleItems(rs, 1, 0))
}

func TestGoToPage(t *testing.T) {
	total := pagination.TotalPages(23, 10)
	require.Equal(t, 3, total)

	assert.Equal(t, 1, pagination.GoToPage(1, 5, total), "out of range keeps prior page")
	assert.Equal(t, 2, pagination.GoToPage(2, 4, total))
	assert.Equal(t, 2, pagination.GoToPage(2, 0, total))
	assert.Equal(t, 2, pagination.GoToPage(2, -1, total))
	assert.Equal(t, 3, pagination.GoToPage(1, 3, total))
	assert.Equal(t, 1, pagination.GoToPage(1, 1, 0), "empty result set accepts nothing")
}

func TestGoToPage_Idempotent(t *testing.T) {
	for target := 1; target <= 7; target++ {
		once := pagination.GoToPage(1, target, 7)
		twice := pagination.GoToPage(once, target, 7)
		assert.Equal(t, once, twice)
		assert.Equal(t, target, twice)
	}
}

func TestHasPreviousNext(t *testing.T) {
	assert.False(t, pagination.HasPrevious(1))
	assert.True(t, pagination.HasPrevious(2))
	assert.True(t, pagination.HasNext(1, 3))
	assert.False(t, pagination.HasNext(3, 3))
	assert.False(t, pagination.HasNext(1, 0))
}

func TestValidPageSize(t *testing.T) {
	for _, s := range []int{5, 10, 25, 50} {
		assert.True(t, pagination.ValidPageSize(s))
	}
	for _, s := range []int{0, 1, 20, 100, -5} {
		assert.False(t, pagination.ValidPageSize(s))
	}
}

// render turns a window into a compact string such as "1 … 4 5 6 7 8 … 42"
func render(items []pagination.Item) string {
	out := ""
	for i, it := range items {
		if i > 0 {
			out += " "
		}
		if it.Kind == pagination.KindEllipsis {
			out += "…"
		} else {
			out += fmt.Sprint(it.N)
		}
	}
	return out
}

func TestPageWindow_Examples(t *testing.T) {
	cases := []struct {
		current, total int
		want           string
	}{
		{1, 0, ""},
		{1, 1, "1"},
		{1, 3, "1 2 3"},
		{1, 5, "1 2 3 4 5"},
		{1, 6, "1 2 3 4 5 6"},
		{1, 7, "1 2 3 4 5 … 7"},
		{1, 42, "1 2 3 4 5 … 42"},
		{3, 42, "1 2 3 4 5 … 42"},
		{4, 42, "1 2 3 4 5 6 … 42"},
		{5, 42, "1 … 3 4 5 6 7 … 42"},
		{6, 42, "1 … 4 5 6 7 8 … 42"},
		{39, 42, "1 … 37 38 39 40 41 42"},
		{40, 42, "1 … 38 39 40 41 42"},
		{42, 42, "1 … 38 39 40 41 42"},
		{7, 10, "1 … 5 6 7 8 9 10"},
	}
	for _, tc := range cases {
		got := render(pagination.PageWindow(tc.current, tc.total, pagination.DefaultWindowSize))
		assert.Equal(t, tc.want, got, "current=%d total=%d", tc.current, tc.total)
	}
}

func TestPageWindow_Properties(t *testing.T) {
	for total := 1; total <= 30; total++ {
		for current := 1; current <= total; current++ {
			items := pagination.PageWindow(current, total, 5)

			var (
				pages      []int
				ellipses   int
				hasCurrent bool
			)
			for _, it := range items {
				if it.Kind == pagination.KindEllipsis {
					ellipses++
					continue
				}
				pages = append(pages, it.N)
				if it.N == current {
					hasCurrent = true
				}
			}

			assert.True(t, hasCurrent, "current=%d total=%d", current, total)
			assert.LessOrEqual(t, ellipses, 2)
			for i := 1; i < len(pages); i++ {
				assert.Less(t, pages[i-1], pages[i], "pages strictly increase")
			}

			// the centered window plus at most the first and last page
			want := min(5, total)
			assert.GreaterOrEqual(t, len(pages), want, "current=%d total=%d", current, total)
			assert.LessOrEqual(t, len(pages), want+2, "current=%d total=%d", current, total)
			assert.Equal(t, 1, pages[0])
			assert.Equal(t, total, pages[len(pages)-1])
		}
	}
}

func TestPageWindow_DefaultsWindowSize(t *testing.T) {
	assert.Equal(t,
		pagination.PageWindow(6, 42, pagination.DefaultWindowSize),
		pagination.PageWindow(6, 42, 0),
	)
}

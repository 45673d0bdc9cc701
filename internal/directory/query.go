package directory

// QueryState holds what the user typed, the debounced search term the
// listing is fetched for, and the current page.
type QueryState struct {
	input  string
	search string
	page   int
}

func NewQueryState() *QueryState {
	return &QueryState{page: 1}
}

// Input is the raw, undebounced search box value.
func (q *QueryState) Input() string { return q.input }

// Search is the debounced term used for fetching.
func (q *QueryState) Search() string { return q.search }

func (q *QueryState) Page() int { return q.page }

// SetSearchTerm records a keystroke. It never triggers a fetch by itself.
func (q *QueryState) SetSearchTerm(s string) {
	q.input = s
}

// ApplyDebounced installs a settled search term. When it differs from the
// current one the page goes back to 1 in the same step, and true is returned
// to ask for a fetch.
func (q *QueryState) ApplyDebounced(term string) bool {
	if term == q.search {
		return false
	}
	q.search = term
	q.page = 1
	return true
}

// SetPage moves to page n, clamped to 1. It reports whether the page changed.
func (q *QueryState) SetPage(n int) bool {
	if n < 1 {
		n = 1
	}
	if n == q.page {
		return false
	}
	q.page = n
	return true
}

// NextPage advances only when canNext is true.
func (q *QueryState) NextPage(canNext bool) bool {
	if !canNext {
		return false
	}
	return q.SetPage(q.page + 1)
}

// PreviousPage is a no-op on page 1.
func (q *QueryState) PreviousPage() bool {
	if q.page <= 1 {
		return false
	}
	return q.SetPage(q.page - 1)
}

// Clear empties the search box and the search term and returns to page 1
// without waiting for the debounce delay. It reports whether the fetched
// query changed.
func (q *QueryState) Clear() bool {
	q.input = ""
	changed := q.search != "" || q.page != 1
	q.search = ""
	q.page = 1
	return changed
}

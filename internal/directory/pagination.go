package directory

// Pagination tells the view which page controls are enabled.
type Pagination struct {
	Page        int
	CanPrevious bool
	CanNext     bool
}

// Paginate derives the controls for page from the last fetch. The backend
// rarely reports a total; without one a full page is taken to mean another
// page may follow.
func Paginate(page, pageSize int, state FetchState) Pagination {
	p := Pagination{Page: page, CanPrevious: page > 1}
	if state.Status != StatusLoaded {
		return p
	}
	if pageSize < 1 || page >= MaxPage(pageSize) {
		return p
	}
	if state.Total >= 0 {
		// page*pageSize < Total, without the multiplication
		p.CanNext = state.Total > 0 && page <= (state.Total-1)/pageSize
	} else {
		p.CanNext = len(state.Items) == pageSize
	}
	return p
}

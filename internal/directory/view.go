package directory

import (
	"fmt"
	"strings"

	"github.com/csg33k/employee-directory/internal/domain"
)

// ViewKind identifies which presentation of the listing is shown.
type ViewKind int

const (
	ViewLoading ViewKind = iota
	ViewError
	ViewEmpty
	ViewInvalidSearch
	ViewPopulated
)

func (k ViewKind) String() string {
	switch k {
	case ViewLoading:
		return "loading"
	case ViewError:
		return "error"
	case ViewEmpty:
		return "empty"
	case ViewInvalidSearch:
		return "invalid-search"
	case ViewPopulated:
		return "populated"
	}
	return "unknown"
}

// View is everything a template needs for one listing branch.
type View struct {
	Kind      ViewKind
	Title     string
	Message   string
	Search    string
	Employees []domain.Employee
}

// SelectView picks exactly one presentation for state. searchTerm is the term
// the state was fetched for and is echoed in the empty-state message.
func SelectView(state FetchState, searchTerm string) View {
	switch state.Status {
	case StatusError:
		return View{Kind: ViewError, Title: "Error", Message: state.Message, Search: searchTerm}
	case StatusLoaded:
		if len(state.Items) > 0 {
			return View{Kind: ViewPopulated, Search: searchTerm, Employees: state.Items}
		}
		if searchTerm != "" && strings.TrimSpace(searchTerm) == "" {
			return View{
				Kind:    ViewInvalidSearch,
				Title:   "Invalid search",
				Message: "Please enter a valid search term. Spaces alone are not a valid search.",
				Search:  searchTerm,
			}
		}
		msg := "The directory has no employees yet."
		if searchTerm != "" {
			msg = fmt.Sprintf(`We couldn't find anyone matching "%s". Try adjusting your search.`, searchTerm)
		}
		return View{Kind: ViewEmpty, Title: "No employees found", Message: msg, Search: searchTerm}
	}
	// idle renders like loading: a fetch is always about to start
	return View{Kind: ViewLoading, Message: "Loading Employees...", Search: searchTerm}
}

// DetailView is the presentation of the detail page.
type DetailView struct {
	Kind     DetailStatus
	Message  string
	Employee *domain.Employee
}

func SelectDetailView(state DetailState) DetailView {
	switch state.Status {
	case DetailFound:
		return DetailView{Kind: DetailFound, Employee: state.Employee}
	case DetailNotFound:
		return DetailView{Kind: DetailNotFound, Message: "No employee found"}
	}
	return DetailView{Kind: DetailError, Message: "Error: " + state.Message}
}

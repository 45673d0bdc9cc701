package directory

import "github.com/csg33k/employee-directory/internal/domain"

// FetchStatus tags the active variant of a FetchState.
type FetchStatus int

const (
	StatusIdle FetchStatus = iota
	StatusLoading
	StatusError
	StatusLoaded
)

func (s FetchStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusLoaded:
		return "loaded"
	}
	return "unknown"
}

// FetchState is the lifecycle of one listing request. Message is set only for
// StatusError; Items and Total only for StatusLoaded.
type FetchState struct {
	Status  FetchStatus
	Message string
	Items   []domain.Employee
	Total   int
}

func Idle() FetchState    { return FetchState{Status: StatusIdle, Total: domain.TotalUnknown} }
func Loading() FetchState { return FetchState{Status: StatusLoading, Total: domain.TotalUnknown} }

func Failed(msg string) FetchState {
	return FetchState{Status: StatusError, Message: msg, Total: domain.TotalUnknown}
}

// Loaded never stores a nil slice so an empty page and a missing page are
// distinguishable.
func Loaded(items []domain.Employee, total int) FetchState {
	if items == nil {
		items = []domain.Employee{}
	}
	return FetchState{Status: StatusLoaded, Items: items, Total: total}
}

// DetailStatus tags the active variant of a DetailState.
type DetailStatus int

const (
	DetailFound DetailStatus = iota
	DetailNotFound
	DetailError
)

func (s DetailStatus) String() string {
	switch s {
	case DetailFound:
		return "found"
	case DetailNotFound:
		return "not-found"
	case DetailError:
		return "error"
	}
	return "unknown"
}

// DetailState is the outcome of a single-employee lookup.
type DetailState struct {
	Status   DetailStatus
	Employee *domain.Employee
	Message  string
}

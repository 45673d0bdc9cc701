package directory

import (
	"context"
	"errors"
	"math"

	"github.com/csg33k/employee-directory/internal/domain"
	"github.com/csg33k/employee-directory/internal/logger"
	"github.com/csg33k/employee-directory/internal/ports"
)

// User-facing failure messages. Causes go to the log only.
const (
	ListFailedMessage   = "Failed to fetch employees. Is the backend server running?"
	DetailFailedMessage = "Failed to fetch employee details"
)

// MaxPage is the last page whose offset fits in an int at pageSize.
func MaxPage(pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	return math.MaxInt / pageSize
}

// ClampPage bounds page to 1..MaxPage(pageSize).
func ClampPage(page, pageSize int) int {
	return max(1, min(page, MaxPage(pageSize)))
}

// Offset is the number of records before page (1-based) at pageSize. Pages
// past MaxPage are treated as MaxPage, so the result is never negative.
func Offset(page, pageSize int) int {
	return (ClampPage(page, pageSize) - 1) * max(pageSize, 0)
}

// Fetcher turns listing and lookup requests against the employee API into
// FetchState and DetailState values.
type Fetcher struct {
	api      ports.EmployeeAPI
	pageSize int
}

func NewFetcher(api ports.EmployeeAPI, pageSize int) *Fetcher {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Fetcher{api: api, pageSize: pageSize}
}

func (f *Fetcher) PageSize() int { return f.pageSize }

// ClampPage bounds page to the pages this fetcher can address.
func (f *Fetcher) ClampPage(page int) int { return ClampPage(page, f.pageSize) }

// Fetch requests one page of employees matching term.
func (f *Fetcher) Fetch(ctx context.Context, term string, page int) FetchState {
	params := domain.ListParams{
		Search: term,
		Limit:  f.pageSize,
		Offset: Offset(page, f.pageSize),
	}
	res, err := f.api.ListEmployees(ctx, params)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.DebugLog(ctx, "listing request for %q page %d cancelled", term, page)
		} else {
			logger.FromContext(ctx).Error().Err(err).
				Str("search", term).
				Int("page", page).
				Msg("fetching employees failed")
		}
		return Failed(ListFailedMessage)
	}
	return Loaded(res.Items, res.Total)
}

// FetchByID looks up a single employee for the detail view.
func (f *Fetcher) FetchByID(ctx context.Context, id int64) DetailState {
	e, err := f.api.GetEmployee(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return DetailState{Status: DetailNotFound}
	case err != nil:
		logger.FromContext(ctx).Error().Err(err).Int64("employee_id", id).Msg("fetching employee failed")
		return DetailState{Status: DetailError, Message: DetailFailedMessage}
	case e == nil:
		return DetailState{Status: DetailNotFound}
	}
	return DetailState{Status: DetailFound, Employee: e}
}

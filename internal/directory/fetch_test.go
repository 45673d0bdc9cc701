package directory

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/employee-directory/internal/domain"
)

func TestOffset(t *testing.T) {
	cases := []struct{ page, size, want int }{
		{1, 8, 0},
		{2, 8, 8},
		{5, 10, 40},
		{0, 8, 0},
		{-2, 8, 0},
		{math.MaxInt, 8, (MaxPage(8) - 1) * 8},
		{math.MaxInt / 4, 8, (MaxPage(8) - 1) * 8},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Offset(tc.page, tc.size), "page %d size %d", tc.page, tc.size)
	}
}

func TestFetchHugePageSendsValidOffset(t *testing.T) {
	api := &stubAPI{list: fullPages}
	f := NewFetcher(api, 8)

	f.Fetch(context.Background(), "", math.MaxInt/4)
	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.GreaterOrEqual(t, calls[0].Offset, 0)
	assert.Equal(t, MaxPage(8), f.ClampPage(math.MaxInt))
	assert.Equal(t, 1, f.ClampPage(-5))
}

func TestFetchSendsSearchLimitOffset(t *testing.T) {
	api := &stubAPI{list: fullPages}
	f := NewFetcher(api, 8)

	st := f.Fetch(context.Background(), "finance", 3)

	require.Equal(t, StatusLoaded, st.Status)
	assert.Len(t, st.Items, 8)
	assert.Equal(t, []domain.ListParams{{Search: "finance", Limit: 8, Offset: 16}}, api.Calls())
}

func TestFetchEmptyResultIsLoaded(t *testing.T) {
	api := &stubAPI{list: func(context.Context, domain.ListParams) (*domain.EmployeePage, error) {
		return &domain.EmployeePage{Total: domain.TotalUnknown}, nil
	}}
	st := NewFetcher(api, 8).Fetch(context.Background(), "zzz", 1)

	assert.Equal(t, StatusLoaded, st.Status)
	assert.NotNil(t, st.Items)
	assert.Empty(t, st.Items)
}

func TestFetchFailuresCollapseToOneMessage(t *testing.T) {
	for _, cause := range []error{
		errors.New("dial tcp: connection refused"),
		errors.New("unexpected status 500"),
		errors.New("invalid character '<'"),
		context.Canceled,
	} {
		api := &stubAPI{list: func(context.Context, domain.ListParams) (*domain.EmployeePage, error) {
			return nil, cause
		}}
		st := NewFetcher(api, 8).Fetch(context.Background(), "", 1)

		assert.Equal(t, StatusError, st.Status)
		assert.Equal(t, ListFailedMessage, st.Message)
		assert.Nil(t, st.Items)
	}
}

func TestFetchByID(t *testing.T) {
	alice := &domain.Employee{ID: 1, Name: "Alice"}
	api := &stubAPI{get: func(_ context.Context, id int64) (*domain.Employee, error) {
		switch id {
		case 1:
			return alice, nil
		case 2:
			return nil, domain.ErrNotFound
		}
		return nil, errors.New("boom")
	}}
	f := NewFetcher(api, 8)

	found := f.FetchByID(context.Background(), 1)
	assert.Equal(t, DetailFound, found.Status)
	assert.Same(t, alice, found.Employee)

	missing := f.FetchByID(context.Background(), 2)
	assert.Equal(t, DetailNotFound, missing.Status)

	failed := f.FetchByID(context.Background(), 3)
	assert.Equal(t, DetailError, failed.Status)
	assert.Equal(t, DetailFailedMessage, failed.Message)
}

func TestNewFetcherClampsPageSize(t *testing.T) {
	assert.Equal(t, 1, NewFetcher(&stubAPI{}, 0).PageSize())
}

package directory

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/csg33k/employee-directory/internal/domain"
)

func TestPaginate(t *testing.T) {
	cases := []struct {
		name     string
		page     int
		state    FetchState
		wantPrev bool
		wantNext bool
	}{
		{"full first page", 1, Loaded(employees(8, 0), domain.TotalUnknown), false, true},
		{"short page", 2, Loaded(employees(3, 8), domain.TotalUnknown), true, false},
		{"empty page", 1, Loaded(nil, domain.TotalUnknown), false, false},
		{"loading", 3, Loading(), true, false},
		{"error", 2, Failed("x"), true, false},
		{"total says more", 1, Loaded(employees(8, 0), 20), false, true},
		{"total says last", 3, Loaded(employees(4, 16), 20), true, false},
		{"full page but total exhausted", 2, Loaded(employees(8, 8), 16), true, false},
		{"huge page with total", math.MaxInt / 4, Loaded(employees(8, 0), 100), true, false},
		{"last addressable page", MaxPage(8), Loaded(employees(8, 0), domain.TotalUnknown), true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Paginate(tc.page, 8, tc.state)
			assert.Equal(t, tc.page, p.Page)
			assert.Equal(t, tc.wantPrev, p.CanPrevious)
			assert.Equal(t, tc.wantNext, p.CanNext)
		})
	}
}

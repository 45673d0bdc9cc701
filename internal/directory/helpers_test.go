package directory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/csg33k/employee-directory/internal/domain"
)

// fakeClock fires AfterFunc callbacks only when Advance moves past them, on
// the goroutine calling Advance.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock *fakeClock
	at    time.Duration
	f     func()
	done  bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := !t.done
	t.done = true
	return was
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	for {
		var next *fakeTimer
		for _, t := range c.timers {
			if !t.done && t.at <= target && (next == nil || t.at < next.at) {
				next = t
			}
		}
		if next == nil {
			break
		}
		next.done = true
		c.now = next.at
		c.mu.Unlock()
		next.f()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

// stubAPI records every listing call and answers through list.
type stubAPI struct {
	mu    sync.Mutex
	calls []domain.ListParams
	list  func(ctx context.Context, p domain.ListParams) (*domain.EmployeePage, error)
	get   func(ctx context.Context, id int64) (*domain.Employee, error)
}

func (s *stubAPI) ListEmployees(ctx context.Context, p domain.ListParams) (*domain.EmployeePage, error) {
	s.mu.Lock()
	s.calls = append(s.calls, p)
	fn := s.list
	s.mu.Unlock()
	return fn(ctx, p)
}

func (s *stubAPI) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	return s.get(ctx, id)
}

func (s *stubAPI) Calls() []domain.ListParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ListParams(nil), s.calls...)
}

func (s *stubAPI) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// fullPages answers every listing with exactly p.Limit employees.
func fullPages(_ context.Context, p domain.ListParams) (*domain.EmployeePage, error) {
	return &domain.EmployeePage{Items: employees(p.Limit, p.Offset), Total: domain.TotalUnknown}, nil
}

func employees(n, offset int) []domain.Employee {
	out := make([]domain.Employee, n)
	for i := range out {
		id := int64(offset + i + 1)
		out[i] = domain.Employee{
			ID:            id,
			Name:          fmt.Sprintf("Employee %d", id),
			Email:         fmt.Sprintf("employee%d@company.com", id),
			Department:    "Engineering",
			Designation:   "Software Engineer",
			DateOfJoining: domain.NewDate(2023, time.January, 15),
		}
	}
	return out
}

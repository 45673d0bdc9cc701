package live

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/employee-directory/internal/directory"
	"github.com/csg33k/employee-directory/internal/domain"
)

type stubAPI struct{}

func (stubAPI) ListEmployees(_ context.Context, p domain.ListParams) (*domain.EmployeePage, error) {
	items := []domain.Employee{}
	if p.Search != "nobody" {
		items = append(items, domain.Employee{ID: 1, Name: "Result for " + p.Search})
	}
	return &domain.EmployeePage{Items: items, Total: domain.TotalUnknown}, nil
}

func (stubAPI) GetEmployee(context.Context, int64) (*domain.Employee, error) {
	return nil, domain.ErrNotFound
}

type manualTime struct {
	mu  sync.Mutex
	now time.Time
}

func (m *manualTime) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *manualTime) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

func newManager(t *testing.T, clock *manualTime) *Manager {
	t.Helper()
	m := NewManager(directory.NewFetcher(stubAPI{}, 8), Options{TTL: time.Minute, Now: clock.Now})
	t.Cleanup(m.Close)
	return m
}

func next(t *testing.T, s *Session) directory.Snapshot {
	t.Helper()
	select {
	case snap := <-s.Updates():
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot delivered")
		return directory.Snapshot{}
	}
}

func TestCreateWithSeedPublishesItImmediately(t *testing.T) {
	m := newManager(t, &manualTime{now: time.Unix(0, 0)})
	seed := &directory.Seed{Search: "eng", Page: 1, State: directory.Loaded([]domain.Employee{{ID: 7}}, domain.TotalUnknown)}

	s := m.Create(context.Background(), seed)

	snap := next(t, s)
	assert.Equal(t, "eng", snap.Search)
	assert.Equal(t, directory.ViewPopulated, snap.View.Kind)
	assert.Equal(t, 1, m.Len())

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
}

func TestSessionStreamsLatestSnapshot(t *testing.T) {
	m := newManager(t, &manualTime{now: time.Unix(0, 0)})
	s := m.Create(context.Background(), nil)

	s.Input("nobody")
	require.Eventually(t, func() bool {
		select {
		case snap := <-s.Updates():
			return snap.Search == "nobody" && snap.View.Kind == directory.ViewEmpty
		default:
			return false
		}
	}, 2*time.Second, 5*time.Millisecond)
}

func TestOfferKeepsOnlyTheNewest(t *testing.T) {
	s := &Session{updates: make(chan directory.Snapshot, 1)}
	for page := 1; page <= 3; page++ {
		s.offer(directory.Snapshot{Page: page})
	}
	assert.Equal(t, 3, (<-s.Updates()).Page)
	select {
	case <-s.Updates():
		t.Fatal("older snapshots must have been dropped")
	default:
	}
}

func TestReap(t *testing.T) {
	clock := &manualTime{now: time.Unix(0, 0)}
	m := newManager(t, clock)

	idle := m.Create(context.Background(), nil)
	streaming := m.Create(context.Background(), nil)
	active := m.Create(context.Background(), nil)
	detach := streaming.Attach(clock.Now())

	clock.Advance(45 * time.Second)
	_, ok := m.Get(active.ID)
	require.True(t, ok)
	clock.Advance(30 * time.Second)

	assert.Equal(t, 1, m.Reap())
	_, ok = m.Get(idle.ID)
	assert.False(t, ok)
	assert.Equal(t, 2, m.Len())

	detach(clock.Now())
	detach(clock.Now())
	clock.Advance(2 * time.Minute)
	assert.Equal(t, 2, m.Reap())
	assert.Zero(t, m.Len())
}

func TestRunClosesSessionsOnShutdown(t *testing.T) {
	m := NewManager(directory.NewFetcher(stubAPI{}, 8), Options{TTL: time.Minute})
	m.Create(context.Background(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.Zero(t, m.Len())

	late := m.Create(context.Background(), nil)
	_, ok := m.Get(late.ID)
	assert.False(t, ok)
}

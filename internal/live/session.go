// Package live keeps one directory controller per open browser page and
// streams its snapshots back to that page.
package live

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/csg33k/employee-directory/internal/directory"
	"github.com/csg33k/employee-directory/internal/logger"
)

// Session is the server side of one open page.
type Session struct {
	ID string

	ctrl    *directory.Controller
	updates chan directory.Snapshot

	mu       sync.Mutex
	lastSeen time.Time
	streams  int
}

// offer replaces whatever snapshot the subscriber has not read yet.
func (s *Session) offer(snap directory.Snapshot) {
	for {
		select {
		case s.updates <- snap:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}

// Updates delivers snapshots in order, skipping any the reader was too slow
// to pick up. There is one channel per session.
func (s *Session) Updates() <-chan directory.Snapshot { return s.updates }

func (s *Session) Input(term string) { s.ctrl.Input(term) }

func (s *Session) NextPage() bool { return s.ctrl.NextPage() }

func (s *Session) PreviousPage() bool { return s.ctrl.PreviousPage() }

func (s *Session) Clear() { s.ctrl.Clear() }

func (s *Session) Snapshot() directory.Snapshot { return s.ctrl.Snapshot() }

// Attach marks the session as having an open event stream, which keeps it
// from being reaped. Call the returned func when the stream ends.
func (s *Session) Attach(now time.Time) (detach func(time.Time)) {
	s.mu.Lock()
	s.streams++
	s.lastSeen = now
	s.mu.Unlock()

	var once sync.Once
	return func(at time.Time) {
		once.Do(func() {
			s.mu.Lock()
			s.streams--
			s.lastSeen = at
			s.mu.Unlock()
		})
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen), s.streams > 0
}

type Options struct {
	Debounce time.Duration
	// TTL is how long a session without an event stream survives after its
	// last request.
	TTL   time.Duration
	Clock directory.Clock
	Now   func() time.Time
}

// Manager owns every live session.
type Manager struct {
	fetcher *directory.Fetcher
	opts    Options

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

func NewManager(f *directory.Fetcher, opts Options) *Manager {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TTL <= 0 {
		opts.TTL = 15 * time.Minute
	}
	return &Manager{fetcher: f, opts: opts, sessions: make(map[string]*Session)}
}

// Create starts a session. A non-nil seed is the result the page was first
// rendered with, so the session does not fetch it again.
func (m *Manager) Create(ctx context.Context, seed *directory.Seed) *Session {
	s := &Session{
		ID:       uuid.NewString(),
		updates:  make(chan directory.Snapshot, 1),
		lastSeen: m.opts.Now(),
	}
	ctx = logger.WithLogger(ctx, map[string]interface{}{"session_id": s.ID})
	s.ctrl = directory.NewController(ctx, m.fetcher, directory.Options{
		Debounce: m.opts.Debounce,
		Clock:    m.opts.Clock,
		OnChange: s.offer,
		Seed:     seed,
	})

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		s.ctrl.Close()
		return s
	}
	m.sessions[s.ID] = s
	n := len(m.sessions)
	m.mu.Unlock()

	logger.DebugLog(ctx, "live session created, %d open", n)
	return s
}

// Get looks a session up and counts the lookup as activity.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		s.touch(m.opts.Now())
	}
	return s, ok
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Reap closes sessions idle for longer than the TTL that have no open
// event stream, and returns how many it closed.
func (m *Manager) Reap() int {
	now := m.opts.Now()
	var expired []*Session

	m.mu.Lock()
	for id, s := range m.sessions {
		idle, streaming := s.idleSince(now)
		if !streaming && idle > m.opts.TTL {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.ctrl.Close()
	}
	return len(expired)
}

// Run reaps expired sessions until ctx is done, then closes all of them.
func (m *Manager) Run(ctx context.Context) error {
	interval := m.opts.TTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.Close()
			return nil
		case <-ticker.C:
			if n := m.Reap(); n > 0 {
				logger.InfoLog(ctx, "reaped %d idle live sessions, %d open", n, m.Len())
			}
		}
	}
}

// Close ends every session. Sessions created afterwards are closed at once.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	all := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range all {
		s.ctrl.Close()
	}
}

package directory

import (
	"context"
	"sync"
	"time"

	"github.com/csg33k/employee-directory/internal/logger"
)

// Snapshot is the listing as the view should show it right now.
type Snapshot struct {
	Input      string
	Search     string
	Page       int
	PageSize   int
	State      FetchState
	View       View
	Pagination Pagination
}

// Seed lets a controller adopt a result that was already fetched and rendered
// instead of issuing its own initial request.
type Seed struct {
	Search string
	Page   int
	State  FetchState
}

type Options struct {
	// Debounce is how long input must be stable before it is searched for.
	// Zero searches on every keystroke.
	Debounce time.Duration
	Clock    Clock
	// OnChange is called from the controller goroutine after every state
	// transition. It must not block and must not call back into the
	// controller.
	OnChange func(Snapshot)
	Seed     *Seed
}

type settledInput struct {
	term string
	seq  uint64
}

// Controller coordinates search input, paging and fetching for one listing.
// Every transition runs on a single goroutine, one event at a time; the
// exported methods hand their work to that goroutine and wait for it.
type Controller struct {
	fetcher   *Fetcher
	onChange  func(Snapshot)
	delay     time.Duration
	debouncer *Debouncer[settledInput]

	ctx      context.Context
	cancel   context.CancelFunc
	events   chan func()
	quit     chan struct{}
	loopDone chan struct{}
	once     sync.Once
	inflight sync.WaitGroup

	lastMu sync.Mutex
	last   Snapshot

	// loop-owned
	query       *QueryState
	state       FetchState
	gen         uint64
	inputSeq    uint64
	cancelFetch context.CancelFunc
}

// NewController starts a controller. Values carried by ctx (the logger) are
// kept, its cancellation is not: the controller lives until Close.
func NewController(ctx context.Context, f *Fetcher, opts Options) *Controller {
	base, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c := &Controller{
		fetcher:  f,
		onChange: opts.OnChange,
		delay:    opts.Debounce,
		ctx:      base,
		cancel:   cancel,
		events:   make(chan func()),
		quit:     make(chan struct{}),
		loopDone: make(chan struct{}),
		query:    NewQueryState(),
		state:    Idle(),
	}
	c.debouncer = NewDebouncer(opts.Debounce, opts.Clock, func(in settledInput) {
		c.post(func() { c.settle(in) })
	})

	if s := opts.Seed; s != nil && s.State.Status != StatusIdle && s.State.Status != StatusLoading {
		c.query.SetSearchTerm(s.Search)
		c.query.ApplyDebounced(s.Search)
		c.query.SetPage(f.ClampPage(s.Page))
		c.state = s.State
		c.publish()
	} else {
		if s != nil {
			c.query.SetSearchTerm(s.Search)
			c.query.ApplyDebounced(s.Search)
			c.query.SetPage(f.ClampPage(s.Page))
		}
		c.startFetch()
	}

	go c.run()
	return c
}

func (c *Controller) run() {
	defer close(c.loopDone)
	for {
		select {
		case fn := <-c.events:
			fn()
		case <-c.quit:
			return
		}
	}
}

// post queues fn without waiting. It reports false once the controller is
// closed.
func (c *Controller) post(fn func()) bool {
	select {
	case c.events <- fn:
		return true
	case <-c.quit:
		return false
	}
}

// exec runs fn on the controller goroutine and waits for it.
func (c *Controller) exec(fn func()) bool {
	done := make(chan struct{})
	if !c.post(func() { fn(); close(done) }) {
		return false
	}
	select {
	case <-done:
		return true
	case <-c.quit:
		return false
	}
}

// Input records a keystroke in the search box.
func (c *Controller) Input(term string) {
	c.exec(func() {
		c.query.SetSearchTerm(term)
		c.inputSeq++
		in := settledInput{term: term, seq: c.inputSeq}
		if c.delay <= 0 {
			c.settle(in)
			return
		}
		c.debouncer.Push(in)
	})
}

func (c *Controller) settle(in settledInput) {
	// Clear or a newer keystroke superseded this value after its timer fired
	if in.seq != c.inputSeq {
		return
	}
	if c.query.ApplyDebounced(in.term) {
		c.startFetch()
	}
}

// NextPage moves forward when the last result allows it.
func (c *Controller) NextPage() bool {
	var moved bool
	c.exec(func() {
		p := Paginate(c.query.Page(), c.fetcher.PageSize(), c.state)
		if c.query.NextPage(p.CanNext) {
			moved = true
			c.startFetch()
		}
	})
	return moved
}

// PreviousPage moves back; it does nothing on page 1.
func (c *Controller) PreviousPage() bool {
	var moved bool
	c.exec(func() {
		if c.query.PreviousPage() {
			moved = true
			c.startFetch()
		}
	})
	return moved
}

// SetPage jumps to page n, clamped to the addressable pages.
func (c *Controller) SetPage(n int) {
	c.exec(func() {
		if c.query.SetPage(c.fetcher.ClampPage(n)) {
			c.startFetch()
		}
	})
}

// Clear empties the search and returns to the first page immediately,
// discarding any keystroke still waiting for its debounce delay.
func (c *Controller) Clear() {
	c.exec(func() {
		c.inputSeq++
		c.debouncer.Cancel()
		if c.query.Clear() {
			c.startFetch()
		}
	})
}

// Snapshot returns the current listing. After Close it returns the last
// published one.
func (c *Controller) Snapshot() Snapshot {
	var s Snapshot
	if c.exec(func() { s = c.snapshot() }) {
		return s
	}
	c.lastMu.Lock()
	defer c.lastMu.Unlock()
	return c.last
}

// Close stops the debouncer, cancels the request in flight and ends the
// controller goroutine. No state changes or OnChange calls happen afterwards.
func (c *Controller) Close() {
	c.once.Do(func() {
		c.debouncer.Stop()
		close(c.quit)
		<-c.loopDone
		c.cancel()
		c.inflight.Wait()
	})
}

func (c *Controller) startFetch() {
	if c.cancelFetch != nil {
		c.cancelFetch()
	}
	c.gen++
	gen := c.gen
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancelFetch = cancel

	search, page := c.query.Search(), c.query.Page()
	c.state = Loading()
	c.publish()

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		st := c.fetcher.Fetch(ctx, search, page)
		c.post(func() { c.resolve(gen, st) })
	}()
}

func (c *Controller) resolve(gen uint64, st FetchState) {
	if gen != c.gen {
		logger.DebugLog(c.ctx, "discarding result of request %d, request %d is current", gen, c.gen)
		return
	}
	c.cancelFetch()
	c.cancelFetch = nil
	c.state = st
	c.publish()
}

func (c *Controller) snapshot() Snapshot {
	search, page, size := c.query.Search(), c.query.Page(), c.fetcher.PageSize()
	return Snapshot{
		Input:      c.query.Input(),
		Search:     search,
		Page:       page,
		PageSize:   size,
		State:      c.state,
		View:       SelectView(c.state, search),
		Pagination: Paginate(page, size, c.state),
	}
}

func (c *Controller) publish() {
	s := c.snapshot()
	c.lastMu.Lock()
	c.last = s
	c.lastMu.Unlock()
	if c.onChange != nil {
		c.onChange(s)
	}
}

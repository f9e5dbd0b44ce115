package fetch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Fetcher performs the remote call for a query and maps the response to a view model.
type Fetcher[Q comparable, T any] func(ctx context.Context, q Q) (T, error)

// Request is one issued fetch. It is the guard token: its resolution is only applied
// while its generation is still the controller's current one.
type Request[Q comparable] struct {
	ID         string
	Query      Q
	generation uint64
	ctx        context.Context
}

// Resolution is the outcome of running a Request.
type Resolution[Q comparable, T any] struct {
	Request *Request[Q]
	Value   T
	Err     error
}

// Controller owns one screen's query and FetchState.
// All methods are safe to call from the event loop and from the goroutine running a fetch.
type Controller[Q comparable, T any] struct {
	mu         sync.Mutex
	name       string
	fetcher    Fetcher[Q, T]
	enabled    func(Q) bool
	state      State[T]
	query      Q
	hasQuery   bool
	generation uint64
	active     bool
	cancel     context.CancelFunc
	calls      int
}

// Option configures a Controller.
type Option[Q comparable, T any] func(*Controller[Q, T])

// WithEnabled sets the predicate deciding whether a query value triggers a fetch.
// Disabled queries reset the state to Idle without any request.
func WithEnabled[Q comparable, T any](pred func(Q) bool) Option[Q, T] {
	return func(c *Controller[Q, T]) {
		if pred != nil {
			c.enabled = pred
		}
	}
}

// WithName sets the name used in log records.
func WithName[Q comparable, T any](name string) Option[Q, T] {
	return func(c *Controller[Q, T]) {
		c.name = name
	}
}

// WithInitialLoading starts the controller in Loading, for screens whose query is
// always defined on activation.
func WithInitialLoading[Q comparable, T any]() Option[Q, T] {
	return func(c *Controller[Q, T]) {
		c.state.Status = Loading
	}
}

// New creates an active controller in the Idle state.
func New[Q comparable, T any](fetcher Fetcher[Q, T], opts ...Option[Q, T]) *Controller[Q, T] {
	c := &Controller[Q, T]{
		name:    "fetch",
		fetcher: fetcher,
		enabled: func(Q) bool { return true },
		active:  true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetQuery records q as the current query. When q differs from the current value and is
// enabled, the state moves to Loading and the returned Request must be run exactly once.
// Setting an equal value again returns (nil, false).
func (c *Controller[Q, T]) SetQuery(q Q) (*Request[Q], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return nil, false
	}
	if c.hasQuery && c.query == q {
		return nil, false
	}

	c.query = q
	c.hasQuery = true
	c.generation++
	c.cancelInFlight()

	if !c.enabled(q) {
		var zero T
		c.state = State[T]{Status: Idle, Value: zero}
		return nil, false
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.calls++
	c.state = State[T]{Status: Loading, Value: c.state.Value}

	req := &Request[Q]{
		ID:         uuid.NewString(),
		Query:      q,
		generation: c.generation,
		ctx:        ctx,
	}
	slog.Debug("Issuing request", "controller", c.name, "request_id", req.ID, "query", q)
	return req, true
}

// Run executes the request's fetch. It blocks and is meant to be called off the event loop.
// The request context is cancelled when the query changes or the controller is deactivated.
func (c *Controller[Q, T]) Run(ctx context.Context, req *Request[Q]) Resolution[Q, T] {
	runCtx := req.ctx
	if ctx != nil {
		var stop context.CancelFunc
		runCtx, stop = mergeCancel(ctx, req.ctx)
		defer stop()
	}

	value, err := c.fetcher(runCtx, req.Query)
	return Resolution[Q, T]{Request: req, Value: value, Err: err}
}

// Apply moves the state to Loaded or Failed if res belongs to the current query of an
// active controller. Stale resolutions are dropped and Apply returns false.
func (c *Controller[Q, T]) Apply(res Resolution[Q, T]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if res.Request == nil || !c.active || res.Request.generation != c.generation {
		slog.Debug("Dropping stale resolution", "controller", c.name, "request_id", requestID(res.Request))
		return false
	}

	c.cancelInFlight()
	if res.Err != nil {
		slog.Error("Fetch failed", "controller", c.name, "request_id", res.Request.ID, "query", res.Request.Query, "error", res.Err)
		var zero T
		c.state = State[T]{Status: Failed, Value: zero}
		return true
	}

	c.state = State[T]{Status: Loaded, Value: res.Value}
	return true
}

// Deactivate ends the controller's lifetime. In-flight requests are cancelled and
// their resolutions will never be applied.
func (c *Controller[Q, T]) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.active = false
	c.cancelInFlight()
}

// Active reports whether the controller still accepts queries and resolutions.
func (c *Controller[Q, T]) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// State returns the current state.
func (c *Controller[Q, T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Query returns the current query and whether one has been set.
func (c *Controller[Q, T]) Query() (Q, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query, c.hasQuery
}

// Calls returns how many requests have been issued.
func (c *Controller[Q, T]) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Load issues a request for q, runs it and applies the result, all on the calling goroutine.
// It returns the resulting state; for an equal or disabled query no request is made.
func (c *Controller[Q, T]) Load(ctx context.Context, q Q) State[T] {
	req, ok := c.SetQuery(q)
	if ok {
		c.Apply(c.Run(ctx, req))
	}
	return c.State()
}

func (c *Controller[Q, T]) cancelInFlight() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func requestID[Q comparable](req *Request[Q]) string {
	if req == nil {
		return ""
	}
	return req.ID
}

// mergeCancel returns a context derived from parent that is also cancelled when other is.
func mergeCancel(parent, other context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(other, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

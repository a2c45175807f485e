package navcache

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/krisalay/navcache/engine"
	"github.com/krisalay/navcache/types"
)

// History is the part of the session history the controller drives.
// *history.Stack implements it.
type History interface {
	Init(route types.Route, title string)
	Push(route types.Route, title string)
	OnPopState(h func(ctx context.Context, rec types.HistoryRecord))
}

// Config wires a Controller. Engine is required; everything else has a default.
type Config struct {
	Engine *engine.Engine

	// Cache defaults to a new cache governed by Engine.
	Cache *Cache

	History  History
	Renderer types.Renderer

	// Routes is the closed route set. Nil accepts every non-empty route.
	Routes *RouteSet

	Logger types.Logger
}

/*
Controller is the navigation state machine.

It orchestrates:
- cache lookups and fetch dispatch (through the engine)
- the render handoff
- history updates and the visit journal
- the single-flight guard: while one navigation is in progress (fetching,
  rendering or pushing history) every other navigation is DROPPED, not queued

Every fetch failure is absorbed here and turned into the Error state.
*/
type Controller struct {
	engine   *engine.Engine
	cache    *Cache
	history  History
	renderer types.Renderer
	routes   *RouteSet
	logger   types.Logger

	mu    sync.Mutex
	state State

	// busy spans the whole navigation, not just the fetch that IsLoading
	// reports, so a render in progress cannot be interleaved with another.
	busy bool

	// lastMode is the mode of the last attempted navigation, for Retry.
	lastMode navMode
}

// NewController builds a controller and registers it for popstate events.
func NewController(cfg Config) *Controller {
	c := &Controller{
		engine:   cfg.Engine,
		cache:    cfg.Cache,
		history:  cfg.History,
		renderer: cfg.Renderer,
		routes:   cfg.Routes,
		logger:   cfg.Logger,
	}
	if c.cache == nil {
		c.cache = NewCache(c.engine)
	}
	if c.history == nil {
		c.history = nopHistory{}
	}
	if c.renderer == nil {
		c.renderer = nopRenderer{}
	}
	if c.logger == nil {
		c.logger = types.NopLogger{}
	}

	c.history.OnPopState(func(ctx context.Context, rec types.HistoryRecord) {
		c.HandlePopState(ctx, rec)
	})
	return c
}

// Cache returns the store the controller reads from, for sharing with a Preloader.
func (c *Controller) Cache() *Cache { return c.cache }

// State returns a snapshot of the navigation state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start loads and renders the landing route and replaces the landing
// history entry with it. It is called once per page session.
func (c *Controller) Start(ctx context.Context, route types.Route) Outcome {
	return c.navigate(ctx, route, modeReplace)
}

// Navigate is a user-initiated navigation. On success it pushes a history record.
func (c *Controller) Navigate(ctx context.Context, route types.Route) Outcome {
	return c.navigate(ctx, route, modePush)
}

// HandlePopState replays a back/forward traversal. It never pushes history:
// the browser already owns that position.
func (c *Controller) HandlePopState(ctx context.Context, rec types.HistoryRecord) Outcome {
	return c.navigate(ctx, rec.Route, modeReplay)
}

/*
Retry re-attempts the route whose fetch failed.

It only acts in the Error state. It never pushes history; a failed Start is
retried with replace semantics so the landing entry still gets its state.
*/
func (c *Controller) Retry(ctx context.Context) Outcome {
	c.mu.Lock()
	if c.state.Status != StatusError || c.busy {
		c.mu.Unlock()
		return OutcomeIgnored
	}
	route := c.state.AttemptedRoute
	mode := modeReplay
	if c.lastMode == modeReplace {
		mode = modeReplace
	}
	c.mu.Unlock()

	return c.navigate(ctx, route, mode)
}

// Invalidate drops every cached page, so the next navigation to any route fetches.
func (c *Controller) Invalidate() {
	c.cache.Clear()
	c.logger.Info("navigation cache cleared")
}

func (c *Controller) navigate(ctx context.Context, route types.Route, mode navMode) Outcome {
	if !c.routes.Contains(route) {
		c.logger.Warn("navigation to unknown route rejected", "route", route)
		return OutcomeUnknownRoute
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		c.engine.Metrics.Drop()
		c.logger.Debug("navigation dropped, another is in progress", "route", route)
		return OutcomeDropped
	}
	if route == c.state.CurrentRoute {
		c.mu.Unlock()
		return OutcomeSameRoute
	}

	c.busy = true
	c.lastMode = mode
	c.state.AttemptedRoute = route

	ent, hit := c.cache.Get(route)
	if !hit {
		c.state.Status = StatusLoading
		c.state.TargetRoute = route
		c.state.IsLoading = true
	}
	c.mu.Unlock()

	if hit {
		c.logger.Debug("navigation served from cache", "route", route)
		c.commit(ctx, route, ent.Payload, mode)
		return OutcomeCached
	}

	p, err := c.engine.Load(ctx, route)
	if err != nil {
		c.fail(route, types.AsFetchError(route, err))
		return OutcomeFailed
	}
	c.cache.Put(route, p, c.engine.Clock.Now())

	c.commit(ctx, route, p, mode)
	return OutcomeRendered
}

// commit hands the payload to the renderer, updates history and the
// journal, and finally returns the controller to Idle.
func (c *Controller) commit(ctx context.Context, route types.Route, p types.Payload, mode navMode) {
	title := p.Title
	if title == "" {
		title = c.routes.Title(route)
	}

	c.renderer.Render(route, p)

	switch mode {
	case modePush:
		c.history.Push(route, title)
		c.record(ctx, route, title)
	case modeReplace:
		c.history.Init(route, title)
		c.record(ctx, route, title)
	}

	c.mu.Lock()
	c.state = State{
		Status:         StatusIdle,
		CurrentRoute:   route,
		AttemptedRoute: route,
	}
	c.busy = false
	c.mu.Unlock()

	c.logger.Debug("navigation rendered", "route", route, "title", title)
}

// fail moves to Error. CurrentRoute, history and the cache are left untouched.
func (c *Controller) fail(route types.Route, fe *types.FetchError) {
	c.mu.Lock()
	c.state.Status = StatusError
	c.state.TargetRoute = ""
	c.state.IsLoading = false
	c.state.Message = fe.Message
	c.mu.Unlock()

	c.logger.Warn("navigation failed", "route", route, "kind", fe.Kind, "err", fe)
	c.renderer.ShowError(route, fe.Message)

	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

func (c *Controller) record(ctx context.Context, route types.Route, title string) {
	c.engine.Record(ctx, types.Visit{
		ID:        uuid.NewString(),
		Route:     route,
		Title:     title,
		VisitedAt: c.engine.Clock.Now(),
	})
}

type nopHistory struct{}

func (nopHistory) Init(types.Route, string)                                      {}
func (nopHistory) Push(types.Route, string)                                      {}
func (nopHistory) OnPopState(func(ctx context.Context, rec types.HistoryRecord)) {}

type nopRenderer struct{}

func (nopRenderer) Render(types.Route, types.Payload) {}
func (nopRenderer) ShowError(types.Route, string)     {}

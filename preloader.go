package navcache

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/krisalay/navcache/debounce"
	"github.com/krisalay/navcache/engine"
	"github.com/krisalay/navcache/types"
)

// HoverDelay is the debounce window between pointer entry and hover intent.
const HoverDelay = 500 * time.Millisecond

// StateReader is the read-only view of navigation state the preloader gets.
// It cannot navigate, change state or touch history.
type StateReader interface {
	State() State
}

// PreloadResult tells what a hover intent did.
type PreloadResult int

const (
	PreloadFetched PreloadResult = iota
	PreloadSkippedCurrent
	PreloadSkippedCached
	PreloadSkippedLoading
	PreloadSkippedUnknown
	PreloadFailed
)

func (r PreloadResult) String() string {
	switch r {
	case PreloadFetched:
		return "fetched"
	case PreloadSkippedCurrent:
		return "skipped-current"
	case PreloadSkippedCached:
		return "skipped-cached"
	case PreloadSkippedLoading:
		return "skipped-loading"
	case PreloadSkippedUnknown:
		return "skipped-unknown"
	case PreloadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PreloaderConfig wires a Preloader. State, Cache and Engine are required.
type PreloaderConfig struct {
	State  StateReader
	Cache  *Cache
	Engine *engine.Engine
	Routes *RouteSet
	Logger types.Logger

	// Delay overrides HoverDelay when positive.
	Delay time.Duration
}

/*
Preloader speculatively fills the cache with pages the user is likely to open.

It only ever WRITES TO THE CACHE:
- it never changes navigation state (it only holds a StateReader)
- it never touches history
- its failures are logged and discarded
*/
type Preloader struct {
	state    StateReader
	cache    *Cache
	engine   *engine.Engine
	routes   *RouteSet
	logger   types.Logger
	debounce *debounce.Debouncer

	// ctx scopes preloads started by the debounce timer. Close cancels it.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewPreloader returns a Preloader whose debounce timers run on the engine's clock.
func NewPreloader(cfg PreloaderConfig) *Preloader {
	delay := cfg.Delay
	if delay <= 0 {
		delay = HoverDelay
	}
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Preloader{
		state:    cfg.State,
		cache:    cfg.Cache,
		engine:   cfg.Engine,
		routes:   cfg.Routes,
		logger:   logger,
		debounce: debounce.New(cfg.Engine.Clock, delay),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// PointerEnter (re)starts the hover timer for route. The last hover wins.
func (p *Preloader) PointerEnter(route types.Route) {
	p.debounce.Trigger(func() {
		p.OnHoverIntent(p.ctx, route)
	})
}

// PointerLeave cancels a pending hover intent.
func (p *Preloader) PointerLeave() {
	p.debounce.Cancel()
}

/*
OnHoverIntent preloads route if all guards hold:
- route is not the current route
- route has no fresh cache entry
- the controller is not loading

The fetched payload goes to the cache and nowhere else.
*/
func (p *Preloader) OnHoverIntent(ctx context.Context, route types.Route) PreloadResult {
	if !p.routes.Contains(route) {
		return PreloadSkippedUnknown
	}

	st := p.state.State()
	switch {
	case route == st.CurrentRoute:
		return PreloadSkippedCurrent
	case st.IsLoading:
		return PreloadSkippedLoading
	case p.cache.Fresh(route):
		return PreloadSkippedCached
	}

	if err := p.fetch(ctx, route); err != nil {
		p.logger.Debug("preload failed", "route", route, "err", err)
		return PreloadFailed
	}
	return PreloadFetched
}

// WarmResult reports one route of a warm-up.
type WarmResult struct {
	Route   types.Route
	Fetched bool

	// Unknown is set for routes outside the route set. They are never fetched.
	Unknown bool

	Err error
}

/*
Warm fills the cache for routes with at most concurrency fetches at a time.

It is best-effort like every preload: failures are reported in the results,
never returned as the error. The error is only set when ctx ends early.
Routes outside the route set and routes that already have a fresh entry
are skipped. onDone, if non-nil, is
called once per route from the worker goroutines.
*/
func (p *Preloader) Warm(ctx context.Context, routes []types.Route, concurrency int, onDone func(WarmResult)) ([]WarmResult, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]WarmResult, len(routes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, route := range routes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := WarmResult{Route: route}
			switch {
			case !p.routes.Contains(route):
				res.Unknown = true
				p.logger.Debug("warm skipped unknown route", "route", route)
			case !p.cache.Fresh(route):
				res.Err = p.fetch(gctx, route)
				res.Fetched = res.Err == nil
			}
			results[i] = res
			if onDone != nil {
				onDone(res)
			}
			return nil
		})
	}

	err := g.Wait()
	return results, err
}

// Close cancels pending hover timers and in-flight timer-started preloads.
func (p *Preloader) Close() {
	p.debounce.Cancel()
	p.cancel()
}

func (p *Preloader) fetch(ctx context.Context, route types.Route) error {
	payload, err := p.engine.Load(ctx, route)
	if err != nil {
		return err
	}
	p.cache.Put(route, payload, p.engine.Clock.Now())
	p.engine.Metrics.Preload()
	p.logger.Debug("preloaded", "route", route)
	return nil
}

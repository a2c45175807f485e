package navcache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/krisalay/navcache"
	"github.com/krisalay/navcache/clock"
	"github.com/krisalay/navcache/engine"
	"github.com/krisalay/navcache/expiration"
	"github.com/krisalay/navcache/history"
	"github.com/krisalay/navcache/types"
)

//
// ================= TEST ENDPOINT =================
//

type fakeLoader struct {
	mu      sync.Mutex
	pages   map[types.Route]types.Payload
	errs    map[types.Route]error
	gates   map[types.Route]chan struct{}
	calls   map[types.Route]int
	started chan types.Route
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		pages: map[types.Route]types.Payload{
			"dashboard": {Content: "<h1>Dashboard</h1>", Title: "Dashboard"},
			"brands":    {Content: "<h1>Brands</h1>", Title: "Brands"},
			"settings":  {Content: "<h1>Settings</h1>", Title: "Settings"},
			"logs":      {Content: "<h1>Logs</h1>"},
		},
		errs:    make(map[types.Route]error),
		gates:   make(map[types.Route]chan struct{}),
		calls:   make(map[types.Route]int),
		started: make(chan types.Route, 64),
	}
}

func (l *fakeLoader) Load(ctx context.Context, route types.Route) (types.Payload, error) {
	l.mu.Lock()
	l.calls[route]++
	gate := l.gates[route]
	l.mu.Unlock()

	select {
	case l.started <- route:
	default:
	}

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return types.Payload{}, ctx.Err()
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.errs[route]; err != nil {
		return types.Payload{}, err
	}
	p, ok := l.pages[route]
	if !ok {
		return types.Payload{}, &types.FetchError{Route: route, Kind: types.FetchServer, Message: "unknown page"}
	}
	return p, nil
}

// gate makes the next loads of route block until the returned func is called.
func (l *fakeLoader) gate(route types.Route) (release func()) {
	ch := make(chan struct{})
	l.mu.Lock()
	l.gates[route] = ch
	l.mu.Unlock()
	return func() { close(ch) }
}

func (l *fakeLoader) fail(route types.Route, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs[route] = err
}

func (l *fakeLoader) heal(route types.Route) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.errs, route)
}

func (l *fakeLoader) callsFor(route types.Route) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[route]
}

// waitStarted blocks until a load of route has begun.
func (l *fakeLoader) waitStarted(t *testing.T, route types.Route) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case r := <-l.started:
			if r == route {
				return
			}
		case <-timeout:
			t.Fatalf("load of %s never started", route)
		}
	}
}

//
// ================= TEST RENDERER =================
//

type rendered struct {
	route   types.Route
	payload types.Payload
}

type failure struct {
	route   types.Route
	message string
}

type recordingRenderer struct {
	mu       sync.Mutex
	pages    []rendered
	failures []failure
}

func (r *recordingRenderer) Render(route types.Route, p types.Payload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages = append(r.pages, rendered{route, p})
}

func (r *recordingRenderer) ShowError(route types.Route, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, failure{route, message})
}

func (r *recordingRenderer) renderedRoutes() []types.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.Route, len(r.pages))
	for i, p := range r.pages {
		out[i] = p.route
	}
	return out
}

func (r *recordingRenderer) lastFailure() (failure, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.failures) == 0 {
		return failure{}, false
	}
	return r.failures[len(r.failures)-1], true
}

//
// ================= HARNESS =================
//

type harness struct {
	clock     *clock.Fake
	loader    *fakeLoader
	renderer  *recordingRenderer
	history   *history.Stack
	metrics   *types.Counters
	engine    *engine.Engine
	ctrl      *navcache.Controller
	preloader *navcache.Preloader
}

var testRoutes = navcache.NewRouteSet(
	navcache.RouteDef{Route: "dashboard", Title: "Dashboard"},
	navcache.RouteDef{Route: "brands", Title: "Brands"},
	navcache.RouteDef{Route: "settings", Title: "Settings"},
	navcache.RouteDef{Route: "logs", Title: "Activity Log"},
	navcache.RouteDef{Route: "missing", Title: "Missing"},
)

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		clock:    clock.NewFake(time.Unix(1_700_000_000, 0)),
		loader:   newFakeLoader(),
		renderer: &recordingRenderer{},
		history:  history.NewStack("/wp-admin/admin.php", "page"),
		metrics:  &types.Counters{},
	}
	h.engine = engine.NewEngine(expiration.NewExpireAfterWrite(), h.loader, nil, h.metrics, h.clock)
	h.ctrl = navcache.NewController(navcache.Config{
		Engine:   h.engine,
		History:  h.history,
		Renderer: h.renderer,
		Routes:   testRoutes,
	})
	h.preloader = navcache.NewPreloader(navcache.PreloaderConfig{
		State:  h.ctrl,
		Cache:  h.ctrl.Cache(),
		Engine: h.engine,
		Routes: testRoutes,
	})
	t.Cleanup(h.preloader.Close)
	return h
}

// started returns a harness that has already landed on dashboard.
func started(t *testing.T) *harness {
	t.Helper()
	h := newHarness(t)
	if got := h.ctrl.Start(context.Background(), "dashboard"); got != navcache.OutcomeRendered {
		t.Fatalf("Start: expected rendered, got %s", got)
	}
	return h
}

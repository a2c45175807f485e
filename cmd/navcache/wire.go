package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/krisalay/navcache"
	"github.com/krisalay/navcache/clock"
	"github.com/krisalay/navcache/config"
	"github.com/krisalay/navcache/devserver"
	"github.com/krisalay/navcache/engine"
	"github.com/krisalay/navcache/expiration"
	"github.com/krisalay/navcache/fetch"
	"github.com/krisalay/navcache/history"
	"github.com/krisalay/navcache/journal"
	"github.com/krisalay/navcache/types"
	"github.com/krisalay/navcache/writepolicy"
)

// adminPage is the page the SPA lives on; history URLs are built from it.
const adminPage = "/wp-admin/admin.php"

// memoryJournal as journal.path keeps the journal in memory.
const memoryJournal = ":memory:"

/*
app is one wired navigation stack.

 engine ── fetch.Client ── endpoint (configured or embedded devserver)
   │  └── write policy ── journal.Store
   ├── Controller ── history.Stack, Renderer
   └── Preloader
*/
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	routes    *navcache.RouteSet
	metrics   *types.Counters
	engine    *engine.Engine
	history   *history.Stack
	ctrl      *navcache.Controller
	preloader *navcache.Preloader
	journal   *journal.Store

	// dev is the embedded endpoint, nil when one is configured.
	dev *devserver.Server
}

func newApp(cfg *config.Config, logger *slog.Logger, renderer types.Renderer) (*app, error) {
	a := &app{
		cfg:     cfg,
		logger:  logger,
		routes:  routeSet(cfg),
		metrics: &types.Counters{},
	}

	endpoint, token := cfg.Endpoint, cfg.SessionToken
	if endpoint == "" {
		var err error
		if endpoint, err = a.startDevServer(); err != nil {
			return nil, err
		}
		token = a.dev.Token()
	}

	client, err := fetch.New(fetch.Config{
		Endpoint:   endpoint,
		Action:     cfg.Action,
		Token:      token,
		RouteParam: cfg.RouteParam,
		Timeout:    cfg.FetchTimeout(),
	})
	if err != nil {
		a.close()
		return nil, err
	}

	wp, err := a.openJournal()
	if err != nil {
		a.close()
		return nil, err
	}

	a.engine = engine.NewEngine(
		expiration.NewExpireAfterWrite(),
		client,
		wp,
		a.metrics,
		clock.System{},
	)
	a.history = history.NewStack(adminPage, cfg.RouteParam)
	a.ctrl = navcache.NewController(navcache.Config{
		Engine:   a.engine,
		History:  a.history,
		Renderer: renderer,
		Routes:   a.routes,
		Logger:   logger,
	})
	a.preloader = navcache.NewPreloader(navcache.PreloaderConfig{
		State:  a.ctrl,
		Cache:  a.ctrl.Cache(),
		Engine: a.engine,
		Routes: a.routes,
		Logger: logger,
	})
	return a, nil
}

func routeSet(cfg *config.Config) *navcache.RouteSet {
	if len(cfg.Routes) == 0 {
		return nil
	}
	defs := make([]navcache.RouteDef, 0, len(cfg.Routes))
	for _, r := range cfg.Routes {
		defs = append(defs, navcache.RouteDef{Route: types.Route(r.ID), Title: r.Title})
	}
	return navcache.NewRouteSet(defs...)
}

// newDevServer builds the development endpoint from the server section.
func newDevServer(cfg *config.Config, logger *slog.Logger) (*devserver.Server, error) {
	pages := devserver.DefaultPages()
	if dir := cfg.Server.PagesDir; dir != "" {
		var err error
		if pages, err = devserver.LoadPagesDir(dir); err != nil {
			return nil, err
		}
	}
	return devserver.New(devserver.Config{
		Addr:       cfg.Server.Addr,
		Token:      cfg.Server.Token,
		Action:     cfg.Action,
		RouteParam: cfg.RouteParam,
		Delay:      cfg.Server.Delay(),
		AllowAll:   cfg.Server.AllowAllOrigins,
		Logger:     logger,
	}, pages)
}

// startDevServer runs the development endpoint on a loopback port and
// returns its URL.
func (a *app) startDevServer() (string, error) {
	dev, err := newDevServer(a.cfg, a.logger)
	if err != nil {
		return "", fmt.Errorf("starting embedded endpoint: %w", err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("starting embedded endpoint: %w", err)
	}
	a.dev = dev

	go func() {
		if err := dev.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("embedded endpoint stopped", "err", err)
		}
	}()

	a.logger.Debug("no endpoint configured, using the embedded one", "addr", ln.Addr().String())
	return "http://" + ln.Addr().String() + devserver.EndpointPath, nil
}

func (a *app) openJournal() (writepolicy.WritePolicy, error) {
	jc := a.cfg.Journal
	if jc.Path == "" {
		return nil, nil
	}

	var err error
	if jc.Path == memoryJournal {
		a.journal, err = journal.OpenMemory()
	} else {
		a.journal, err = journal.Open(jc.Path)
	}
	if err != nil {
		return nil, err
	}

	if jc.WriteBack {
		return writepolicy.NewWriteBackPolicy(a.journal, jc.Buffer, a.logger), nil
	}
	return writepolicy.NewWriteThroughPolicy(a.journal, a.logger), nil
}

// close flushes the journal and stops the embedded endpoint.
func (a *app) close() {
	if a.preloader != nil {
		a.preloader.Close()
	}
	if a.engine != nil {
		a.engine.Close()
	}
	if a.journal != nil {
		a.journal.Close()
	}
	if a.dev != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		a.dev.Shutdown(ctx)
	}
}

// startRoute resolves the landing route from a deep link, if any.
func (a *app) startRoute(link string) types.Route {
	def := types.Route(a.cfg.DefaultRoute)
	if link == "" {
		return def
	}
	return history.RouteFromURL(link, a.cfg.RouteParam, def)
}

// Package fetch is the fetch channel adapter: it asks the admin endpoint for
// the HTML fragment of a route and normalizes every failure into
// *types.FetchError.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/krisalay/navcache/types"
)

const (
	// DefaultAction is the endpoint action that renders a page fragment.
	DefaultAction = "load_page"

	// DefaultRouteParam is the form field that carries the route.
	DefaultRouteParam = "page"

	// RequestIDHeader carries a fresh id per request, for correlating server logs.
	RequestIDHeader = "X-Request-ID"

	// maxBody caps how much of a response is read.
	maxBody = 8 << 20
)

// ErrNoEndpoint is returned by New when no endpoint is configured.
var ErrNoEndpoint = errors.New("fetch: endpoint is required")

// Config configures a Client.
type Config struct {
	// Endpoint is the absolute URL of the page-content endpoint.
	Endpoint string

	// Action defaults to DefaultAction.
	Action string

	// Token is the session token issued at page load. The server validates it.
	Token string

	// RouteParam defaults to DefaultRouteParam.
	RouteParam string

	// Timeout bounds each request when positive. Zero means no timeout.
	Timeout time.Duration

	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// Client implements types.Loader over HTTP.
type Client struct {
	endpoint string
	action   string
	token    string
	param    string
	timeout  time.Duration
	http     *http.Client
}

// New validates cfg and returns a Client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNoEndpoint
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch: parsing endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("fetch: endpoint %q must be http or https", cfg.Endpoint)
	}

	c := &Client{
		endpoint: u.String(),
		action:   cfg.Action,
		token:    cfg.Token,
		param:    cfg.RouteParam,
		timeout:  cfg.Timeout,
		http:     cfg.HTTPClient,
	}
	if c.action == "" {
		c.action = DefaultAction
	}
	if c.param == "" {
		c.param = DefaultRouteParam
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	return c, nil
}

// Load issues exactly one request for route. It never retries.
func (c *Client) Load(ctx context.Context, route types.Route) (types.Payload, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	form := url.Values{
		"action": {c.action},
		c.param:  {string(route)},
		"nonce":  {c.token},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return types.Payload{}, &types.FetchError{Route: route, Kind: types.FetchTransport, Message: "could not build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set(RequestIDHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return types.Payload{}, transportError(route, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return types.Payload{}, transportError(route, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("HTTP %d", resp.StatusCode)
		if detail := errorMessage(body); detail != "" {
			msg += ": " + detail
		}
		return types.Payload{}, &types.FetchError{Route: route, Kind: types.FetchStatus, Message: msg}
	}

	return Decode(route, body)
}

func transportError(route types.Route, err error) *types.FetchError {
	msg := "could not reach the server"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		msg = "request timed out"
	case errors.Is(err, context.Canceled):
		msg = "request cancelled"
	}
	return &types.FetchError{Route: route, Kind: types.FetchTransport, Message: msg, Err: err}
}

package history

import (
	"net/url"
	"strings"

	"github.com/krisalay/navcache/types"
)

// URLFor returns base with route set in the param query parameter, keeping
// every other parameter. An unparsable base yields a bare "?param=route".
func URLFor(base, param string, route types.Route) string {
	if param == "" {
		param = DefaultParam
	}
	u, err := url.Parse(base)
	if err != nil {
		return "?" + url.Values{param: {string(route)}}.Encode()
	}
	q := u.Query()
	q.Set(param, string(route))
	u.RawQuery = q.Encode()
	return u.String()
}

// RouteFromURL derives the initial route on a fresh page load. It falls back
// to def when the URL is unparsable or carries no usable route.
func RouteFromURL(raw, param string, def types.Route) types.Route {
	if param == "" {
		param = DefaultParam
	}
	u, err := url.Parse(raw)
	if err != nil {
		return def
	}
	r := strings.TrimSpace(u.Query().Get(param))
	if r == "" {
		return def
	}
	return types.Route(r)
}

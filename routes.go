package navcache

import "github.com/krisalay/navcache/types"

// RouteDef names one admin page.
type RouteDef struct {
	Route types.Route
	Title string
}

/*
RouteSet is the closed set of routes supplied at startup.

A nil *RouteSet is valid and accepts every route, for callers that do not
enumerate their pages.
*/
type RouteSet struct {
	order  []types.Route
	titles map[types.Route]string
}

// NewRouteSet builds a set from defs in order. Later duplicates are ignored.
func NewRouteSet(defs ...RouteDef) *RouteSet {
	s := &RouteSet{titles: make(map[types.Route]string, len(defs))}
	for _, d := range defs {
		if _, dup := s.titles[d.Route]; dup {
			continue
		}
		s.order = append(s.order, d.Route)
		s.titles[d.Route] = d.Title
	}
	return s
}

// Contains reports whether route belongs to the set.
func (s *RouteSet) Contains(route types.Route) bool {
	if s == nil {
		return route != ""
	}
	_, ok := s.titles[route]
	return ok
}

// Title returns the configured title, or the route itself when none is set.
func (s *RouteSet) Title(route types.Route) string {
	if s != nil {
		if t := s.titles[route]; t != "" {
			return t
		}
	}
	return string(route)
}

// Routes returns the routes in declaration order.
func (s *RouteSet) Routes() []types.Route {
	if s == nil {
		return nil
	}
	return append([]types.Route(nil), s.order...)
}

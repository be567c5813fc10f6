package service

import (
	"log"
	"sync"
)

// Route is one of the two client pages
type Route string

const (
	// RouteLogin is the entry page
	RouteLogin Route = "index.html"

	// RouteGame is the game page, reached after a successful login
	RouteGame Route = "app/html/game.html"
)

// Navigator switches between the login and game pages
type Navigator interface {
	Navigate(route Route)
	Current() Route
}

// RouteTracker implements Navigator by recording the current route and
// telling listeners about every navigation
type RouteTracker struct {
	mu        sync.RWMutex
	current   Route
	listeners []func(Route)
}

// NewRouteTracker creates a tracker starting at initial
func NewRouteTracker(initial Route) *RouteTracker {
	return &RouteTracker{current: initial}
}

// Navigate moves to route; listeners are told even if it is unchanged
func (t *RouteTracker) Navigate(route Route) {
	t.mu.Lock()
	t.current = route
	listeners := make([]func(Route), len(t.listeners))
	copy(listeners, t.listeners)
	t.mu.Unlock()

	log.Printf("Navigate: %s", route)
	for _, fn := range listeners {
		fn(route)
	}
}

// Current returns the current route
func (t *RouteTracker) Current() Route {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// OnNavigate registers a listener for route changes
func (t *RouteTracker) OnNavigate(fn func(Route)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

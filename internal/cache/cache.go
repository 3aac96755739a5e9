package cache

import (
	"sync"

	"github.com/adequatepilot/nav-scoring-sub000/pkg/nav"
)

// RouteCache caches planned routes by name to avoid repeated storage reads
// when many flights are scored against the same route in one session.
type RouteCache struct {
	m      sync.Mutex
	routes map[string]nav.PlannedRoute
}

func NewRouteCache() *RouteCache {
	return &RouteCache{
		routes: make(map[string]nav.PlannedRoute),
	}
}

func (c *RouteCache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.routes = make(map[string]nav.PlannedRoute)
}

func (c *RouteCache) Get(name string) (nav.PlannedRoute, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	if r, ok := c.routes[name]; ok {
		return r, true
	}
	return nav.PlannedRoute{}, false
}

func (c *RouteCache) Add(route nav.PlannedRoute) {
	c.m.Lock()
	defer c.m.Unlock()
	c.routes[route.Name] = route
}

// Invalidate drops one route, for when it is replaced in storage.
func (c *RouteCache) Invalidate(name string) {
	c.m.Lock()
	defer c.m.Unlock()
	delete(c.routes, name)
}

func (c *RouteCache) Len() int {
	c.m.Lock()
	defer c.m.Unlock()
	return len(c.routes)
}

// SafeCounter is a thread-safe counter
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Set(v int) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}

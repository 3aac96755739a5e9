package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adequatepilot/nav-scoring-sub000/pkg/nav"
)

func testRoute(name string) nav.PlannedRoute {
	return nav.PlannedRoute{
		Name: name,
		Gate: nav.StartGate{Name: "GATE", Lat: 35.0, Lon: -106.0},
		Checkpoints: []nav.Checkpoint{
			{Name: "ALPHA", Lat: 35.2, Lon: -106.0, Seq: 1},
		},
	}
}

func TestRouteCache_NewRouteCache(t *testing.T) {
	c := NewRouteCache()

	require.NotNil(t, c)
	assert.Equal(t, 0, c.Len())
}

func TestRouteCache_AddAndGet(t *testing.T) {
	c := NewRouteCache()

	c.Add(testRoute("NAV 4"))

	got, ok := c.Get("NAV 4")
	require.True(t, ok, "expected to find route NAV 4")
	assert.Equal(t, "NAV 4", got.Name)
	assert.Len(t, got.Checkpoints, 1)
}

func TestRouteCache_Get_NotFound(t *testing.T) {
	c := NewRouteCache()

	_, ok := c.Get("NAV 99")
	assert.False(t, ok, "expected not to find route NAV 99")
}

func TestRouteCache_Add_Replaces(t *testing.T) {
	c := NewRouteCache()

	c.Add(testRoute("NAV 4"))
	replacement := testRoute("NAV 4")
	replacement.Checkpoints = append(replacement.Checkpoints,
		nav.Checkpoint{Name: "BRAVO", Lat: 35.5, Lon: -106.0, Seq: 2})
	c.Add(replacement)

	got, ok := c.Get("NAV 4")
	require.True(t, ok)
	assert.Len(t, got.Checkpoints, 2)
	assert.Equal(t, 1, c.Len())
}

func TestRouteCache_Invalidate(t *testing.T) {
	c := NewRouteCache()

	c.Add(testRoute("NAV 4"))
	c.Invalidate("NAV 4")

	_, ok := c.Get("NAV 4")
	assert.False(t, ok, "expected route to be gone after Invalidate")

	// invalidating a missing route is a no-op
	c.Invalidate("NAV 99")
}

func TestRouteCache_Reset(t *testing.T) {
	c := NewRouteCache()

	c.Add(testRoute("NAV 4"))
	c.Add(testRoute("NAV 5"))
	assert.Equal(t, 2, c.Len())

	c.Reset()
	assert.Equal(t, 0, c.Len())

	c.Add(testRoute("NAV 6"))
	_, ok := c.Get("NAV 6")
	assert.True(t, ok, "expected to find route added after reset")
}

func TestRouteCache_Concurrent(t *testing.T) {
	c := NewRouteCache()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.Add(testRoute(fmt.Sprintf("NAV %d", n)))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, c.Len())

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.Get(fmt.Sprintf("NAV %d", n))
		}(i)
	}
	wg.Wait()
}

// SafeCounter tests

func TestSafeCounter_InitialValue(t *testing.T) {
	c := &SafeCounter{}
	assert.Equal(t, int(0), c.Value())
}

func TestSafeCounter_Set(t *testing.T) {
	c := &SafeCounter{}

	c.Set(42)
	assert.Equal(t, int(42), c.Value())

	c.Set(100)
	assert.Equal(t, int(100), c.Value())

	c.Set(0)
	assert.Equal(t, int(0), c.Value())
}

func TestSafeCounter_Inc(t *testing.T) {
	c := &SafeCounter{}

	c.Inc()
	assert.Equal(t, int(1), c.Value())

	c.Inc()
	c.Inc()
	assert.Equal(t, int(3), c.Value())
}

func TestSafeCounter_Concurrent(t *testing.T) {
	c := &SafeCounter{}
	var wg sync.WaitGroup

	// Concurrent increments
	for i := 0; i < 1000; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Inc()
		}()
	}
	wg.Wait()

	assert.Equal(t, int(1000), c.Value())
}

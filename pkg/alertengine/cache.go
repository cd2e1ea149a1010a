package alertengine

import (
	"sync"

	geojson "github.com/paulmach/go.geojson"
)

// GeometryCache memoizes zone geometry lookups for the life of the process.
// A stored nil geometry is the explicit "zone has no geometry" marker, so
// repeated runs never re-fetch a zone that already answered. There is no
// eviction; one feed references at most a few hundred distinct zones.
type GeometryCache struct {
	mu      sync.Mutex
	entries map[string]*geojson.Geometry
}

func NewGeometryCache() *GeometryCache {
	return &GeometryCache{entries: make(map[string]*geojson.Geometry)}
}

// Lookup returns the cached geometry for key. ok reports whether the key has
// been resolved at all; ok with a nil geometry means the zone is known to
// have none.
func (c *GeometryCache) Lookup(key string) (*geojson.Geometry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.entries[key]
	return g, ok
}

func (c *GeometryCache) Store(key string, g *geojson.Geometry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = g
}

func (c *GeometryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

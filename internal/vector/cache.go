package vector

import "sync"

// LayerCache memoizes feature-layer reads for the lifetime of one run. The
// driver owns the cache and drops it at the run boundary, so no layer read
// outlives the run that performed it. Safe for concurrent use.
type LayerCache struct {
	mu     sync.Mutex
	layers map[string]*Layer
	open   func(path string) (*Layer, error)
}

// NewLayerCache builds a cache backed by ReadGeoJSON.
func NewLayerCache() *LayerCache {
	return newLayerCache(ReadGeoJSON)
}

func newLayerCache(open func(string) (*Layer, error)) *LayerCache {
	return &LayerCache{
		layers: make(map[string]*Layer),
		open:   open,
	}
}

// Get returns the layer for path, reading it at most once per cache
// lifetime. A failed read is not cached; the next Get retries.
func (c *LayerCache) Get(path string) (*Layer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if layer, ok := c.layers[path]; ok {
		return layer, nil
	}
	layer, err := c.open(path)
	if err != nil {
		return nil, err
	}
	c.layers[path] = layer
	return layer, nil
}

// Reset drops every cached layer.
func (c *LayerCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layers = make(map[string]*Layer)
}

package override

import (
	"container/list"
	"sync"

	"github.com/dmitrymomot/catalogkit/pkg/catalog"
)

// variantCache is a bounded LRU of composed plan variants keyed by the
// (source plan, descriptor list) fingerprint. Variants are immutable, so a
// cache hit can be handed out directly and callers observing the same
// override combination always receive the same physical plan object.
type variantCache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	eviction *list.List
}

type variantEntry struct {
	key     string
	variant *catalog.Plan
}

func newVariantCache(capacity int) *variantCache {
	if capacity <= 0 {
		panic("override: variant cache capacity must be positive")
	}
	return &variantCache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
	}
}

func (c *variantCache) get(key string) (*catalog.Plan, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.eviction.MoveToFront(elem)
	return elem.Value.(*variantEntry).variant, true
}

func (c *variantCache) put(key string, variant *catalog.Plan) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.eviction.MoveToFront(elem)
		elem.Value.(*variantEntry).variant = variant
		return
	}

	c.items[key] = c.eviction.PushFront(&variantEntry{key: key, variant: variant})
	if c.eviction.Len() > c.capacity {
		oldest := c.eviction.Back()
		c.eviction.Remove(oldest)
		delete(c.items, oldest.Value.(*variantEntry).key)
	}
}

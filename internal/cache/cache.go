package cache

import (
	"container/list"
	"sync"

	"xnote/internal/models"
)

const MaxCacheSize = 150

type cacheEntry struct {
	id   int64
	note *models.Note
}

// Cache is an LRU read cache for notes, keyed by id. Mutating handlers
// write through or invalidate so a cached note never carries a
// sentiment diverging from the store.
type Cache struct {
	mu      sync.RWMutex
	items   map[int64]*list.Element
	order   *list.List
	maxSize int
}

func New() *Cache {
	return &Cache{
		items:   make(map[int64]*list.Element),
		order:   list.New(),
		maxSize: MaxCacheSize,
	}
}

func (c *Cache) Get(id int64) (*models.Note, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if elem, ok := c.items[id]; ok {
		return elem.Value.(*cacheEntry).note, true
	}
	return nil, false
}

func (c *Cache) Set(id int64, note *models.Note) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[id]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*cacheEntry).note = note
		return
	}

	if c.order.Len() >= c.maxSize {
		oldest := c.order.Back()
		if oldest != nil {
			entry := oldest.Value.(*cacheEntry)
			delete(c.items, entry.id)
			c.order.Remove(oldest)
		}
	}

	elem := c.order.PushFront(&cacheEntry{id: id, note: note})
	c.items[id] = elem
}

func (c *Cache) Invalidate(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[id]; ok {
		delete(c.items, id)
		c.order.Remove(elem)
	}
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[int64]*list.Element)
	c.order = list.New()
}

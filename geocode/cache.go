package geocode

import (
	"container/list"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Cache stores resolved coordinates by normalized place name.
type Cache interface {
	Get(key string) (Coordinates, bool)
	Set(key string, coords Coordinates)
}

// MemoryCache is a bounded, thread-safe LRU cache.
type MemoryCache struct {
	maxEntries int
	mu         sync.Mutex
	order      *list.List
	entries    map[string]*list.Element
}

type entry struct {
	key    string
	coords Coordinates
}

func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &MemoryCache{
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

func (c *MemoryCache) Get(key string) (Coordinates, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return Coordinates{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).coords, true
}

func (c *MemoryCache) Set(key string, coords Coordinates) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*entry).coords = coords
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&entry{key: key, coords: coords})
	if c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry).key)
	}
}

func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// KeyValueStore is the subset of the redis repository the geocode cache needs.
type KeyValueStore interface {
	GetBytes(key string) ([]byte, bool)
	SetKey(key string, value interface{}, ttl time.Duration)
}

// RedisCache keeps resolved places in redis so they survive restarts and
// are shared between instances. Entries never expire.
type RedisCache struct {
	store  KeyValueStore
	prefix string
}

func NewRedisCache(store KeyValueStore) *RedisCache {
	return &RedisCache{store: store, prefix: "geocode:"}
}

func (c *RedisCache) Get(key string) (Coordinates, bool) {
	data, ok := c.store.GetBytes(c.prefix + key)
	if !ok {
		return Coordinates{}, false
	}
	var coords Coordinates
	if err := jsoniter.Unmarshal(data, &coords); err != nil {
		return Coordinates{}, false
	}
	return coords, true
}

func (c *RedisCache) Set(key string, coords Coordinates) {
	data, err := jsoniter.Marshal(coords)
	if err != nil {
		return
	}
	c.store.SetKey(c.prefix+key, data, 0)
}

// Tiered checks front first and falls back to back, promoting hits.
type Tiered struct {
	front Cache
	back  Cache
}

func NewTiered(front, back Cache) *Tiered {
	return &Tiered{front: front, back: back}
}

func (t *Tiered) Get(key string) (Coordinates, bool) {
	if c, ok := t.front.Get(key); ok {
		return c, true
	}
	c, ok := t.back.Get(key)
	if ok {
		t.front.Set(key, c)
	}
	return c, ok
}

func (t *Tiered) Set(key string, coords Coordinates) {
	t.front.Set(key, coords)
	t.back.Set(key, coords)
}

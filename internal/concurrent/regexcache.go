package concurrent

import (
	"container/list"
	"regexp"
	"sync"
)

// RegexCache is a small bounded LRU cache of compiled regular
// expressions, one per Thread (spec §3.5: "a bounded cache of
// recently compiled regular expressions"). Adapted from
// pkg/lru/cache.go's container/list + map combination; the capacity
// is fixed and small per
// _examples/original_source/src/re_module.c's cache sizing.
type RegexCache struct {
	maxEntries int

	mu    sync.Mutex
	ll    *list.List
	cache map[string]*list.Element
}

type regexEntry struct {
	pattern string
	re      *regexp.Regexp
}

// DefaultRegexCacheSize matches the small fixed capacity used by the
// original thread-local regex cache.
const DefaultRegexCacheSize = 16

// NewRegexCache creates a cache with the given capacity (0 uses
// DefaultRegexCacheSize).
func NewRegexCache(maxEntries int) *RegexCache {
	if maxEntries <= 0 {
		maxEntries = DefaultRegexCacheSize
	}
	return &RegexCache{
		maxEntries: maxEntries,
		ll:         list.New(),
		cache:      make(map[string]*list.Element),
	}
}

// Compile returns a compiled regexp for pattern, reusing a cached
// entry when present and evicting the least-recently-used entry when
// the cache is full.
func (c *RegexCache) Compile(pattern string) (*regexp.Regexp, error) {
	c.mu.Lock()
	if ee, ok := c.cache[pattern]; ok {
		c.ll.MoveToFront(ee)
		re := ee.Value.(*regexEntry).re
		c.mu.Unlock()
		return re, nil
	}
	c.mu.Unlock()

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ee, ok := c.cache[pattern]; ok {
		c.ll.MoveToFront(ee)
		return ee.Value.(*regexEntry).re, nil
	}
	ele := c.ll.PushFront(&regexEntry{pattern: pattern, re: re})
	c.cache[pattern] = ele
	if c.ll.Len() > c.maxEntries {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.cache, oldest.Value.(*regexEntry).pattern)
		}
	}
	return re, nil
}

// Len reports the number of cached patterns.
func (c *RegexCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

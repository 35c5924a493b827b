// Package cache provides a thread-safe in-memory cache for generative
// parse results, with TTL expiry and LRU eviction
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/pantrylab/forage/internal/ports/outbound"
)

// ParseCache memoizes model responses keyed by raw ingredient text.
// Null parses are cached too, so lines the model could not read are
// not retried on every run while the entry lives.
type ParseCache struct {
	items   map[string]*cacheItem
	lruList *lruList
	maxSize int
	ttl     time.Duration
	mu      sync.Mutex
}

type cacheItem struct {
	parse     *outbound.GenerativeParse
	expiresAt time.Time
	lruNode   *lruNode
}

// lruList implements a doubly-linked list for LRU tracking
type lruList struct {
	head *lruNode
	tail *lruNode
}

type lruNode struct {
	key  string
	prev *lruNode
	next *lruNode
}

// NewParseCache creates a parse cache with the given capacity and TTL
func NewParseCache(maxSize int, ttl time.Duration) *ParseCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	lru := &lruList{head: &lruNode{}, tail: &lruNode{}}
	lru.head.next = lru.tail
	lru.tail.prev = lru.head

	return &ParseCache{
		items:   make(map[string]*cacheItem),
		lruList: lru,
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func cacheKey(rawText string) string {
	return strings.Join(strings.Fields(strings.ToLower(rawText)), " ")
}

// Get returns the cached parse for a raw line. The second value is
// false on a miss or after expiry.
func (c *ParseCache) Get(rawText string) (*outbound.GenerativeParse, bool) {
	key := cacheKey(rawText)

	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.items[key]
	if !exists {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		c.deleteItem(key, item)
		return nil, false
	}

	c.moveToFront(item.lruNode)
	return item.parse, true
}

// Set stores a parse result, evicting the least recently used entry
// when the cache is full
func (c *ParseCache) Set(rawText string, parse *outbound.GenerativeParse) {
	key := cacheKey(rawText)

	c.mu.Lock()
	defer c.mu.Unlock()

	if item, exists := c.items[key]; exists {
		item.parse = parse
		item.expiresAt = time.Now().Add(c.ttl)
		c.moveToFront(item.lruNode)
		return
	}

	for len(c.items) >= c.maxSize {
		c.evictOldest()
	}

	node := &lruNode{key: key}
	c.items[key] = &cacheItem{
		parse:     parse,
		expiresAt: time.Now().Add(c.ttl),
		lruNode:   node,
	}
	c.pushFront(node)
}

// Len reports the number of live entries, expired ones included
func (c *ParseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *ParseCache) deleteItem(key string, item *cacheItem) {
	c.unlink(item.lruNode)
	delete(c.items, key)
}

func (c *ParseCache) evictOldest() {
	oldest := c.lruList.tail.prev
	if oldest == c.lruList.head {
		return
	}
	c.deleteItem(oldest.key, c.items[oldest.key])
}

func (c *ParseCache) pushFront(node *lruNode) {
	node.prev = c.lruList.head
	node.next = c.lruList.head.next
	c.lruList.head.next.prev = node
	c.lruList.head.next = node
}

func (c *ParseCache) unlink(node *lruNode) {
	node.prev.next = node.next
	node.next.prev = node.prev
}

func (c *ParseCache) moveToFront(node *lruNode) {
	c.unlink(node)
	c.pushFront(node)
}

// Package cache provides a cross-request LRU cache for parsed TEI
// documents, sparing repeat requests for the same work the cost of
// re-parsing and re-expanding XIncludes.
package cache

import (
	"sync"
	"sync/atomic"

	"github.com/salamanca-digital/citetrail/pkg/tei"
)

// DefaultDocumentCacheSize is the default maximum memory size for the
// document cache (256 MB).
const DefaultDocumentCacheSize = 256 * 1024 * 1024

// bytesPerKB is the number of bytes in a kilobyte.
const bytesPerKB = 1024.0

// DocumentCache provides a cross-request LRU cache for parsed, fully
// XInclude-expanded TEI documents, keyed by work id. It tracks memory
// usage and evicts least-recently-used entries when the limit is
// exceeded. A request reads its document from the cache via Get, then
// works against a private [tei.Document.Clone] so concurrent requests for
// the same work never observe each other's traversal state.
type DocumentCache struct {
	mu          sync.RWMutex
	entries     map[string]*lruEntry
	head        *lruEntry // Most recently used.
	tail        *lruEntry // Least recently used.
	maxSize     int64
	currentSize int64

	// Metrics (atomic for lock-free reads).
	hits   atomic.Int64
	misses atomic.Int64
}

// lruEntry is a doubly-linked list node for LRU tracking.
type lruEntry struct {
	workID      string
	doc         *tei.Document
	size        int64
	accessCount int64 // Number of times this entry has been accessed.
	prev        *lruEntry
	next        *lruEntry
}

// evictionCost calculates the cost of evicting this entry.
// Higher cost = less desirable to evict.
// Cost = AccessCount / Size (normalized) - we want to evict large, rarely-accessed documents first.
func (e *lruEntry) evictionCost() float64 {
	if e.size == 0 {
		return float64(e.accessCount)
	}

	// Normalize size to KB to avoid tiny fractions.
	sizeKB := float64(e.size) / bytesPerKB
	if sizeKB < 1 {
		sizeKB = 1
	}

	return float64(e.accessCount) / sizeKB
}

// NewDocumentCache creates a new document cache with the specified maximum
// size in bytes.
func NewDocumentCache(maxSize int64) *DocumentCache {
	if maxSize <= 0 {
		maxSize = DefaultDocumentCacheSize
	}

	return &DocumentCache{
		entries: make(map[string]*lruEntry),
		maxSize: maxSize,
	}
}

// Get retrieves workID's parsed document from the cache, returning an
// independent clone so the caller may traverse it without risk of
// interfering with another concurrent request. Returns nil if not cached.
func (c *DocumentCache) Get(workID string) *tei.Document {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[workID]
	if !ok {
		c.misses.Add(1)

		return nil
	}

	c.hits.Add(1)

	entry.accessCount++
	c.moveToFront(entry)

	return entry.doc.Clone()
}

// Put adds workID's parsed document to the cache. If the cache exceeds
// maxSize, entries are evicted using size-aware eviction (large,
// infrequently accessed documents evicted first).
func (c *DocumentCache) Put(workID string, doc *tei.Document) {
	if doc == nil {
		return
	}

	docSize := doc.Size()

	// Don't cache documents larger than the entire cache.
	if docSize > c.maxSize {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Check if already exists.
	if entry, ok := c.entries[workID]; ok {
		entry.accessCount++
		c.moveToFront(entry)

		return
	}

	// Evict entries until we have room using size-aware eviction.
	for c.currentSize+docSize > c.maxSize && c.tail != nil {
		c.evictLowestCost()
	}

	// Clone the document to ensure the cached copy is detached from
	// whatever buffer the caller parsed it into.
	safeDoc := doc.Clone()

	entry := &lruEntry{
		workID:      workID,
		doc:         safeDoc,
		size:        docSize,
		accessCount: 1,
	}

	c.entries[workID] = entry
	c.currentSize += docSize
	c.addToFront(entry)
}

// Stats returns cache performance statistics.
func (c *DocumentCache) Stats() LRUStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return LRUStats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Entries:     len(c.entries),
		CurrentSize: c.currentSize,
		MaxSize:     c.maxSize,
	}
}

// CacheHits implements observability.CacheStatsProvider.
func (c *DocumentCache) CacheHits() int64 {
	return c.hits.Load()
}

// CacheMisses implements observability.CacheStatsProvider.
func (c *DocumentCache) CacheMisses() int64 {
	return c.misses.Load()
}

// LRUStats holds cache performance metrics.
type LRUStats struct {
	Hits        int64
	Misses      int64
	Entries     int
	CurrentSize int64
	MaxSize     int64
}

// HitRate returns the cache hit rate (0.0 to 1.0).
func (s LRUStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0.0
	}

	return float64(s.Hits) / float64(total)
}

// Clear removes all entries from the cache.
func (c *DocumentCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*lruEntry)
	c.head = nil
	c.tail = nil
	c.currentSize = 0
}

// moveToFront moves an entry to the front of the LRU list (most recently used).
func (c *DocumentCache) moveToFront(entry *lruEntry) {
	if entry == c.head {
		return
	}

	c.removeFromList(entry)
	c.addToFront(entry)
}

// addToFront adds an entry to the front of the LRU list.
func (c *DocumentCache) addToFront(entry *lruEntry) {
	entry.prev = nil
	entry.next = c.head

	if c.head != nil {
		c.head.prev = entry
	}

	c.head = entry

	if c.tail == nil {
		c.tail = entry
	}
}

// removeFromList removes an entry from the LRU list.
func (c *DocumentCache) removeFromList(entry *lruEntry) {
	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		c.head = entry.next
	}

	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		c.tail = entry.prev
	}
}

// evictionSampleSize is the number of LRU candidates to sample for size-aware eviction.
// Sampling reduces O(n) scan to O(k) where k is constant.
const evictionSampleSize = 5

// evictLowestCost removes the entry with the lowest eviction cost from the LRU tail region.
// This implements size-aware eviction: large, infrequently accessed documents are evicted first.
// We sample up to evictionSampleSize entries from the tail to avoid O(n) scans.
func (c *DocumentCache) evictLowestCost() {
	if c.tail == nil {
		return
	}

	// Sample candidates from the tail (LRU region).
	var candidates [evictionSampleSize]*lruEntry

	count := 0
	entry := c.tail

	for entry != nil && count < evictionSampleSize {
		candidates[count] = entry
		count++
		entry = entry.prev
	}

	if count == 0 {
		return
	}

	// Find the entry with lowest eviction cost (large size, low access count).
	victim := candidates[0]
	lowestCost := victim.evictionCost()

	for i := 1; i < count; i++ {
		cost := candidates[i].evictionCost()
		if cost < lowestCost {
			lowestCost = cost
			victim = candidates[i]
		}
	}

	// Evict the victim.
	c.removeFromList(victim)
	delete(c.entries, victim.workID)
	c.currentSize -= victim.size
}

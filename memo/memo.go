// Package memo caches validation outcomes by document fingerprint.
//
// Validation is deterministic: a document's outcome depends only on its
// content. Batch runs over large corpora see the same document many times
// (unchanged files across runs, duplicated site templates), so the cache
// keys outcomes on the content fingerprint and replays them, successes and
// failures alike. The cache grows without bound; Clear discards it.
package memo

import (
	"sync"

	"github.com/hydrokit/modelparams/document"
	"github.com/hydrokit/modelparams/paramcheck"
	"github.com/hydrokit/modelparams/params"
	"go.uber.org/atomic"
)

// outcome is a memoized validation result. Either set or err is meaningful,
// never both.
type outcome struct {
	set params.Set
	err error
}

// Cache is a concurrency-safe memo of validation outcomes keyed by document
// fingerprint. The zero value is not usable; create one with NewCache.
type Cache struct {
	mutex   sync.RWMutex
	results map[document.Fingerprint]outcome

	hits       atomic.Int64
	misses     atomic.Int64
	uncachable atomic.Int64
}

// NewCache creates an empty validation cache.
func NewCache() *Cache {
	return &Cache{
		results: make(map[document.Fingerprint]outcome),
	}
}

// Validate checks the document against the parameter contract, replaying the
// memoized outcome when an identical document has been validated before.
// Identity is content-based: two documents with the same fingerprint share an
// entry even if they came from different files or encodings.
//
// Documents that cannot be fingerprinted (values outside the JSON data model)
// are validated directly and never cached.
func (c *Cache) Validate(doc document.Map) (params.Set, error) {
	fp, err := doc.Fingerprint()
	if err != nil {
		c.uncachable.Inc()
		uncachableCounter.Inc()

		return paramcheck.Validate(doc)
	}

	c.mutex.RLock()
	cached, found := c.results[fp]
	c.mutex.RUnlock()

	if found {
		c.hits.Inc()
		hitCounter.Inc()

		return cached.set, cached.err
	}

	set, err := paramcheck.Validate(doc)

	c.mutex.Lock()

	if existing, ok := c.results[fp]; ok {
		// Lost the race against a concurrent validation of the same
		// document. The first stored outcome is canonical.
		c.mutex.Unlock()

		c.misses.Inc()
		missCounter.Inc()

		return existing.set, existing.err
	}

	c.results[fp] = outcome{set: set, err: err}
	entriesGauge.Set(float64(len(c.results)))

	c.mutex.Unlock()

	c.misses.Inc()
	missCounter.Inc()

	return set, err
}

// Len returns the number of memoized outcomes.
func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.results)
}

// Clear discards all memoized outcomes. Hit and miss counts are preserved.
func (c *Cache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.results = make(map[document.Fingerprint]outcome)
	entriesGauge.Set(0)
}

// Stats describes the cache's activity since creation.
type Stats struct {
	Hits       int64
	Misses     int64
	Uncachable int64
	Entries    int
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Uncachable: c.uncachable.Load(),
		Entries:    c.Len(),
	}
}

package dataset

import (
	"sync"

	"github.com/haldies/olist-dashboard/internal/logger"
)

// Cache memoizes the first successful load for the lifetime of the process,
// so filter interactions never re-parse the source. Concurrent readers share
// the one loaded table; a failed attempt is retried on the next call.
type Cache struct {
	mu      sync.Mutex
	sources []Source
	log     *logger.Logger
	loaded  bool
	result  Result
}

func NewCache(sources []Source, appLogger *logger.Logger) *Cache {
	return &Cache{sources: sources, log: appLogger}
}

// Get returns the memoized table, loading it through the source chain on
// first use. The returned frame must be treated as read-only.
func (c *Cache) Get() (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.result, nil
	}

	res, err := LoadChain(c.sources, c.log)
	if err != nil {
		return Result{}, err
	}

	c.result = res
	c.loaded = true
	return c.result, nil
}

// Loaded reports whether a table is already memoized, without triggering a load.
func (c *Cache) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

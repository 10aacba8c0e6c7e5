package store

import (
	"sync"
	"time"

	"github.com/cashcast/backend/internal/forecast"
)

// MemoryCache implements ForecastCache with in-memory storage.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	day      time.Time
	forecast forecast.Forecast
}

// NewMemoryCache creates a new in-memory forecast cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
	}
}

// Get returns the cached forecast for key if it was computed on the given
// calendar day.
func (c *MemoryCache) Get(key string, day time.Time) (forecast.Forecast, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || !sameDay(entry.day, day) {
		return forecast.Forecast{}, false
	}
	return entry.forecast, true
}

// Set stores a forecast for key, evicting entries from earlier days.
func (c *MemoryCache) Set(key string, day time.Time, f forecast.Forecast) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, entry := range c.entries {
		if !sameDay(entry.day, day) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = memoryEntry{day: day, forecast: f}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

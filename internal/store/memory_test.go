package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cashcast/backend/internal/forecast"
)

func TestMemoryCache_RoundTrip(t *testing.T) {
	cache := NewMemoryCache()
	day := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	f := forecast.Forecast{ForecastPeriodDays: 90}

	_, ok := cache.Get("abc", day)
	assert.False(t, ok)

	cache.Set("abc", day, f)
	got, ok := cache.Get("abc", day)
	assert.True(t, ok)
	assert.Equal(t, f, got)
}

func TestMemoryCache_SameDayDifferentClock(t *testing.T) {
	cache := NewMemoryCache()
	morning := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 8, 30, 22, 30, 0, 0, time.UTC)

	cache.Set("abc", morning, forecast.Forecast{ForecastPeriodDays: 90})
	_, ok := cache.Get("abc", evening)
	assert.True(t, ok, "entries stay valid for the whole calendar day")
}

func TestMemoryCache_StaleDayMisses(t *testing.T) {
	cache := NewMemoryCache()
	yesterday := time.Date(2026, 8, 29, 23, 0, 0, 0, time.UTC)
	today := time.Date(2026, 8, 30, 1, 0, 0, 0, time.UTC)

	cache.Set("abc", yesterday, forecast.Forecast{ForecastPeriodDays: 90})
	_, ok := cache.Get("abc", today)
	assert.False(t, ok, "the scheduler seed changes at midnight")
}

func TestMemoryCache_SetEvictsEarlierDays(t *testing.T) {
	cache := NewMemoryCache()
	yesterday := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	today := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	cache.Set("old", yesterday, forecast.Forecast{ForecastPeriodDays: 90})
	cache.Set("new", today, forecast.Forecast{ForecastPeriodDays: 90})

	assert.Len(t, cache.entries, 1)
	_, ok := cache.Get("new", today)
	assert.True(t, ok)
}

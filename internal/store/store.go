// Package store provides caller-side caching of computed forecasts. The
// engine itself is stateless; memoizing its output per analysis day is a
// serving-layer concern and lives here.
package store

import (
	"time"

	"github.com/cashcast/backend/internal/forecast"
)

// ForecastCache caches forecasts keyed by request digest and analysis day.
// A cached forecast is only valid on the day it was computed: the
// scheduler seed is date-derived, so results change at midnight.
type ForecastCache interface {
	Get(key string, day time.Time) (forecast.Forecast, bool)
	Set(key string, day time.Time, f forecast.Forecast)
}

package geocode

import (
	"context"
	"strings"
	"time"

	"github.com/Grupp05-AI/Admin-sida/pkg/metrics"
	"github.com/jonboulle/clockwork"
)

// Resolver puts a cache and a politeness delay in front of a Geocoder.
// Every external lookup waits for the configured delay first.
type Resolver struct {
	geocoder Geocoder
	cache    Cache
	delay    time.Duration
	clock    clockwork.Clock
}

func NewResolver(geocoder Geocoder, cache Cache, delay time.Duration, clock clockwork.Clock) *Resolver {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Resolver{geocoder: geocoder, cache: cache, delay: delay, clock: clock}
}

// CacheKey normalizes a place name for cache lookups.
func CacheKey(place string) string {
	return strings.ToLower(strings.TrimSpace(place))
}

func (r *Resolver) Resolve(ctx context.Context, place string) (Coordinates, bool, error) {
	key := CacheKey(place)
	if key == "" {
		return Coordinates{}, false, nil
	}

	if coords, ok := r.cache.Get(key); ok {
		metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return coords, true, nil
	}
	metrics.GeocodeCache.WithLabelValues("miss").Inc()

	if err := r.wait(ctx); err != nil {
		return Coordinates{}, false, err
	}

	start := r.clock.Now()
	coords, found, err := r.geocoder.Lookup(ctx, strings.TrimSpace(place))
	metrics.GeocodeDuration.Observe(r.clock.Since(start).Seconds())

	switch {
	case err != nil:
		metrics.GeocodeLookups.WithLabelValues("error").Inc()
		return Coordinates{}, false, err
	case !found:
		metrics.GeocodeLookups.WithLabelValues("not_found").Inc()
		return Coordinates{}, false, nil
	}

	metrics.GeocodeLookups.WithLabelValues("found").Inc()
	r.cache.Set(key, coords)
	return coords, true, nil
}

func (r *Resolver) wait(ctx context.Context) error {
	if r.delay <= 0 {
		return nil
	}
	select {
	case <-r.clock.After(r.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package geocode

import (
	"context"
	"errors"
	"strings"

	"github.com/Grupp05-AI/Admin-sida/pkg/metrics"
	"github.com/Grupp05-AI/Admin-sida/tips"
	"go.uber.org/zap"
)

type CoordinateStore interface {
	UpdateCoordinates(ctx context.Context, id int64, lat, lon float64) error
}

// Publisher announces tips that received coordinates.
type Publisher interface {
	PublishGeocoded(tip tips.Tip) error
}

// Backfiller resolves missing coordinates from place names, writes them to
// the store and patches the rows in place. It is best effort: failures are
// logged and the row is left as it was.
type Backfiller struct {
	resolver  *Resolver
	store     CoordinateStore
	publisher Publisher
	logger    *zap.Logger
}

func NewBackfiller(resolver *Resolver, store CoordinateStore, logger *zap.Logger) *Backfiller {
	return &Backfiller{resolver: resolver, store: store, logger: logger}
}

func (b *Backfiller) WithPublisher(p Publisher) *Backfiller {
	b.publisher = p
	return b
}

// Backfill processes rows sequentially and returns how many were resolved.
func (b *Backfiller) Backfill(ctx context.Context, rows []tips.Tip) int {
	resolved := 0
	for i := range rows {
		row := &rows[i]
		place := strings.TrimSpace(tips.Str(row.Place))
		if row.HasCoordinates() || place == "" {
			continue
		}

		coords, found, err := b.resolver.Resolve(ctx, place)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				b.logger.Warn("geocode backfill interrupted", zap.Int64("id", row.ID), zap.Error(err))
				return resolved
			}
			b.logger.Error("geocode failed", zap.Int64("id", row.ID), zap.String("place", place), zap.Error(err))
			continue
		}
		if !found {
			b.logger.Debug("place not found", zap.Int64("id", row.ID), zap.String("place", place))
			continue
		}

		if err := b.store.UpdateCoordinates(ctx, row.ID, coords.Latitude, coords.Longitude); err != nil {
			metrics.StoreErrors.WithLabelValues("update_coordinates").Inc()
			b.logger.Error("could not persist coordinates", zap.Int64("id", row.ID), zap.String("place", place), zap.Error(err))
			continue
		}

		row.SetCoordinates(coords.Latitude, coords.Longitude)
		metrics.BackfilledTips.Inc()
		resolved++

		if b.publisher != nil {
			if err := b.publisher.PublishGeocoded(*row); err != nil {
				b.logger.Warn("could not publish geocoded tip", zap.Int64("id", row.ID), zap.Error(err))
			}
		}
	}
	return resolved
}

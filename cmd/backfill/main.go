// Command backfill geocodes stored tips that have a place but no
// coordinates, in id order, one batch at a time.
//
// Usage:
//
//	go run ./cmd/backfill -batch 100 -max 500
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Grupp05-AI/Admin-sida/app"
	"github.com/Grupp05-AI/Admin-sida/broker"
	"github.com/Grupp05-AI/Admin-sida/cache"
	"github.com/Grupp05-AI/Admin-sida/config"
	log "github.com/Grupp05-AI/Admin-sida/pkg/logger"
	"github.com/Grupp05-AI/Admin-sida/repository"
	"github.com/Grupp05-AI/Admin-sida/tips"
	"go.uber.org/zap"
)

func main() {
	defer log.Sync()
	if err := run(); err != nil {
		log.Logger().Error("backfill failed", zap.Error(err))
		os.Exit(1)
	}
}

func run() error {
	batch := flag.Int("batch", 100, "rows fetched per batch")
	maxRows := flag.Int("max", 0, "stop after this many rows were inspected, 0 for all")
	flag.Parse()

	if *batch <= 0 {
		flag.Usage()
		return fmt.Errorf("-batch must be positive")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := repository.New(ctx, cfg.DBConnStr, cfg.DBServiceKey)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	defer repo.Close()

	var cacheRepo *cache.RedisRepository
	if cfg.RedisAddr != "" {
		cacheRepo = cache.NewRedisRepository(cfg.RedisAddr, cfg.RedisPassword)
		defer cacheRepo.Close()
	}

	var publisher *broker.GeocodedPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := broker.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Logger().Warn("failed to init kafka producer", zap.Error(err))
		} else {
			publisher = broker.NewGeocodedPublisher(producer)
			defer publisher.Close()
		}
	}

	resolver := app.NewBackfiller(cfg, repo, cacheRepo, publisher)
	inspected, resolved, err := backfillAll(ctx, repo, resolver, *batch, *maxRows)
	log.Logger().Info("backfill finished", zap.Int("inspected", inspected), zap.Int("resolved", resolved))
	return err
}

type ungeocodedLister interface {
	ListUngeocoded(ctx context.Context, afterID int64, limit int) ([]tips.Tip, error)
}

type backfiller interface {
	Backfill(ctx context.Context, rows []tips.Tip) int
}

// backfillAll walks the rows lacking coordinates by ascending id so rows
// that fail to resolve are not fetched again.
func backfillAll(ctx context.Context, store ungeocodedLister, b backfiller, batch, maxRows int) (int, int, error) {
	var (
		afterID   int64
		inspected int
		resolved  int
	)
	for {
		if maxRows > 0 && inspected >= maxRows {
			return inspected, resolved, nil
		}
		limit := batch
		if maxRows > 0 && maxRows-inspected < limit {
			limit = maxRows - inspected
		}

		rows, err := store.ListUngeocoded(ctx, afterID, limit)
		if err != nil {
			return inspected, resolved, fmt.Errorf("could not list rows: %w", err)
		}
		if len(rows) == 0 {
			return inspected, resolved, nil
		}

		resolved += b.Backfill(ctx, rows)
		inspected += len(rows)
		afterID = rows[len(rows)-1].ID
		log.Logger().Info("batch done", zap.Int64("after_id", afterID), zap.Int("inspected", inspected), zap.Int("resolved", resolved))

		if ctx.Err() != nil {
			return inspected, resolved, ctx.Err()
		}
		if len(rows) < limit {
			return inspected, resolved, nil
		}
	}
}

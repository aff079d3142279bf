package app

import (
	"context"
	"fmt"

	"github.com/Grupp05-AI/Admin-sida/broker"
	"github.com/Grupp05-AI/Admin-sida/cache"
	"github.com/Grupp05-AI/Admin-sida/config"
	"github.com/Grupp05-AI/Admin-sida/dashboard"
	_ "github.com/Grupp05-AI/Admin-sida/docs"
	"github.com/Grupp05-AI/Admin-sida/geocode"
	"github.com/Grupp05-AI/Admin-sida/handler"
	"github.com/Grupp05-AI/Admin-sida/middleware/auth"
	responsecache "github.com/Grupp05-AI/Admin-sida/middleware/cache"
	log "github.com/Grupp05-AI/Admin-sida/pkg/logger"
	"github.com/Grupp05-AI/Admin-sida/repository"
	"github.com/Grupp05-AI/Admin-sida/service"
	swagger "github.com/arsmn/fiber-swagger/v2"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// CachedPaths are the GET routes served from the response cache.
var CachedPaths = []string{"/api/categories"}

type Application struct {
	app       *fiber.App
	cfg       *config.Config
	repo      *repository.Repository
	cacheRepo *cache.RedisRepository
	publisher *broker.GeocodedPublisher
	tips      *service.TipService
	sessions  *dashboard.Sessions
}

// New connects to the store and the optional Redis and Kafka backends and
// builds the HTTP application.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	repo, err := repository.New(ctx, cfg.DBConnStr, cfg.DBServiceKey)
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	a := &Application{cfg: cfg, repo: repo}

	if cfg.RedisAddr != "" {
		a.cacheRepo = cache.NewRedisRepository(cfg.RedisAddr, cfg.RedisPassword)
		if err := a.cacheRepo.Ping(); err != nil {
			log.Logger().Warn("redis is not reachable, continuing", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := broker.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Logger().Warn("failed to init kafka producer", zap.Strings("brokers", cfg.KafkaBrokers), zap.Error(err))
		} else {
			a.publisher = broker.NewGeocodedPublisher(producer)
		}
	}

	backfiller := NewBackfiller(cfg, repo, a.cacheRepo, a.publisher)
	a.tips = service.NewTipService(repo, backfiller, cfg.MaskContact)
	a.sessions = dashboard.NewSessions(a.tips, cfg.SessionIdle, nil)
	a.app = NewFiber(cfg)
	a.Register()

	return a, nil
}

// NewBackfiller wires the geocoder, its caches and the optional publisher.
// cacheRepo and publisher may be nil.
func NewBackfiller(cfg *config.Config, store geocode.CoordinateStore, cacheRepo *cache.RedisRepository, publisher *broker.GeocodedPublisher) *geocode.Backfiller {
	var geoCache geocode.Cache = geocode.NewMemoryCache(cfg.GeocodeCacheSize)
	if cacheRepo != nil {
		geoCache = geocode.NewTiered(geoCache, geocode.NewRedisCache(cacheRepo))
	}

	nominatim := geocode.NewNominatim(cfg.GeocodeBaseURL, cfg.GeocodeContact, cfg.GeocodeTimeout)
	resolver := geocode.NewResolver(nominatim, geoCache, cfg.GeocodeDelay, nil)
	backfiller := geocode.NewBackfiller(resolver, store, log.Named("geocode"))
	if publisher != nil {
		backfiller.WithPublisher(publisher)
	}
	return backfiller
}

// NewFiber returns the fiber app with the shared middleware stack.
func NewFiber(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:     "tips-dashboard",
		JSONEncoder: jsoniter.Marshal,
		JSONDecoder: jsoniter.Unmarshal,
	})
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New())
	app.Use(recover.New())
	app.Use(auth.New(cfg.APIKey))
	app.Use(pprof.New())
	return app
}

func (a *Application) Register() {
	var (
		pruner handler.Pruner
		store  responsecache.Store
	)
	if a.cacheRepo != nil {
		pruner = a.cacheRepo
		store = a.cacheRepo
	}

	a.app.Use(responsecache.New(responsecache.Config{Store: store, TTL: a.cfg.CacheTTL, Paths: CachedPaths}))
	register(a.app, a.cfg, a.tips, a.sessions, pruner)
}

func register(app *fiber.App, cfg *config.Config, svc *service.TipService, sessions *dashboard.Sessions, pruner handler.Pruner) {
	app.Get("/docs", handler.RedirectDocs)
	app.Get("/healthcheck", handler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/monitor", monitor.New())
	app.Get("/favicon.ico", handler.Favicon)
	app.Get("/caches/prune", handler.InvalidateCache(pruner))

	api := app.Group("/api")
	api.Get("/health", handler.StoreHealth(svc))
	api.Get("/categories", handler.GetCategoriesHandler(svc))
	api.Get("/tips", handler.GetTips(svc))

	dashboardHandler := handler.NewDashboardHandler(sessions)
	api.Post("/dashboard/sessions", dashboardHandler.HandleOpen)
	api.Post("/dashboard/sessions/:id/events", dashboardHandler.HandleEvent)
	api.Get("/dashboard/sessions/:id", dashboardHandler.HandleView)

	route := app.Group("/swagger")
	route.Get("*", swagger.HandlerDefault)

	app.Static("/", cfg.PublicDir)
}

func (a *Application) Listen() error {
	log.Logger().Info("server up", zap.String("addr", a.cfg.Addr()), zap.String("health", "/api/health"))
	return a.app.Listen(a.cfg.Addr())
}

func (a *Application) Shutdown() error {
	return a.app.Shutdown()
}

// Close releases the backends after the server stopped.
func (a *Application) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			log.Logger().Warn("could not close kafka producer", zap.Error(err))
		}
	}
	if a.cacheRepo != nil {
		if err := a.cacheRepo.Close(); err != nil {
			log.Logger().Warn("could not close redis client", zap.Error(err))
		}
	}
	a.repo.Close()
}

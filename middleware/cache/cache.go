package cache

import (
	"net/http"
	"time"

	log "github.com/Grupp05-AI/Admin-sida/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const CachedHeader = "x-cached-response"

type Store interface {
	GetBytes(key string) ([]byte, bool)
	SetKey(key string, value interface{}, ttl time.Duration)
	Delete(key string) error
}

type Config struct {
	Store Store
	TTL   time.Duration
	// Paths lists the GET routes whose responses are cached.
	Paths []string
}

func New(cfg Config) fiber.Handler {
	paths := make(map[string]struct{}, len(cfg.Paths))
	for _, p := range cfg.Paths {
		paths[p] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		if _, ok := paths[c.Path()]; !ok || cfg.Store == nil {
			return c.Next()
		}

		reqURI := c.OriginalURL()
		hashURL := uuid.NewSHA1(uuid.NameSpaceOID, []byte(reqURI)).String()
		if c.Method() != http.MethodGet {
			if err := cfg.Store.Delete(hashURL); err != nil {
				log.Logger().Warn("could not drop cached response", zap.String("uri", reqURI), zap.Error(err))
			}
			return c.Next()
		}

		cacheData, ok := cfg.Store.GetBytes(hashURL)
		if !ok || len(cacheData) == 0 {
			if err := c.Next(); err != nil {
				return err
			}
			if c.Response().StatusCode() == fiber.StatusOK && len(c.Response().Body()) > 0 {
				body := append([]byte(nil), c.Response().Body()...)
				cfg.Store.SetKey(hashURL, body, cfg.TTL)
			}
			return nil
		}

		c.Set(CachedHeader, "true")
		c.Response().SetBodyRaw(cacheData)
		c.Response().Header.SetContentType(fiber.MIMEApplicationJSON)
		return nil
	}
}

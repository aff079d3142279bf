package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the service settings read from the environment.
type Config struct {
	DBConnStr    string
	DBServiceKey string
	Port         int
	PublicDir    string
	APIKey       string
	MaskContact  bool

	GeocodeDelay     time.Duration
	GeocodeBaseURL   string
	GeocodeContact   string
	GeocodeTimeout   time.Duration
	GeocodeCacheSize int

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	KafkaBrokers []string

	SessionIdle time.Duration
}

var required = []string{"DB_CONN_STR", "DB_SERVICE_KEY"}

// Load reads the environment. It fails when a required variable is missing
// or a numeric value cannot be parsed.
func Load() (*Config, error) {
	var missing []string
	for _, k := range required {
		if strings.TrimSpace(os.Getenv(k)) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing environment variables: %s", strings.Join(missing, ", "))
	}

	port, err := intEnv("PORT", 3000)
	if err != nil {
		return nil, err
	}
	delayMs, err := intEnv("GEOCODE_DELAY_MS", 800)
	if err != nil {
		return nil, err
	}
	cacheSize, err := intEnv("GEOCODE_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}
	geocodeTimeout, err := durationEnv("GEOCODE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := durationEnv("CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	sessionIdle, err := durationEnv("SESSION_IDLE", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBConnStr:    os.Getenv("DB_CONN_STR"),
		DBServiceKey: os.Getenv("DB_SERVICE_KEY"),
		Port:         port,
		PublicDir:    envOrDefault("PUBLIC_DIR", "./public"),
		APIKey:       os.Getenv("ApiKey"),
		MaskContact:  os.Getenv("MASK_CONTACT") == "true",

		GeocodeDelay:     time.Duration(delayMs) * time.Millisecond,
		GeocodeBaseURL:   envOrDefault("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocodeContact:   envOrDefault("GEOCODE_CONTACT", "admin@example.com"),
		GeocodeTimeout:   geocodeTimeout,
		GeocodeCacheSize: cacheSize,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CacheTTL:      cacheTTL,

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),

		SessionIdle: sessionIdle,
	}

	if cfg.GeocodeDelay < 0 {
		return nil, fmt.Errorf("GEOCODE_DELAY_MS must not be negative")
	}
	if cfg.GeocodeCacheSize <= 0 {
		return nil, fmt.Errorf("GEOCODE_CACHE_SIZE must be positive")
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package cache

import (
	"time"

	log "github.com/Grupp05-AI/Admin-sida/pkg/logger"
	"github.com/go-redis/redis"
	"go.uber.org/zap"
)

type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(addr, password string) *RedisRepository {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	return &RedisRepository{client: client}
}

func (repository *RedisRepository) SetKey(key string, value interface{}, ttl time.Duration) {
	status := repository.client.Set(key, value, ttl)
	if _, err := status.Result(); err != nil {
		log.Logger().Warn("could not set cache key", zap.String("key", key), zap.Error(err))
	}
}

// GetBytes returns the raw value stored at key. Missing keys and
// connection errors both report false.
func (repository *RedisRepository) GetBytes(key string) ([]byte, bool) {
	data, err := repository.client.Get(key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Logger().Warn("could not read cache key", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return data, true
}

func (repository *RedisRepository) Delete(key string) error {
	status := repository.client.Del(key)
	if status.Err() != nil {
		return status.Err()
	}

	return nil
}

func (repository *RedisRepository) Prune() error {
	resp := repository.client.FlushDB()
	return resp.Err()
}

func (repository *RedisRepository) Ping() error {
	return repository.client.Ping().Err()
}

func (repository *RedisRepository) Close() error {
	return repository.client.Close()
}

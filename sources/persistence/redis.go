package persistence

import (
	"strconv"

	"domainhub/sources/configuration"
	"domainhub/sources/tracing"

	"github.com/redis/go-redis/v9"
)

// NewRedis returns nil when redis is disabled; dependants fall back to
// in-process state.
func NewRedis(config *configuration.Config, log *tracing.Logger) *redis.Client {
	if !config.Redis.Enabled {
		log.W("Redis disabled, using in-process state")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:                  config.Redis.Host + ":" + strconv.Itoa(config.Redis.Port),
		Password:              config.Redis.Password,
		DB:                    config.Redis.DB,
		MaxRetries:            config.Redis.MaxRetries,
		DialTimeout:           config.Redis.DialTimeout,
		ContextTimeoutEnabled: true,
	})

	log.I("Redis client initialized successfully")
	return rdb
}

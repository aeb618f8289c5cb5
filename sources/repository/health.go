package repository

import (
	"context"
	"fmt"
	"time"

	"domainhub/sources/platform"
	"domainhub/sources/tracing"

	"github.com/hashicorp/go-multierror"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewHealthRepository(db *gorm.DB, redis *redis.Client) *HealthRepository {
	return &HealthRepository{db: db, redis: redis}
}

func (x *HealthRepository) CheckDatabaseHealth(ctx context.Context, logger *tracing.Logger) error {
	defer tracing.ProfilePoint(logger, "Health check database completed", "repository.health.check.database")()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 1*time.Second)
	defer cancel()

	sqlDB, err := x.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		logger.E("Database health check failed", tracing.InnerError, err)
		return fmt.Errorf("database: %w", err)
	}

	return nil
}

// CheckRedisHealth passes when redis is disabled.
func (x *HealthRepository) CheckRedisHealth(ctx context.Context, logger *tracing.Logger) error {
	defer tracing.ProfilePoint(logger, "Health check redis completed", "repository.health.check.redis")()
	if x.redis == nil {
		return nil
	}

	ctx, cancel := platform.ContextTimeoutVal(ctx, 1*time.Second)
	defer cancel()

	if err := x.redis.Ping(ctx).Err(); err != nil {
		logger.E("Redis health check failed", tracing.InnerError, err)
		return fmt.Errorf("redis: %w", err)
	}

	return nil
}

// CheckAll runs every check and aggregates the failures.
func (x *HealthRepository) CheckAll(ctx context.Context, logger *tracing.Logger) error {
	var result *multierror.Error

	if err := x.CheckDatabaseHealth(ctx, logger); err != nil {
		result = multierror.Append(result, err)
	}
	if err := x.CheckRedisHealth(ctx, logger); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

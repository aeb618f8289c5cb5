package persistence

import (
	"context"

	"domainhub/sources/tracing"

	"github.com/hashicorp/go-multierror"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("persistence",
	fx.Provide(
		NewDatabase,
		NewRedis,
		NewKeyValue,
	),

	fx.Invoke(func(db *gorm.DB, redis *redis.Client, lc fx.Lifecycle, log *tracing.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if sqlDB, err := db.DB(); err != nil {
					log.F("Failed to get underlying sql.DB", tracing.InnerError, err)
				} else if err := sqlDB.PingContext(ctx); err != nil {
					log.F("Failed to ping database", tracing.InnerError, err)
				} else {
					log.I("Database connection verified")
				}

				if err := Migrate(db.WithContext(ctx)); err != nil {
					log.E("Failed to migrate schema", tracing.InnerError, err)
					return err
				}
				log.I("Schema migrated")

				if redis != nil {
					if err := redis.Ping(ctx).Err(); err != nil {
						log.F("Failed to ping Redis", tracing.InnerError, err)
					} else {
						log.I("Redis connection verified")
					}
				}

				return nil
			},
			OnStop: func(ctx context.Context) error {
				log.I("Closing database connections")

				var errs *multierror.Error
				if sqlDB, err := db.DB(); err != nil {
					errs = multierror.Append(errs, err)
				} else if err := sqlDB.Close(); err != nil {
					errs = multierror.Append(errs, err)
				}

				if redis != nil {
					if err := redis.Close(); err != nil {
						errs = multierror.Append(errs, err)
					}
				}

				if err := errs.ErrorOrNil(); err != nil {
					log.E("Failed to close connections", tracing.InnerError, err)
				}
				return nil
			},
		})
	}),
)

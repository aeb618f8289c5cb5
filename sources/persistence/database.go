package persistence

import (
	"fmt"
	"time"

	"domainhub/sources/configuration"
	"domainhub/sources/persistence/entities"
	"domainhub/sources/tracing"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

func NewDatabase(config *configuration.Config, log *tracing.Logger) (*gorm.DB, error) {
	db, err := Open(&config.Database, log)
	if err != nil {
		log.E("Failed to connect to database", tracing.InnerError, err, "driver", config.Database.Driver)
		return nil, err
	}

	log.I("Database initialized successfully", "driver", config.Database.Driver, "replicas", len(config.Database.Replicas))
	return db, nil
}

// Open connects with the configured driver and registers read replicas.
func Open(config *configuration.DatabaseConfig, log *tracing.Logger) (*gorm.DB, error) {
	gormlogger := logger.New(
		&gormtracer{logger: log},
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector(config, dsn(config)), &gorm.Config{Logger: gormlogger, TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", config.Driver, err)
	}

	if len(config.Replicas) > 0 {
		replicas := make([]gorm.Dialector, 0, len(config.Replicas))
		for _, replica := range config.Replicas {
			replicas = append(replicas, dialector(config, replica))
		}

		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, fmt.Errorf("failed to register read replicas: %w", err)
		}
	}

	sqldb, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if config.Driver == "sqlite" {
		sqldb.SetMaxOpenConns(1)
	} else {
		sqldb.SetMaxOpenConns(config.MaxOpenConns)
		sqldb.SetMaxIdleConns(config.MaxIdleConns)
		sqldb.SetConnMaxLifetime(config.ConnMaxLifetime)
		sqldb.SetConnMaxIdleTime(30 * time.Minute)
	}

	return db, nil
}

// Migrate creates or alters the collections' tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(entities.All()...)
}

func dsn(config *configuration.DatabaseConfig) string {
	if config.Driver == "sqlite" {
		return config.SqlitePath
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		config.Host, config.User, config.Password, config.DBName, config.Port, config.SSLMode, config.TimeZone,
	)
}

func dialector(config *configuration.DatabaseConfig, dsn string) gorm.Dialector {
	if config.Driver == "sqlite" {
		return sqlite.Open(dsn)
	}
	return postgres.Open(dsn)
}

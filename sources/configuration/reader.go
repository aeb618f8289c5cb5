package configuration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"time"

	"domainhub/sources/platform"
	"domainhub/sources/tracing"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var envPattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)(?::([^}]*))?\}`)

// NewConfig reads the configuration from CONFIG_PATH (default: config.yaml)
// after loading an optional .env file. A missing config file yields defaults.
func NewConfig(log *tracing.Logger) (*Config, error) {
	defer tracing.ProfilePoint(log, "Configuration loaded", "configuration.load")()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.W("failed to load .env file", tracing.InnerError, err)
	}

	filePath := platform.Get("CONFIG_PATH", "config.yaml")
	log.I("reading configuration", "path", filePath)

	content, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.W("configuration file not found, using defaults", "path", filePath)
			config := Defaults()
			return config, config.Validate()
		}
		log.E("failed to read configuration file", tracing.InnerError, err, "path", filePath)
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	config, err := Parse(content)
	if err != nil {
		log.E("failed to parse configuration file", tracing.InnerError, err, "path", filePath)
		return nil, err
	}

	return config, nil
}

// Parse expands environment references in content and decodes it on top of
// Defaults.
func Parse(content []byte) (*Config, error) {
	config := Defaults()
	if err := yaml.Unmarshal([]byte(expandEnv(string(content))), config); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func Defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			HttpPort:      platform.GetAsInt("PORT", 5000),
			MetricsPort:   9090,
			CorsOrigins:   []string{"*"},
			UploadLimitMB: 5,
		},
		Database: DatabaseConfig{
			Driver:          "postgres",
			Host:            "localhost",
			Port:            "5432",
			User:            "postgres",
			DBName:          "domainhub",
			SSLMode:         "disable",
			TimeZone:        "UTC",
			SqlitePath:      "domainhub.db",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 2 * time.Hour,
		},
		Redis: RedisConfig{
			Host:        "localhost",
			Port:        6379,
			MaxRetries:  5,
			DialTimeout: 5 * time.Second,
			Channel:     "domainhub:events",
		},
		Auth: AuthConfig{
			JwtSecret:       platform.Get("JWT_SECRET", insecureJwtSecret),
			TokenTTL:        24 * time.Hour,
			DefaultAdmin:    "admin",
			DefaultPassword: "admin123",
		},
		Telegram: TelegramConfig{
			PollerTimeout:     60,
			JoinApprovalDelay: 3 * time.Second,
			DiplomatChunkSize: 4096,
		},
		Features: FeaturesConfig{
			UnleashAppName:    "domainhub",
			UnleashInstanceID: "domainhub",
			RefreshInterval:   15,
		},
		Market: MarketConfig{
			BulkConcurrency:  8,
			LeadDedupeWindow: 10 * time.Minute,
			MaxLeadDomains:   50,
			ImportMaxRows:    10000,
		},
		Localization: LocalizationConfig{
			DefaultLanguage:    "en",
			SupportedLanguages: []string{"en", "ru"},
		},
	}
}

func (c *Config) Validate() error {
	if c.Service.HttpPort <= 0 {
		return fmt.Errorf("service.http_port must be positive")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if err := platform.ValidateNotEmpty(c.Auth.JwtSecret, "auth.jwt_secret"); err != nil {
		return err
	}
	if c.Telegram.Enabled {
		if err := platform.ValidateTelegramBotToken(c.Telegram.BotToken); err != nil {
			return err
		}
	}
	if c.Market.BulkConcurrency <= 0 {
		c.Market.BulkConcurrency = 1
	}
	return nil
}

// expandEnv replaces ${VAR} or ${VAR:default} with environment values.
func expandEnv(content string) string {
	return envPattern.ReplaceAllStringFunc(content, func(match string) string {
		matches := envPattern.FindStringSubmatch(match)
		key := matches[1]
		defaultValue := ""
		if len(matches) > 2 {
			defaultValue = matches[2]
		}

		if value, exists := os.LookupEnv(key); exists {
			return value
		}
		return defaultValue
	})
}

package configuration

import (
	"time"

	"domainhub/sources/platform"
)

type Config struct {
	Service      ServiceConfig      `yaml:"service"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Auth         AuthConfig         `yaml:"auth"`
	Telegram     TelegramConfig     `yaml:"telegram"`
	Features     FeaturesConfig     `yaml:"features"`
	Market       MarketConfig       `yaml:"market"`
	Localization LocalizationConfig `yaml:"localization"`
}

type ServiceConfig struct {
	HttpPort      int      `yaml:"http_port"`
	MetricsPort   int      `yaml:"metrics_port"`
	CorsOrigins   []string `yaml:"cors_origins"`
	UploadLimitMB int64    `yaml:"upload_limit_mb"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"dbname"`
	SSLMode         string        `yaml:"ssl_mode"`
	TimeZone        string        `yaml:"time_zone"`
	SqlitePath      string        `yaml:"sqlite_path"`
	Replicas        []string      `yaml:"replicas"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type RedisConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	MaxRetries  int           `yaml:"max_retries"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
	Channel     string        `yaml:"channel"`
}

type AuthConfig struct {
	JwtSecret       string        `yaml:"jwt_secret"`
	TokenTTL        time.Duration `yaml:"token_ttl"`
	DefaultAdmin    string        `yaml:"default_admin"`
	DefaultPassword string        `yaml:"default_password"`
}

type TelegramConfig struct {
	Enabled           bool             `yaml:"enabled"`
	BotToken          string           `yaml:"bot_token"`
	APIEndpoint       string           `yaml:"api_endpoint"`
	PollerTimeout     int              `yaml:"poller_timeout"`
	ChannelID         platform.ChatID  `yaml:"channel_id"`
	ChannelInviteLink string           `yaml:"channel_invite_link"`
	SupportURL        string           `yaml:"support_url"`
	WebAppURL         string           `yaml:"web_app_url"`
	JoinApprovalDelay time.Duration    `yaml:"join_approval_delay"`
	DiplomatChunkSize int              `yaml:"diplomat_chunk_size"`
	Proxy             TelegramProxyCfg `yaml:"proxy"`
}

type TelegramProxyCfg struct {
	Address  string `yaml:"address"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type FeaturesConfig struct {
	UnleashAPIURL     string `yaml:"unleash_api_url"`
	UnleashAppName    string `yaml:"unleash_app_name"`
	UnleashInstanceID string `yaml:"unleash_instance_id"`
	RefreshInterval   int    `yaml:"refresh_interval"`
}

type MarketConfig struct {
	BulkConcurrency  int           `yaml:"bulk_concurrency"`
	LeadDedupeWindow time.Duration `yaml:"lead_dedupe_window"`
	MaxLeadDomains   int           `yaml:"max_lead_domains"`
	ImportMaxRows    int           `yaml:"import_max_rows"`
}

type LocalizationConfig struct {
	DefaultLanguage    string   `yaml:"default_language"`
	SupportedLanguages []string `yaml:"supported_languages"`
}

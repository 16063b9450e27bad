package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	API     APIConfig
	Catalog CatalogConfig
	Cache   CacheConfig
	Session SessionConfig
	Chat    ChatConfig
	Local   LocalStoreConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.API.validateBaseURL(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"AGROTRADE_APP_ENV" required:"true"`
	LogLevel     string `envconfig:"AGROTRADE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AGROTRADE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	BaseURL        string        `envconfig:"AGROTRADE_API_BASE_URL" required:"true"`
	Timeout        time.Duration `envconfig:"AGROTRADE_API_TIMEOUT" default:"30s"`
	RetryAttempts  uint64        `envconfig:"AGROTRADE_API_RETRY_ATTEMPTS" default:"3"`
	RetryBaseDelay time.Duration `envconfig:"AGROTRADE_API_RETRY_BASE_DELAY" default:"250ms"`
	UserAgent      string        `envconfig:"AGROTRADE_API_USER_AGENT" default:"agrotrade-client/1.0"`
}

func (a *APIConfig) validateBaseURL() error {
	parsed, err := url.Parse(a.BaseURL)
	if err != nil {
		return fmt.Errorf("parsing api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("api base url must be http or https, got %q", a.BaseURL)
	}
	a.BaseURL = strings.TrimRight(parsed.String(), "/")
	return nil
}

type CatalogConfig struct {
	DefaultLimit   int           `envconfig:"AGROTRADE_CATALOG_DEFAULT_LIMIT" default:"10"`
	SearchDebounce time.Duration `envconfig:"AGROTRADE_CATALOG_SEARCH_DEBOUNCE" default:"500ms"`
	MaxVisible     int           `envconfig:"AGROTRADE_CATALOG_PAGER_MAX_VISIBLE" default:"5"`
}

type CacheConfig struct {
	Enabled      bool          `envconfig:"AGROTRADE_CACHE_ENABLED" default:"false"`
	URL          string        `envconfig:"AGROTRADE_CACHE_REDIS_URL"`
	Address      string        `envconfig:"AGROTRADE_CACHE_REDIS_ADDR"`
	Password     string        `envconfig:"AGROTRADE_CACHE_REDIS_PASSWORD"`
	DB           int           `envconfig:"AGROTRADE_CACHE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AGROTRADE_CACHE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AGROTRADE_CACHE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AGROTRADE_CACHE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AGROTRADE_CACHE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AGROTRADE_CACHE_REDIS_WRITE_TIMEOUT" default:"5s"`
	PageTTL      time.Duration `envconfig:"AGROTRADE_CACHE_PAGE_TTL" default:"60s"`
}

type SessionConfig struct {
	RefreshLeeway time.Duration `envconfig:"AGROTRADE_SESSION_REFRESH_LEEWAY" default:"30s"`
}

type ChatConfig struct {
	PollInterval time.Duration `envconfig:"AGROTRADE_CHAT_POLL_INTERVAL" default:"15s"`
	PageSize     int           `envconfig:"AGROTRADE_CHAT_PAGE_SIZE" default:"50"`
}

type LocalStoreConfig struct {
	Path string `envconfig:"AGROTRADE_LOCAL_STORE_PATH" default:".agrotrade/state.json"`
}

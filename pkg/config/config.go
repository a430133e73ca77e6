package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	Upstream      UpstreamConfig
	Redis         RedisConfig
	Session       SessionConfig
	AuthRateLimit AuthRateLimitConfig
	Checkout      CheckoutConfig
	Media         MediaConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Upstream.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ARTEMISIA_APP_ENV" required:"true"`
	Port         string `envconfig:"ARTEMISIA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"ARTEMISIA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ARTEMISIA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "development")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type ServiceConfig struct {
	Name string `envconfig:"ARTEMISIA_SERVICE_NAME" default:"storefront"`
}

// UpstreamConfig points at the marketplace REST backend.
type UpstreamConfig struct {
	BaseURL string        `envconfig:"ARTEMISIA_UPSTREAM_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"ARTEMISIA_UPSTREAM_TIMEOUT" default:"10s"`

	BreakerMaxFailures uint32        `envconfig:"ARTEMISIA_UPSTREAM_BREAKER_MAX_FAILURES" default:"5"`
	BreakerOpenTimeout time.Duration `envconfig:"ARTEMISIA_UPSTREAM_BREAKER_OPEN_TIMEOUT" default:"30s"`
	BreakerInterval    time.Duration `envconfig:"ARTEMISIA_UPSTREAM_BREAKER_INTERVAL" default:"1m"`
}

func (u UpstreamConfig) validate() error {
	parsed, err := url.Parse(strings.TrimSpace(u.BaseURL))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvUpstreamBaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) url", EnvUpstreamBaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s is missing a host", EnvUpstreamBaseURL)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"ARTEMISIA_REDIS_URL"`
	Address      string        `envconfig:"ARTEMISIA_REDIS_ADDR"`
	Password     string        `envconfig:"ARTEMISIA_REDIS_PASSWORD"`
	DB           int           `envconfig:"ARTEMISIA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ARTEMISIA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ARTEMISIA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ARTEMISIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ARTEMISIA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ARTEMISIA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionConfig controls how storefront sessions are issued to browsers.
type SessionConfig struct {
	CookieName   string        `envconfig:"ARTEMISIA_SESSION_COOKIE_NAME" default:"artemisia_session"`
	CookieSecure bool          `envconfig:"ARTEMISIA_SESSION_COOKIE_SECURE" default:"true"`
	DefaultTTL   time.Duration `envconfig:"ARTEMISIA_SESSION_DEFAULT_TTL" default:"10h"`
	MaxTTL       time.Duration `envconfig:"ARTEMISIA_SESSION_MAX_TTL" default:"24h"`
}

// TTLFor clamps a token-derived lifetime to the configured bounds.
func (s SessionConfig) TTLFor(tokenTTL time.Duration) time.Duration {
	ttl := tokenTTL
	if ttl <= 0 {
		ttl = s.DefaultTTL
	}
	if s.MaxTTL > 0 && ttl > s.MaxTTL {
		ttl = s.MaxTTL
	}
	return ttl
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"ARTEMISIA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"ARTEMISIA_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"ARTEMISIA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"ARTEMISIA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterIPLimit    int           `envconfig:"ARTEMISIA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// CheckoutConfig carries the defaults sent with every payment transaction.
type CheckoutConfig struct {
	ChargeReason  string        `envconfig:"ARTEMISIA_CHECKOUT_CHARGE_REASON" default:"Compra en Artemisia"`
	Country       string        `envconfig:"ARTEMISIA_CHECKOUT_COUNTRY" default:"BO"`
	Network       string        `envconfig:"ARTEMISIA_CHECKOUT_NETWORK"`
	PaymentWindow time.Duration `envconfig:"ARTEMISIA_CHECKOUT_PAYMENT_WINDOW" default:"10m"`
}

type MediaConfig struct {
	MaxImageMB int `envconfig:"ARTEMISIA_MEDIA_MAX_IMAGE_MB" default:"10"`
}

// MaxImageBytes returns the decoded image size limit.
func (m MediaConfig) MaxImageBytes() int {
	if m.MaxImageMB <= 0 {
		return 10 << 20
	}
	return m.MaxImageMB << 20
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"ARTEMISIA_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	MaxAgeSeconds  int      `envconfig:"ARTEMISIA_CORS_MAX_AGE_SECONDS" default:"300"`
}

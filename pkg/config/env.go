package config

const EnvPrefix = "ARTEMISIA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv           = "ARTEMISIA_APP_ENV"
	EnvPort             = "ARTEMISIA_APP_PORT"
	EnvLogLevel         = "ARTEMISIA_LOG_LEVEL"
	EnvUpstreamBaseURL  = "ARTEMISIA_UPSTREAM_BASE_URL"
	EnvUpstreamTimeout  = "ARTEMISIA_UPSTREAM_TIMEOUT"
	EnvRedisURL         = "ARTEMISIA_REDIS_URL"
	EnvSessionTTL       = "ARTEMISIA_SESSION_DEFAULT_TTL"
	EnvSessionMaxTTL    = "ARTEMISIA_SESSION_MAX_TTL"
	EnvCheckoutCountry  = "ARTEMISIA_CHECKOUT_COUNTRY"
	EnvCheckoutWindow   = "ARTEMISIA_CHECKOUT_PAYMENT_WINDOW"
	EnvCORSOrigins      = "ARTEMISIA_CORS_ALLOWED_ORIGINS"
	EnvMediaMaxImageMB  = "ARTEMISIA_MEDIA_MAX_IMAGE_MB"
	EnvLoginWindow      = "ARTEMISIA_AUTH_RATE_LIMIT_LOGIN_WINDOW"
	EnvCheckoutNetwork  = "ARTEMISIA_CHECKOUT_NETWORK"
	EnvCheckoutReason   = "ARTEMISIA_CHECKOUT_CHARGE_REASON"
	EnvServiceName      = "ARTEMISIA_SERVICE_NAME"
	EnvSessionCookie    = "ARTEMISIA_SESSION_COOKIE_NAME"
	EnvUpstreamFailures = "ARTEMISIA_UPSTREAM_BREAKER_MAX_FAILURES"
)

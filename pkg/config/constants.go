package config

// EnvPrefix is passed to envconfig; individual tags carry the full names.
const EnvPrefix = "AGROTRADE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names, shared with tests and deploy tooling.
const (
	EnvAppEnv     = "AGROTRADE_APP_ENV"
	EnvLogLevel   = "AGROTRADE_LOG_LEVEL"
	EnvAPIBaseURL = "AGROTRADE_API_BASE_URL"
	EnvAPITimeout = "AGROTRADE_API_TIMEOUT"
	EnvCacheOn    = "AGROTRADE_CACHE_ENABLED"
	EnvCacheURL   = "AGROTRADE_CACHE_REDIS_URL"
	EnvLocalPath  = "AGROTRADE_LOCAL_STORE_PATH"
)

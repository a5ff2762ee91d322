package config

type Config interface {
	EnvConfig
	MetaConfig
	CorsConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type CorsConfig interface {
	GetAllowedTenantOrigins() AllowedOrigins
}

type mainConfig struct {
	EnvVars
	Meta
	Cors
	Security
}

func New() Config {
	return mainConfig{}
}

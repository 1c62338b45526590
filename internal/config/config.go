package config

import "time"

type Config interface {
	EnvConfig
	AuthConfig
}

type EnvConfig interface {
	GetAPIBaseURL() string
	GetAppName() string
	GetEnv() string
}

type AuthConfig interface {
	GetCredentialFile() string
	GetHTTPTimeout() time.Duration
	GetVerifyOnBootstrap() bool
}

type mainConfig struct {
	EnvVars
	Auth
}

func New() Config {
	return mainConfig{}
}

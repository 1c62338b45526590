package config

import "os"

const (
	apiBaseURLVar = "API_BASE_URL"
	appNameVar    = "APP_NAME"
	envVar        = "ENV"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, "http://localhost:8080/api")
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "FinovaBank")
}

func (EnvVars) GetEnv() string {
	return GetEnv(envVar, "development")
}

func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

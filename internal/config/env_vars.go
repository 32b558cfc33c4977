package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	portEnvVar = "PORT"
	appNameVar = "APP_NAME"
	appURLVar  = "APP_URL"
	envNameVar = "ENV"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Engine Gateway")
}

// GetAppURL returns the public base URL of the application, used for the
// OAuth redirect URI and for all post-flow browser redirects
func (EnvVars) GetAppURL() string {
	return strings.TrimSuffix(GetEnv(appURLVar, "http://localhost:3000"), "/")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv(envNameVar)
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

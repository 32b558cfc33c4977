package config

import (
	"strings"
	"time"
)

type BackendConfig interface {
	GetBackendBaseURL() string
	GetBackendTimeout() time.Duration
}

type Backend struct{}

var _ BackendConfig = Backend{}

// GetBackendBaseURL returns the base URL of the identity/business backend
// that the proxy and the callback handler forward to
func (Backend) GetBackendBaseURL() string {
	return strings.TrimSuffix(GetEnv("BACKEND_URL", "http://localhost:8000"), "/")
}

func (Backend) GetBackendTimeout() time.Duration {
	return 30 * time.Second
}

package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/spacebio/engine-gateway/internal/config"
)

const (
	testClientID     = "abc123"
	testClientSecret = "shhh"
	testAppURL       = "https://app.example"
)

// testConfig overrides the env-backed config with fixed values so tests
// never depend on the process environment
type testConfig struct {
	config.Config
	clientID   string
	appURL     string
	backendURL string
	stateTTL   time.Duration
}

func newTestConfig() testConfig {
	return testConfig{
		Config:   config.New(),
		clientID: testClientID,
		appURL:   testAppURL,
		stateTTL: 10 * time.Minute,
	}
}

func (c testConfig) GetAllowedOrigins() config.AllowedOrigins {
	return config.AllowedOrigins{testAppURL: struct{}{}}
}

func (c testConfig) GetGitHubClientID() string     { return c.clientID }
func (c testConfig) GetGitHubClientSecret() string { return testClientSecret }
func (c testConfig) GetStateSecret() string        { return "state-signing-secret" }
func (c testConfig) GetStateTTL() time.Duration    { return c.stateTTL }
func (c testConfig) GetAppURL() string             { return c.appURL }
func (c testConfig) GetBackendBaseURL() string     { return c.backendURL }
func (c testConfig) GetEnv() string                { return "TEST" }

func findCookie(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

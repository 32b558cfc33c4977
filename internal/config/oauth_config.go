package config

import "time"

type OAuthConfig interface {
	GetGitHubClientID() string
	GetGitHubClientSecret() string
	GetOAuthScopes() []string
	GetStateSecret() string
	GetStateTTL() time.Duration
	GetSessionMaxAge() time.Duration
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetGitHubClientID() string {
	return GetEnv("GITHUB_CLIENT_ID", "")
}

func (OAuth) GetGitHubClientSecret() string {
	return GetEnv("GITHUB_CLIENT_SECRET", "")
}

func (OAuth) GetOAuthScopes() []string {
	return []string{"user:email"}
}

// GetStateSecret returns the HMAC key used to sign the OAuth state nonce.
// Falls back to the client secret so a single-secret deployment still gets
// signed state values
func (o OAuth) GetStateSecret() string {
	return GetEnv("OAUTH_STATE_SECRET", o.GetGitHubClientSecret())
}

func (OAuth) GetStateTTL() time.Duration {
	return 10 * time.Minute // long enough for the provider round-trip
}

func (OAuth) GetSessionMaxAge() time.Duration {
	return 7 * 24 * time.Hour // matches the backend token expiry
}

// Package identity is the client for the backend identity service, the sole
// authority for minting and validating session tokens. The gateway forwards
// a normalized provider profile and receives an opaque session token back;
// it never inspects the token's contents.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spacebio/engine-gateway/internal/errors"
)

const callbackPath = "/auth/oauth/callback"

// Client posts to the identity service at BaseURL. The field is exported so
// tests can point it at a local server.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Profile is the normalized identity posted to the backend after a
// successful provider exchange
type Profile struct {
	GitHubID    string `json:"github_id"`
	Email       string `json:"email,omitempty"`
	Name        string `json:"name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Username    string `json:"username"`
	AccessToken string `json:"access_token"`
}

// User is the backend's reconciled local user record
type User struct {
	ID        string `json:"id"`
	GitHubID  int64  `json:"github_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
	LastLogin string `json:"last_login"`
}

// Session is a freshly issued session token plus the user it belongs to
type Session struct {
	Token string
	User  User
}

type issueResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// IssueSession exchanges a provider profile for a backend session token.
// Non-2xx responses map to ErrBackendIssuance, a success response without a
// token to ErrNoSessionToken. Single attempt, no retries.
func (c *Client) IssueSession(ctx context.Context, profile Profile) (*Session, error) {
	body, err := json.Marshal(profile)
	if err != nil {
		return nil, errors.Wrapf(err, "identity.IssueSession marshal profile")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+callbackPath, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(err, "identity.IssueSession create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrBackendIssuance, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", errors.ErrBackendIssuance, resp.StatusCode)
	}

	var issued issueResponse
	if err := json.NewDecoder(resp.Body).Decode(&issued); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrBackendIssuance, err)
	}
	if issued.Token == "" {
		return nil, errors.ErrNoSessionToken
	}

	return &Session{Token: issued.Token, User: issued.User}, nil
}

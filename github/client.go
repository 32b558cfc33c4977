// Package github is a minimal client for GitHub's OAuth web-application flow:
// building the authorize URL, redeeming an authorization code, and fetching
// the authenticated user's profile and primary email.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	githubendpoint "golang.org/x/oauth2/github"

	"github.com/spacebio/engine-gateway/internal/errors"
)

const (
	defaultTokenURL   = "https://github.com/login/oauth/access_token"
	defaultAPIBaseURL = "https://api.github.com"
)

// Client talks to GitHub's OAuth and REST endpoints. TokenURL and APIBaseURL
// exist so tests can point the client at a local server; the zero defaults
// are the public GitHub endpoints.
type Client struct {
	clientID     string
	clientSecret string
	redirectURL  string
	scopes       []string

	TokenURL   string
	APIBaseURL string
	HTTPClient *http.Client
}

// Profile holds the identity attributes the gateway forwards to the backend
// identity service. Email is resolved via the emails endpoint when the
// profile does not expose one publicly.
type Profile struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// SubjectID returns the provider subject id as a string, the form the
// backend identity service expects
func (p Profile) SubjectID() string {
	return strconv.FormatInt(p.ID, 10)
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	Scope            string `json:"scope"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type email struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func NewClient(clientID, clientSecret, redirectURL string, scopes []string) *Client {
	if len(scopes) == 0 {
		scopes = []string{"user:email"}
	}
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURL:  redirectURL,
		scopes:       scopes,
		TokenURL:     defaultTokenURL,
		APIBaseURL:   defaultAPIBaseURL,
		HTTPClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthCodeURL builds the provider authorize URL for the given state value
func (c *Client) AuthCodeURL(state string) string {
	conf := oauth2.Config{
		ClientID:    c.clientID,
		RedirectURL: c.redirectURL,
		Scopes:      c.scopes,
		Endpoint:    githubendpoint.Endpoint,
	}
	return conf.AuthCodeURL(state)
}

// Exchange redeems an authorization code for a provider access token.
// A provider-reported error maps to ErrProviderRejected, a success response
// without a token to ErrNoAccessToken.
func (c *Client) Exchange(ctx context.Context, code string) (string, error) {
	data := url.Values{}
	data.Set("client_id", c.clientID)
	data.Set("client_secret", c.clientSecret)
	data.Set("code", code)
	data.Set("redirect_uri", c.redirectURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", errors.Wrapf(err, "github.Exchange create request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "github.Exchange token request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token endpoint returned %d", errors.ErrProviderRejected, resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", errors.Wrapf(err, "github.Exchange decode response")
	}

	// GitHub reports bad codes with a 200 status and an error field
	if token.Error != "" {
		return "", fmt.Errorf("%w: %s", errors.ErrProviderRejected, token.Error)
	}
	if token.AccessToken == "" {
		return "", errors.ErrNoAccessToken
	}

	return token.AccessToken, nil
}

// FetchProfile retrieves the authenticated user's profile. When the profile
// email is not public it falls back to the emails endpoint and selects the
// primary entry.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	client := c.apiClient(ctx, accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIBaseURL+"/user", nil)
	if err != nil {
		return nil, errors.Wrapf(err, "github.FetchProfile create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrIdentityFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: user endpoint returned %d", errors.ErrIdentityFetch, resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrIdentityFetch, err)
	}

	if profile.Email == "" {
		primary, err := c.fetchPrimaryEmail(ctx, client)
		if err != nil {
			return nil, err
		}
		profile.Email = primary
	}

	return &profile, nil
}

func (c *Client) fetchPrimaryEmail(ctx context.Context, client *http.Client) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIBaseURL+"/user/emails", nil)
	if err != nil {
		return "", errors.Wrapf(err, "github.fetchPrimaryEmail create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrIdentityFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: emails endpoint returned %d", errors.ErrIdentityFetch, resp.StatusCode)
	}

	var emails []email
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrIdentityFetch, err)
	}

	for _, e := range emails {
		if e.Primary {
			return e.Email, nil
		}
	}
	if len(emails) > 0 {
		return emails[0].Email, nil
	}
	return "", fmt.Errorf("%w: account has no email addresses", errors.ErrIdentityFetch)
}

// apiClient returns an http.Client whose requests carry the provider access
// token, built on the configured transport so tests keep their overrides
func (c *Client) apiClient(ctx context.Context, accessToken string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.HTTPClient)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
}

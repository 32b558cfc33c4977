package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOAuthLoginRedirectsToProvider(t *testing.T) {
	s := New(newTestConfig())

	req := httptest.NewRequest(http.MethodGet, RouteOAuthLogin, nil)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)

	require.Equal(t, http.StatusFound, rr.Code)

	u, err := url.Parse(rr.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "github.com", u.Host)
	require.Equal(t, "/login/oauth/authorize", u.Path)

	q := u.Query()
	require.Equal(t, testClientID, q.Get("client_id"))
	require.Equal(t, testAppURL+RouteOAuthCallback, q.Get("redirect_uri"))
	require.Equal(t, "user:email", q.Get("scope"))
	require.NotEmpty(t, q.Get("state"))

	// The nonce cookie must travel with the redirect
	state := findCookie(t, rr.Result().Cookies(), stateCookieName)
	require.NotNil(t, state)
	require.NotEmpty(t, state.Value)
	require.True(t, state.HttpOnly)
}

func TestOAuthLoginMissingClientID(t *testing.T) {
	cfg := newTestConfig()
	cfg.clientID = ""
	s := New(cfg)

	req := httptest.NewRequest(http.MethodGet, RouteOAuthLogin, nil)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)

	var payload struct {
		Error string `json:"error"`
		Debug struct {
			GitHubIDSet bool   `json:"github_id_set"`
			AppURL      string `json:"app_url"`
		} `json:"debug"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	require.NotEmpty(t, payload.Error)
	require.False(t, payload.Debug.GitHubIDSet)
	require.Equal(t, testAppURL, payload.Debug.AppURL)

	// A misconfigured initiator must not start a flow
	require.Nil(t, findCookie(t, rr.Result().Cookies(), stateCookieName))
}

package github_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacebio/engine-gateway/github"
	"github.com/spacebio/engine-gateway/internal/errors"
)

func newTestClient(tokenURL, apiBaseURL string) *github.Client {
	c := github.NewClient("client-id", "client-secret", "https://app.example/api/oauth/callback", nil)
	if tokenURL != "" {
		c.TokenURL = tokenURL
	}
	if apiBaseURL != "" {
		c.APIBaseURL = apiBaseURL
	}
	return c
}

func TestAuthCodeURL(t *testing.T) {
	c := newTestClient("", "")

	u, err := url.Parse(c.AuthCodeURL("state-123"))
	require.NoError(t, err)

	require.Equal(t, "https", u.Scheme)
	require.Equal(t, "github.com", u.Host)
	require.Equal(t, "/login/oauth/authorize", u.Path)

	q := u.Query()
	require.Equal(t, "client-id", q.Get("client_id"))
	require.Equal(t, "https://app.example/api/oauth/callback", q.Get("redirect_uri"))
	require.Equal(t, "user:email", q.Get("scope"))
	require.Equal(t, "state-123", q.Get("state"))
}

func TestExchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "client-id", r.PostForm.Get("client_id"))
		require.Equal(t, "client-secret", r.PostForm.Get("client_secret"))
		require.Equal(t, "XYZ", r.PostForm.Get("code"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok","token_type":"bearer","scope":"user:email"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	token, err := c.Exchange(context.Background(), "XYZ")
	require.NoError(t, err)
	require.Equal(t, "tok", token)
}

func TestExchangeProviderError(t *testing.T) {
	// GitHub reports rejected codes with a 200 and an error field
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error":"bad_verification_code","error_description":"The code is incorrect"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	_, err := c.Exchange(context.Background(), "bad")
	require.ErrorIs(t, err, errors.ErrProviderRejected)
}

func TestExchangeMissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token_type":"bearer"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	_, err := c.Exchange(context.Background(), "XYZ")
	require.ErrorIs(t, err, errors.ErrNoAccessToken)
}

func TestExchangeNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	_, err := c.Exchange(context.Background(), "XYZ")
	require.ErrorIs(t, err, errors.ErrProviderRejected)
}

func TestFetchProfilePublicEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":42,"login":"alice","name":"Alice","email":"a@x.com","avatar_url":"https://avatars.example/42"}`))
	}))
	defer srv.Close()

	c := newTestClient("", srv.URL)
	profile, err := c.FetchProfile(context.Background(), "tok")
	require.NoError(t, err)

	require.Equal(t, int64(42), profile.ID)
	require.Equal(t, "42", profile.SubjectID())
	require.Equal(t, "alice", profile.Login)
	require.Equal(t, "a@x.com", profile.Email)
	require.Equal(t, "https://avatars.example/42", profile.AvatarURL)
}

func TestFetchProfilePrimaryEmailFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/user":
			w.Write([]byte(`{"id":42,"login":"alice","name":"Alice","email":""}`))
		case "/user/emails":
			require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			w.Write([]byte(`[{"email":"old@x.com","primary":false,"verified":true},{"email":"a@x.com","primary":true,"verified":true}]`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newTestClient("", srv.URL)
	profile, err := c.FetchProfile(context.Background(), "tok")
	require.NoError(t, err)
	require.Equal(t, "a@x.com", profile.Email)
}

func TestFetchProfileEmailsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":42,"login":"alice"}`))
		case "/user/emails":
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer srv.Close()

	c := newTestClient("", srv.URL)
	_, err := c.FetchProfile(context.Background(), "tok")
	require.ErrorIs(t, err, errors.ErrIdentityFetch)
}

func TestFetchProfileServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient("", srv.URL)
	_, err := c.FetchProfile(context.Background(), "stale")
	require.ErrorIs(t, err, errors.ErrIdentityFetch)
}

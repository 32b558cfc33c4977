package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spacebio/engine-gateway/internal/errors"
)

func stateRequest(state, nonce string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, RouteOAuthCallback+"?state="+url.QueryEscape(state), nil)
	if nonce != "" {
		req.AddCookie(&http.Cookie{Name: stateCookieName, Value: nonce})
	}
	return req
}

func TestStateRoundTrip(t *testing.T) {
	s := New(newTestConfig())

	state, nonce, err := s.mintState()
	require.NoError(t, err)
	require.NotEmpty(t, state)
	require.NotEmpty(t, nonce)

	require.NoError(t, s.verifyState(stateRequest(state, nonce)))
}

func TestStateNonceMismatch(t *testing.T) {
	s := New(newTestConfig())

	state, _, err := s.mintState()
	require.NoError(t, err)

	err = s.verifyState(stateRequest(state, "different-nonce"))
	require.ErrorIs(t, err, errors.ErrInvalidState)
}

func TestStateMissingCookie(t *testing.T) {
	s := New(newTestConfig())

	state, _, err := s.mintState()
	require.NoError(t, err)

	err = s.verifyState(stateRequest(state, ""))
	require.ErrorIs(t, err, errors.ErrInvalidState)
}

func TestStateTampered(t *testing.T) {
	s := New(newTestConfig())

	state, nonce, err := s.mintState()
	require.NoError(t, err)

	err = s.verifyState(stateRequest(state+"x", nonce))
	require.ErrorIs(t, err, errors.ErrInvalidState)
}

func TestStateExpired(t *testing.T) {
	cfg := newTestConfig()
	cfg.stateTTL = -time.Minute
	s := New(cfg)

	state, nonce, err := s.mintState()
	require.NoError(t, err)

	err = s.verifyState(stateRequest(state, nonce))
	require.ErrorIs(t, err, errors.ErrInvalidState)
}

func TestStateMissingParameter(t *testing.T) {
	s := New(newTestConfig())
	err := s.verifyState(stateRequest("", "nonce"))
	require.ErrorIs(t, err, errors.ErrInvalidState)
}

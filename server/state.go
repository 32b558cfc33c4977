package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spacebio/engine-gateway/internal/errors"
)

// CSRF protection for the OAuth flow: the initiator signs a single-use nonce
// into the state parameter and mirrors the nonce into a short-lived httponly
// cookie. The callback accepts the flow only when the signature verifies and
// the nonce matches the cookie, which binds the callback to the browser that
// started the login.

const (
	stateCookieName = "oauth_state"
	stateIssuer     = "engine-gateway"
)

// mintState returns the signed state parameter and the nonce to store in the
// state cookie
func (s *Server) mintState() (state, nonce string, err error) {
	nonce = uuid.NewString()
	now := time.Now()

	claims := jwt.RegisteredClaims{
		ID:        nonce,
		Issuer:    stateIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.GetStateTTL())),
	}

	state, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.config.GetStateSecret()))
	if err != nil {
		return "", "", errors.Wrapf(err, "mintState sign")
	}
	return state, nonce, nil
}

// verifyState checks the state parameter against the nonce cookie set by the
// initiator. Any mismatch, bad signature, or expiry fails the flow.
func (s *Server) verifyState(r *http.Request) error {
	state := r.URL.Query().Get("state")
	if state == "" {
		return fmt.Errorf("%w: missing state parameter", errors.ErrInvalidState)
	}

	cookie, err := r.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" {
		return fmt.Errorf("%w: missing state cookie", errors.ErrInvalidState)
	}

	claims := jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(state, &claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(s.config.GetStateSecret()), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(stateIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidState, err)
	}

	if claims.ID == "" || claims.ID != cookie.Value {
		return fmt.Errorf("%w: nonce mismatch", errors.ErrInvalidState)
	}
	return nil
}

func (s *Server) setStateCookie(w http.ResponseWriter, r *http.Request, nonce string) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    nonce,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.GetStateTTL().Seconds()),
	})
}

func (s *Server) clearStateCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

package server

import (
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/spacebio/engine-gateway/identity"
	"github.com/spacebio/engine-gateway/internal/errors"
)

// OAuthCallbackHandler completes the OAuth flow: code exchange, identity
// fetch, backend session issuance, cookie commit. Every failure is terminal
// for this request and redirects to the landing page with a machine-readable
// reason; retrying means the user starts the flow again from the initiator.
// On success the two session cookies are set in the same redirect response,
// so partial cookie state is never observable.
func (s *Server) OAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		code := r.URL.Query().Get("code")
		if code == "" {
			s.redirectFlowError(w, r, ReasonNoCode)
			return
		}

		if err := s.verifyState(r); err != nil {
			log.Warn().Err(err).Msg("oauth callback state verification failed")
			s.redirectFlowError(w, r, ReasonAuthFailed)
			return
		}
		// The nonce is single-use
		s.clearStateCookie(w, r)

		accessToken, err := s.github.Exchange(ctx, code)
		if err != nil {
			log.Warn().Err(err).Msg("oauth code exchange failed")
			if errors.Is(err, errors.ErrNoAccessToken) {
				s.redirectFlowError(w, r, ReasonNoToken)
				return
			}
			s.redirectFlowError(w, r, ReasonOAuthFailed)
			return
		}

		profile, err := s.github.FetchProfile(ctx, accessToken)
		if err != nil {
			log.Warn().Err(err).Msg("identity fetch failed")
			s.redirectFlowError(w, r, ReasonAuthFailed)
			return
		}

		session, err := s.identity.IssueSession(ctx, identity.Profile{
			GitHubID:    profile.SubjectID(),
			Email:       profile.Email,
			Name:        profile.Name,
			AvatarURL:   profile.AvatarURL,
			Username:    profile.Login,
			AccessToken: accessToken,
		})
		if err != nil {
			log.Error().Err(err).Msg("backend session issuance failed")
			if errors.Is(err, errors.ErrNoSessionToken) {
				s.redirectFlowError(w, r, ReasonNoJWTToken)
				return
			}
			s.redirectFlowError(w, r, ReasonBackendFailed)
			return
		}

		s.SetSessionCookies(w, r, session.Token)
		http.Redirect(w, r, s.config.GetAppURL()+RouteAuthSuccess, http.StatusFound)
	}
}

// redirectFlowError sends the browser back to the landing page with the
// failure reason in the query string. No session cookie is ever set on this
// path.
func (s *Server) redirectFlowError(w http.ResponseWriter, r *http.Request, reason string) {
	target := s.config.GetAppURL() + "/?error=" + url.QueryEscape(reason)
	http.Redirect(w, r, target, http.StatusFound)
}

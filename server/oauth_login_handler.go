package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// OAuthLoginHandler starts the OAuth flow. A missing client id is a
// detectable misconfiguration reported immediately with a diagnostic
// payload, never a silent redirect to the provider.
func (s *Server) OAuthLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.config.GetGitHubClientID() == "" {
			log.Error().Msg("oauth login requested but GITHUB_CLIENT_ID is not set")
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error": "OAuth is not configured",
				"debug": map[string]any{
					"github_id_set": false,
					"app_url":       s.config.GetAppURL(),
				},
			})
			return
		}

		state, nonce, err := s.mintState()
		if err != nil {
			log.Error().Err(err).Msg("failed to mint oauth state")
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error": "Failed to start OAuth flow",
			})
			return
		}

		s.setStateCookie(w, r, nonce)
		http.Redirect(w, r, s.github.AuthCodeURL(state), http.StatusFound)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

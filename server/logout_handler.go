package server

import "net/http"

// LogoutHandler clears both session cookies and sends the browser home.
// The backend's own logout endpoint is a separate, best-effort call made by
// the client through the proxy; clearing local cookie state never depends on
// its outcome.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.ClearSessionCookies(w, r)
		http.Redirect(w, r, s.config.GetAppURL()+"/", http.StatusFound)
	}
}

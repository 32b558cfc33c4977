package server

import "net/http"

const (
	// SessionCookieName holds the opaque backend session token. Httponly:
	// client script must never be able to read it.
	SessionCookieName = "auth_token"
	// IndicatorCookieName is a non-sensitive marker readable by client
	// script for cheap "am I logged in" checks. It carries no trust.
	IndicatorCookieName = "auth_indicator"

	indicatorValue = "1"
)

// SetSessionCookies commits a successful session issuance: both cookies are
// added to the same response so partial cookie state is never observable
func (s *Server) SetSessionCookies(w http.ResponseWriter, r *http.Request, token string) {
	isSecure := getScheme(r) == "https"
	maxAge := int(s.config.GetSessionMaxAge().Seconds())

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     IndicatorCookieName,
		Value:    indicatorValue,
		Path:     "/",
		HttpOnly: false,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// ClearSessionCookies expires both cookies in lockstep
func (s *Server) ClearSessionCookies(w http.ResponseWriter, r *http.Request) {
	isSecure := getScheme(r) == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     IndicatorCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: false,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

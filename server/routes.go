package server

import "net/http"

func (s *Server) initRoutes() {
	// OAuth flow (browser navigations, no CORS concerns)
	s.RegisterRouteFunc("GET "+RouteOAuthLogin, ChainMiddleware(s.OAuthLoginHandler(), s.BaseMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteOAuthCallback, ChainMiddleware(s.OAuthCallbackHandler(), s.BaseMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteOAuthLogout, ChainMiddleware(s.LogoutHandler(), s.BaseMiddleware()...))

	// Authenticated pass-through to the backend (fetch calls from the client)
	s.RegisterRouteFunc("GET "+routeProxyWild, ChainMiddleware(s.ProxyHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+routeProxyWild, ChainMiddleware(s.ProxyHandler(), s.APIMiddleware()...))
	// Preflights terminate in CorsMiddleware; the handler behind it is never
	// reached but the route must exist for the chain to run
	s.RegisterRouteFunc("OPTIONS "+routeProxyWild, ChainMiddleware(noopHandler(), s.APIMiddleware()...))
}

func noopHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
}

package server

// Route path constants
// All gateway routes are defined here to ensure consistency and prevent typos
const (
	// OAuth flow routes
	RouteOAuthLogin    = "/api/oauth/login"
	RouteOAuthCallback = "/api/oauth/callback"
	RouteOAuthLogout   = "/api/oauth/logout"

	// Client-side confirmation route the callback redirects to on success
	RouteAuthSuccess = "/auth/success"

	// Authenticated pass-through to the backend
	RouteProxyPrefix = "/proxy/"
	routeProxyWild   = "/proxy/{path...}"
)

// Failure reasons carried on the landing-page redirect as ?error=<reason>
const (
	ReasonNoCode        = "no_code"
	ReasonOAuthFailed   = "oauth_failed"
	ReasonNoToken       = "no_token"
	ReasonBackendFailed = "backend_failed"
	ReasonNoJWTToken    = "no_jwt_token"
	ReasonAuthFailed    = "auth_failed"
)

package server

import (
	"context"
	"net/http"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// contextKeyRequestContext stores the RequestContext for the current request
const contextKeyRequestContext ContextKey = "request_context"

// RequestContext is the tagged trust state of an inbound request: either
// Authenticated with the opaque session token read from the httponly cookie,
// or Anonymous. The gateway never validates the token; authorization
// decisions belong to the backend.
type RequestContext struct {
	token string
}

func AnonymousContext() RequestContext {
	return RequestContext{}
}

func AuthenticatedContext(token string) RequestContext {
	return RequestContext{token: token}
}

func (rc RequestContext) Authenticated() bool {
	return rc.token != ""
}

// Token returns the opaque session token, empty for anonymous requests
func (rc RequestContext) Token() string {
	return rc.token
}

// WithRequestContext derives the RequestContext from the session cookie and
// attaches it to the request. Requests without a cookie proceed as Anonymous;
// presence of a token is never a precondition here.
func (s *Server) WithRequestContext(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := AnonymousContext()
		if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
			rc = AuthenticatedContext(cookie.Value)
		}
		ctx := context.WithValue(r.Context(), contextKeyRequestContext, rc)
		next(w, r.WithContext(ctx))
	}
}

// RequestContextFrom extracts the RequestContext, defaulting to Anonymous
// when the middleware has not run
func RequestContextFrom(ctx context.Context) RequestContext {
	if rc, ok := ctx.Value(contextKeyRequestContext).(RequestContext); ok {
		return rc
	}
	return AnonymousContext()
}

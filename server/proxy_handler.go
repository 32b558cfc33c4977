package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// Headers never forwarded downstream. Cookie stays on the gateway boundary
// (the token travels as a bearer header instead), any inbound Authorization
// is replaced rather than passed through, and Accept-Encoding is left to the
// transport so it negotiates and transparently decodes compression itself.
var droppedRequestHeaders = map[string]struct{}{
	"Cookie":          {},
	"Authorization":   {},
	"Accept-Encoding": {},
	"Connection":      {},
	"Keep-Alive":      {},
}

// ProxyHandler forwards /proxy/{path...} to the backend, injecting the
// session token as a bearer credential when the request is authenticated.
// It is a pure pass-through: requests without a token are still forwarded
// (the backend decides what requires authentication), response status and
// body come back verbatim, and the only response header stripped is
// Content-Encoding so the browser's fetch layer doesn't double-decode.
func (s *Server) ProxyHandler() http.HandlerFunc {
	client := &http.Client{Timeout: s.config.GetBackendTimeout()}

	return func(w http.ResponseWriter, r *http.Request) {
		target := s.config.GetBackendBaseURL() + "/" + r.PathValue("path")
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}

		req, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
		if err != nil {
			writeProxyError(w, err)
			return
		}

		for name, values := range r.Header {
			if _, dropped := droppedRequestHeaders[http.CanonicalHeaderKey(name)]; dropped {
				continue
			}
			for _, v := range values {
				req.Header.Add(name, v)
			}
		}

		if rc := RequestContextFrom(r.Context()); rc.Authenticated() {
			req.Header.Set("Authorization", "Bearer "+rc.Token())
		}

		resp, err := client.Do(req)
		if err != nil {
			log.Warn().Err(err).Str("target", target).Msg("proxy request failed")
			writeProxyError(w, err)
			return
		}
		defer resp.Body.Close()

		for name, values := range resp.Header {
			canonical := http.CanonicalHeaderKey(name)
			// Content-Length is recomputed by net/http once the encoding is gone
			if canonical == "Content-Encoding" || canonical == "Content-Length" {
				continue
			}
			for _, v := range values {
				w.Header().Add(name, v)
			}
		}
		w.WriteHeader(resp.StatusCode)
		if _, err := io.Copy(w, resp.Body); err != nil {
			log.Warn().Err(err).Str("target", target).Msg("proxy response copy interrupted")
		}
	}
}

// writeProxyError reports a transport-level failure in the fixed envelope
// shape the client expects. Retry policy is the caller's concern.
func writeProxyError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "Proxy failed",
		"details": errDetails(err),
	})
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimSpace(err.Error())
}

// Package sessionstate is the client-side view of "who am I": a small
// per-process cache over the gateway's proxied identity endpoints. It is
// constructed once and handed to consumers explicitly; there is no package
// level singleton.
package sessionstate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"
)

const (
	meEndpoint     = "/proxy/auth/me"
	logoutEndpoint = "/proxy/auth/logout"
	loginRoute     = "/api/oauth/login"
)

// Status is the session cache state. The cache starts Unknown and resolves
// to Authenticated or Anonymous on the first Refresh.
type Status int

const (
	StatusUnknown Status = iota
	StatusAuthenticated
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Profile is the identity record returned by the backend's me endpoint
type Profile struct {
	ID        string `json:"id"`
	GitHubID  int64  `json:"github_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Username  string `json:"username"`
}

// Snapshot is an immutable view of the cache. Profile is nil unless Status
// is StatusAuthenticated.
type Snapshot struct {
	Status  Status
	Profile *Profile
}

// Service caches the current session state and notifies subscribers on every
// transition. Refresh is fail-closed: any error resolves to Anonymous, never
// to a stale Authenticated value.
type Service struct {
	baseURL string
	client  *http.Client

	mu      sync.RWMutex
	snap    Snapshot
	subs    map[int]func(Snapshot)
	nextSub int
}

// New creates a Service with a cookie-jar client so the session cookies set
// by the gateway ride along on every call
func New(gatewayURL string) (*Service, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return NewWithClient(gatewayURL, &http.Client{Jar: jar, Timeout: 15 * time.Second}), nil
}

func NewWithClient(gatewayURL string, client *http.Client) *Service {
	return &Service{
		baseURL: strings.TrimSuffix(gatewayURL, "/"),
		client:  client,
		snap:    Snapshot{Status: StatusUnknown},
		subs:    map[int]func(Snapshot){},
	}
}

// Current returns the cached snapshot without touching the network
func (s *Service) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Subscribe registers fn for every state transition and returns a cancel
// function. fn is invoked after the transition commits.
func (s *Service) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Refresh resolves the session state by calling the identity endpoint
// through the gateway proxy. Reading identity has no side effects; calling
// Refresh twice with the same valid session yields the same profile.
func (s *Service) Refresh(ctx context.Context) Snapshot {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+meEndpoint, nil)
	if err != nil {
		return s.setSnapshot(Snapshot{Status: StatusAnonymous})
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return s.setSnapshot(Snapshot{Status: StatusAnonymous})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return s.setSnapshot(Snapshot{Status: StatusAnonymous})
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return s.setSnapshot(Snapshot{Status: StatusAnonymous})
	}

	return s.setSnapshot(Snapshot{Status: StatusAuthenticated, Profile: &profile})
}

// LoginURL is the gateway route to navigate to for starting a login. The
// flow itself is a browser navigation, not an API call.
func (s *Service) LoginURL() string {
	return s.baseURL + loginRoute
}

// Logout tells the backend to end the session, then drops to Anonymous no
// matter what the call returned. Favouring a responsive local transition
// over strict consistency with the server is deliberate; the returned error
// is informational only.
func (s *Service) Logout(ctx context.Context) error {
	var callErr error

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+logoutEndpoint, nil)
	if err != nil {
		callErr = err
	} else {
		resp, err := s.client.Do(req)
		if err != nil {
			callErr = err
		} else {
			resp.Body.Close()
		}
	}

	s.setSnapshot(Snapshot{Status: StatusAnonymous})
	return callErr
}

func (s *Service) setSnapshot(snap Snapshot) Snapshot {
	s.mu.Lock()
	s.snap = snap
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
	return snap
}

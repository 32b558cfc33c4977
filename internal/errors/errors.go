package errors

import (
	"errors"
	"fmt"
)

// Failure taxonomy for the authentication flow and the proxy. Every error
// here is terminal for the request it occurs in; nothing is retried by the
// gateway itself
var (
	// Configuration errors
	ErrMissingClientID = errors.New("github client id is not configured")

	// Provider exchange errors
	ErrProviderRejected = errors.New("provider rejected the authorization code")
	ErrNoAccessToken    = errors.New("provider response contained no access token")

	// Identity fetch errors
	ErrIdentityFetch = errors.New("failed to fetch identity from provider")

	// Backend issuance errors
	ErrBackendIssuance = errors.New("backend rejected the session issuance request")
	ErrNoSessionToken  = errors.New("backend response contained no session token")

	// State verification errors
	ErrInvalidState = errors.New("invalid or expired oauth state")

	// Proxy errors
	ErrProxyTransport = errors.New("failed to reach downstream service")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

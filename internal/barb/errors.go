package barb

import (
	"errors"
	"fmt"
)

// Sentinel errors for the panel API client.
var (
	// ErrAuthentication covers missing credentials and provider-rejected
	// token exchanges. Fatal: no automatic retry beyond one
	// re-authentication attempt on token refresh.
	ErrAuthentication = errors.New("panel authentication failed")

	// ErrNoCredentials means the client was constructed without an
	// email/password pair.
	ErrNoCredentials = errors.New("panel credentials not configured")
)

// StatusError is a non-2xx response from the panel provider. At the
// pagination layer it is non-fatal (truncates results) unless it occurs on
// the first page of a required fetch.
type StatusError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("panel API error (status %d) on %s: %s", e.StatusCode, e.Endpoint, e.Body)
}

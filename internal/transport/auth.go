package transport

import (
	"net/http"

	"golang.org/x/oauth2"

	"github.com/CC-Digital-Innovation/warranty-sync/pkg/errors"
)

// Authenticator applies credentials to outgoing HTTP requests. Each API in
// a run carries its own authenticator: ServiceNow uses basic auth, Meraki a
// static header key, and Cisco/Dell OAuth2 token sources.
type Authenticator interface {
	Apply(req *http.Request) error
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request) error {
	return nil
}

// BearerAuth implements Bearer token authentication with a static token.
type BearerAuth struct {
	Token string
}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+a.Token)
	return nil
}

// HeaderAuth implements custom header authentication.
type HeaderAuth struct {
	Header string
	Value  string
}

// Apply implements the Authenticator interface for HeaderAuth.
func (a *HeaderAuth) Apply(req *http.Request) error {
	req.Header.Set(a.Header, a.Value)
	return nil
}

// BasicAuth implements HTTP basic authentication.
type BasicAuth struct {
	Username string
	Password string
}

// Apply implements the Authenticator interface for BasicAuth.
func (a *BasicAuth) Apply(req *http.Request) error {
	req.SetBasicAuth(a.Username, a.Password)
	return nil
}

// TokenAuth authenticates requests with tokens from an OAuth2 token source.
// The source caches its token and refreshes it when it expires, so a token
// fetched during session verification serves the whole run.
type TokenAuth struct {
	System string
	Source oauth2.TokenSource
}

// Apply implements the Authenticator interface for TokenAuth.
func (a *TokenAuth) Apply(req *http.Request) error {
	if a.Source == nil {
		return &errors.AuthenticationError{
			System:  a.System,
			Method:  "oauth2",
			Message: "no token source configured",
			Err:     errors.ErrCredentialsRequired,
		}
	}

	token, err := a.Source.Token()
	if err != nil {
		return &errors.AuthenticationError{
			System:  a.System,
			Method:  "oauth2",
			Message: "failed to obtain access token",
			Err:     err,
		}
	}

	token.SetAuthHeader(req)
	return nil
}

package transport

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/CC-Digital-Innovation/warranty-sync/pkg/errors"
)

// ClientCredentials returns a caching token source for an OAuth2
// client-credentials grant against the given token endpoint. Cisco and Dell
// both issue short-lived bearer tokens this way; the source refreshes
// transparently if a token expires mid-run.
func ClientCredentials(ctx context.Context, httpClient *http.Client, clientID, clientSecret, tokenURL string) oauth2.TokenSource {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}
	return cfg.TokenSource(ctx)
}

// VerifyTokenSource eagerly fetches a token so credential problems surface
// during session verification instead of halfway through a pass.
func VerifyTokenSource(system string, source oauth2.TokenSource) error {
	if source == nil {
		return &errors.AuthenticationError{
			System:  system,
			Method:  "oauth2",
			Message: "no token source configured",
			Err:     errors.ErrCredentialsRequired,
		}
	}
	if _, err := source.Token(); err != nil {
		return &errors.AuthenticationError{
			System:  system,
			Method:  "oauth2",
			Message: "token request rejected",
			Err:     err,
		}
	}
	return nil
}

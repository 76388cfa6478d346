// Package cisco provides a client for the Cisco Support API: warranty
// coverage summaries by serial number and end-of-life milestones from the
// EOX endpoint.
package cisco

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"golang.org/x/oauth2"

	"github.com/CC-Digital-Innovation/warranty-sync/internal/transport"
	"github.com/CC-Digital-Innovation/warranty-sync/internal/vendors"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/constants"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/lifecycle"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/logging"
)

const system = "cisco"

var (
	_ vendors.Source   = (*Client)(nil)
	_ vendors.Verifier = (*Client)(nil)
)

// Config holds the Cisco Support API settings. Both endpoints share one
// OAuth2 client-credentials grant.
type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	WarrantyURL  string // coverage summary endpoint, serials appended to the path
	EOXURL       string // EOX by serial number endpoint, serials appended to the path
}

// Client queries the Cisco Support API.
type Client struct {
	transport   *transport.Client
	tokens      oauth2.TokenSource
	warrantyURL string
	eoxURL      string
}

type options struct {
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*options)

// WithHTTPClient replaces the HTTP client used for both API calls and token
// fetches.
func WithHTTPClient(h *http.Client) Option {
	return func(o *options) {
		o.httpClient = h
	}
}

// New creates a Cisco Support API client. The context governs token fetches
// for the lifetime of the client.
func New(ctx context.Context, cfg Config, opts ...Option) *Client {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	tokens := transport.ClientCredentials(ctx, o.httpClient, cfg.ClientID, cfg.ClientSecret, cfg.TokenURL)
	return &Client{
		transport:   transport.New(system, &transport.TokenAuth{System: system, Source: tokens}, transport.WithHTTPClient(o.httpClient)),
		tokens:      tokens,
		warrantyURL: strings.TrimRight(cfg.WarrantyURL, "/"),
		eoxURL:      strings.TrimRight(cfg.EOXURL, "/"),
	}
}

// Manufacturer identifies the CMDB pass this source serves.
func (c *Client) Manufacturer() lifecycle.Manufacturer {
	return lifecycle.Cisco
}

// Verify fetches a token eagerly so credential problems surface before any
// records are processed.
func (c *Client) Verify(ctx context.Context) error {
	return transport.VerifyTokenSource(system, c.tokens)
}

// Lookup fetches coverage and EOX records for the given serials. A failed
// coverage batch is logged and skipped so its serials stay unmatched until
// the next run; when every batch fails the API is down and the error is
// returned. EOX enriches coverage data, so EOX failures never fail the
// lookup.
func (c *Client) Lookup(ctx context.Context, serials []string) ([]lifecycle.Record, error) {
	if len(serials) == 0 {
		return nil, nil
	}

	var records []lifecycle.Record
	var lastErr error
	succeeded := false
	for batch := range slices.Chunk(serials, constants.CiscoCoverageBatchSize) {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		recs, err := c.lookupCoverage(ctx, batch)
		if err != nil {
			lastErr = err
			logging.Ctx(ctx).Error().Err(err).
				Str("vendor", system).
				Int("batch_size", len(batch)).
				Msg("Skipping coverage batch")
			continue
		}
		succeeded = true
		records = append(records, recs...)
	}
	if !succeeded {
		return nil, lastErr
	}

	eox, err := c.LookupEOX(ctx, serials)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("vendor", system).
			Msg("Proceeding without end-of-life data")
		return records, nil
	}
	return append(records, eox...), nil
}

// LookupEOX fetches end-of-life milestones for the given serials. Exposed
// separately because Meraki hardware resolves its EOL dates through the same
// endpoint. Failed batches are logged and skipped; an error comes back only
// when no batch succeeds.
func (c *Client) LookupEOX(ctx context.Context, serials []string) ([]lifecycle.Record, error) {
	if len(serials) == 0 {
		return nil, nil
	}

	var records []lifecycle.Record
	var lastErr error
	succeeded := false
	for batch := range slices.Chunk(serials, constants.CiscoEOXBatchSize) {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		recs, err := c.lookupEOXBatch(ctx, batch)
		if err != nil {
			lastErr = err
			logging.Ctx(ctx).Error().Err(err).
				Str("vendor", system).
				Int("batch_size", len(batch)).
				Msg("Skipping EOX batch")
			continue
		}
		succeeded = true
		records = append(records, recs...)
	}
	if !succeeded {
		return nil, lastErr
	}
	return records, nil
}

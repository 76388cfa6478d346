// Package dell provides a client for the Dell TechDirect asset-entitlements
// API, which reports warranty line items by service tag.
package dell

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"golang.org/x/oauth2"

	"github.com/CC-Digital-Innovation/warranty-sync/internal/transport"
	"github.com/CC-Digital-Innovation/warranty-sync/internal/utils/ptr"
	"github.com/CC-Digital-Innovation/warranty-sync/internal/vendors"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/constants"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/lifecycle"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/logging"
)

const system = "dell"

var (
	_ vendors.Source   = (*Client)(nil)
	_ vendors.Verifier = (*Client)(nil)
)

// Config holds the Dell TechDirect API settings.
type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	WarrantyURL  string // asset-entitlements endpoint
}

// Client queries the Dell TechDirect API.
type Client struct {
	transport   *transport.Client
	tokens      oauth2.TokenSource
	warrantyURL string
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

// New creates a Dell TechDirect client. The context governs token fetches
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
	}
}

// Manufacturer identifies the CMDB pass this source serves.
func (c *Client) Manufacturer() lifecycle.Manufacturer {
	return lifecycle.Dell
}

// Verify fetches a token eagerly so credential problems surface before any
// records are processed.
func (c *Client) Verify(ctx context.Context) error {
	return transport.VerifyTokenSource(system, c.tokens)
}

// assetEntitlements is one service tag's entry in the response array.
type assetEntitlements struct {
	ServiceTag        string        `json:"serviceTag"`
	ProductLineDesc   string        `json:"productLineDescription"`
	SystemDescription string        `json:"systemDescription"`
	ShipDate          string        `json:"shipDate"`
	CountryCode       string        `json:"countryCode"`
	Duplicated        bool          `json:"duplicated"`
	Invalid           bool          `json:"invalid"`
	Entitlements      []entitlement `json:"entitlements"`
}

type entitlement struct {
	ItemNumber              string `json:"itemNumber"`
	StartDate               string `json:"startDate"`
	EndDate                 string `json:"endDate"`
	EntitlementType         string `json:"entitlementType"`
	ServiceLevelCode        string `json:"serviceLevelCode"`
	ServiceLevelDescription string `json:"serviceLevelDescription"`
}

// Lookup fetches entitlements for the given service tags. A failed batch is
// logged and skipped so its serials stay unmatched until the next run; when
// every batch fails the API is down and the error is returned.
func (c *Client) Lookup(ctx context.Context, serials []string) ([]lifecycle.Record, error) {
	if len(serials) == 0 {
		return nil, nil
	}

	var records []lifecycle.Record
	var lastErr error
	succeeded := false
	for batch := range slices.Chunk(serials, constants.DellBatchSize) {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		url := c.warrantyURL + "?servicetags=" + strings.Join(batch, ",")
		var assets []assetEntitlements
		if err := c.transport.GetJSON(ctx, url, &assets); err != nil {
			lastErr = err
			logging.Ctx(ctx).Error().Err(err).
				Str("vendor", system).
				Int("batch_size", len(batch)).
				Msg("Skipping entitlements batch")
			continue
		}
		succeeded = true

		for _, asset := range assets {
			records = append(records, normalizeAsset(ctx, asset)...)
		}
	}
	if !succeeded {
		return nil, lastErr
	}
	return records, nil
}

// normalizeAsset converts one service tag's entitlements to lifecycle
// records. Valid assets yield one record per entitlement line item so the
// longest-running entitlement governs; invalid tags and tags with no
// entitlements yield a single uncovered record, which drives the
// valid-warranty-data and active-contract flags off.
func normalizeAsset(ctx context.Context, asset assetEntitlements) []lifecycle.Record {
	if asset.Invalid || len(asset.Entitlements) == 0 {
		return []lifecycle.Record{{
			Serial:       asset.ServiceTag,
			Manufacturer: lifecycle.Dell,
			Covered:      ptr.Bool(false),
		}}
	}

	records := make([]lifecycle.Record, 0, len(asset.Entitlements))
	for _, ent := range asset.Entitlements {
		records = append(records, lifecycle.Record{
			Serial:        asset.ServiceTag,
			Manufacturer:  lifecycle.Dell,
			Covered:       ptr.Bool(true),
			ServiceLevel:  ent.ServiceLevelDescription,
			WarrantyStart: vendors.ParseDate(ctx, system, asset.ServiceTag, "startDate", ent.StartDate),
			WarrantyEnd:   vendors.ParseDate(ctx, system, asset.ServiceTag, "endDate", ent.EndDate),
		})
	}
	return records
}

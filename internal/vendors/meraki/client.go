// Package meraki provides a client for the Cisco Meraki Dashboard API. The
// dashboard reports license assignment per device serial; end-of-life
// milestones for Meraki hardware come from the Cisco EOX endpoint, so the
// client optionally merges records from an EOX lookup delegate.
package meraki

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/CC-Digital-Innovation/warranty-sync/internal/transport"
	"github.com/CC-Digital-Innovation/warranty-sync/internal/utils/ptr"
	"github.com/CC-Digital-Innovation/warranty-sync/internal/vendors"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/constants"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/errors"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/lifecycle"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/logging"
)

const (
	system       = "meraki"
	apiKeyHeader = "X-Cisco-Meraki-API-Key"
)

var (
	_ vendors.Source   = (*Client)(nil)
	_ vendors.Verifier = (*Client)(nil)
)

// EOXLookup resolves Cisco EOX milestones for Meraki serials.
type EOXLookup interface {
	LookupEOX(ctx context.Context, serials []string) ([]lifecycle.Record, error)
}

// Config holds the Meraki Dashboard API settings.
type Config struct {
	APIKey  string
	BaseURL string // e.g. https://api.meraki.com/api/v1
	OrgID   string
}

// Client queries one Meraki organization's licenses.
type Client struct {
	transport *transport.Client
	baseURL   string
	orgID     string
	eox       EOXLookup
}

type options struct {
	httpClient *http.Client
	eox        EOXLookup
}

// Option configures a Client.
type Option func(*options)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(o *options) {
		o.httpClient = h
	}
}

// WithEOXLookup merges end-of-life records from the given delegate into
// every lookup.
func WithEOXLookup(eox EOXLookup) Option {
	return func(o *options) {
		o.eox = eox
	}
}

// New creates a Meraki Dashboard client for one organization.
func New(cfg Config, opts ...Option) *Client {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	auth := &transport.HeaderAuth{Header: apiKeyHeader, Value: cfg.APIKey}
	return &Client{
		transport: transport.New(system, auth, transport.WithHTTPClient(o.httpClient)),
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		orgID:     cfg.OrgID,
		eox:       o.eox,
	}
}

// Manufacturer identifies the CMDB pass this source serves.
func (c *Client) Manufacturer() lifecycle.Manufacturer {
	return lifecycle.Meraki
}

// Verify probes the dashboard with the organizations list, the cheapest call
// that exercises the API key.
func (c *Client) Verify(ctx context.Context) error {
	if err := c.transport.GetJSON(ctx, c.baseURL+"/organizations", nil); err != nil {
		if errors.IsCredentialsError(err) {
			return &errors.AuthenticationError{
				System:  system,
				Method:  "api_key",
				Message: "API key rejected",
				Err:     err,
			}
		}
		return err
	}
	return nil
}

// license is one entry from the organization licenses endpoint.
type license struct {
	ID             string `json:"id"`
	LicenseType    string `json:"licenseType"`
	LicenseKey     string `json:"licenseKey"`
	DeviceSerial   string `json:"deviceSerial"`
	NetworkID      string `json:"networkId"`
	State          string `json:"state"`
	ClaimDate      string `json:"claimDate"`
	ActivationDate string `json:"activationDate"`
	ExpirationDate string `json:"expirationDate"`
}

// Lookup returns license records for the given serials, plus EOX records
// when a delegate is configured. The dashboard lists the whole organization,
// so licenses for devices outside the requested set are dropped. EOX
// enriches license data, so EOX failures never fail the lookup.
func (c *Client) Lookup(ctx context.Context, serials []string) ([]lifecycle.Record, error) {
	if len(serials) == 0 {
		return nil, nil
	}

	wanted := make(map[string]bool, len(serials))
	for _, s := range serials {
		if k := lifecycle.Key(s); k != "" {
			wanted[k] = true
		}
	}

	licenses, err := c.licenses(ctx)
	if err != nil {
		return nil, err
	}

	var records []lifecycle.Record
	for _, lic := range licenses {
		if lic.DeviceSerial == "" || !wanted[lifecycle.Key(lic.DeviceSerial)] {
			continue
		}
		records = append(records, normalizeLicense(ctx, lic))
	}
	logging.Ctx(ctx).Debug().
		Str("vendor", system).
		Int("licenses", len(licenses)).
		Int("matched", len(records)).
		Msg("Matched organization licenses")

	if c.eox != nil {
		eoxRecords, err := c.eox.LookupEOX(ctx, serials)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).
				Str("vendor", system).
				Msg("Proceeding without end-of-life data")
			return records, nil
		}
		for _, rec := range eoxRecords {
			rec.Manufacturer = lifecycle.Meraki
			records = append(records, rec)
		}
	}
	return records, nil
}

// licenses walks the organization licenses endpoint page by page, following
// the Link header until no rel=next remains.
func (c *Client) licenses(ctx context.Context) ([]license, error) {
	url := fmt.Sprintf("%s/organizations/%s/licenses?perPage=%d", c.baseURL, c.orgID, constants.MerakiPageSize)

	var all []license
	for url != "" {
		resp, err := c.transport.Get(ctx, url)
		if err != nil {
			return nil, err
		}
		next := nextPageURL(resp.Header.Get("Link"))

		var page []license
		if err := transport.DecodeResponse(system, resp, &page); err != nil {
			return nil, err
		}
		all = append(all, page...)
		url = next
	}
	return all, nil
}

// nextPageURL extracts the rel=next target from a Link header, if any.
func nextPageURL(header string) string {
	for _, part := range strings.Split(header, ",") {
		segs := strings.Split(part, ";")
		if len(segs) < 2 {
			continue
		}
		target := strings.Trim(strings.TrimSpace(segs[0]), "<>")
		for _, param := range segs[1:] {
			switch strings.TrimSpace(param) {
			case "rel=next", `rel="next"`:
				return target
			}
		}
	}
	return ""
}

// normalizeLicense converts one license to a lifecycle record. An active
// license is the Meraki equivalent of an active support contract; its
// expiration drives the warranty end.
func normalizeLicense(ctx context.Context, lic license) lifecycle.Record {
	return lifecycle.Record{
		Serial:        lic.DeviceSerial,
		Manufacturer:  lifecycle.Meraki,
		Covered:       ptr.Bool(lic.State == "active"),
		ServiceLevel:  lic.LicenseType,
		WarrantyStart: vendors.ParseDate(ctx, system, lic.DeviceSerial, "activationDate", cleanDate(lic.ActivationDate)),
		WarrantyEnd:   vendors.ParseDate(ctx, system, lic.DeviceSerial, "expirationDate", cleanDate(lic.ExpirationDate)),
	}
}

// cleanDate blanks the dashboard's "N/A" placeholder so it reads as no data
// rather than a parse failure.
func cleanDate(v string) string {
	if v == "N/A" {
		return ""
	}
	return v
}

// Package warrantysync keeps hardware warranty and end-of-life data in a
// ServiceNow CMDB in step with what Cisco, Meraki, and Dell report for the
// same devices.
//
// A run makes one pass per manufacturer: read the active hardware records
// from the CI table, screen out records whose serials no vendor API would
// accept, look the survivors up against the vendor, and patch back only the
// fields whose values actually changed. Runs are idempotent; a run against an
// already-synced table writes nothing.
//
// The package is driven by cmd/warranty-sync in production, where a scheduler
// invokes it on a cadence. Library callers construct an Updater with New and
// call Run.
package warrantysync

import (
	"context"
	"crypto/tls"
	"net/http"

	"github.com/CC-Digital-Innovation/warranty-sync/internal/snow"
	"github.com/CC-Digital-Innovation/warranty-sync/internal/vendors"
	"github.com/CC-Digital-Innovation/warranty-sync/internal/vendors/cisco"
	"github.com/CC-Digital-Innovation/warranty-sync/internal/vendors/dell"
	"github.com/CC-Digital-Innovation/warranty-sync/internal/vendors/meraki"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/constants"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/lifecycle"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/logging"
)

// Updater runs warranty and lifecycle synchronization against the CMDB.
type Updater interface {
	// Run executes one full sync: verify every API session, then one pass
	// per manufacturer. A non-nil error means the run could not start or
	// the CMDB itself failed; the Result, when non-nil, carries whatever
	// passes completed. Vendor outages and single-record write failures are
	// recorded on the Result, not returned.
	Run(ctx context.Context, opts ...RunOption) (*Result, error)
}

// updater is the internal implementation of the Updater interface.
type updater struct {
	cfg    Config
	snow   *snow.Client
	passes []pass
}

// Compile-time interface check to ensure proper implementation.
var _ Updater = (*updater)(nil)

// pass binds one manufacturer to its vendor source and CMDB filter.
type pass struct {
	manufacturer lifecycle.Manufacturer
	source       vendors.Source
	query        *snow.Query
}

// New wires the ServiceNow and vendor clients from cfg and returns an Updater
// ready to run. The context scopes the OAuth2 token sources built for Cisco
// and Dell; use the same context the run will use.
func New(ctx context.Context, cfg Config, opts ...Option) (Updater, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil && cfg.InsecureSkipTLSVerify {
		logging.Warn().Msg("TLS certificate verification disabled for all outbound connections")
		httpClient = &http.Client{
			Timeout: constants.DefaultHTTPTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		}
	}

	snowClient := snow.New(
		cfg.ServiceNow.Instance,
		cfg.ServiceNow.Username,
		cfg.ServiceNow.Password,
		cfg.ServiceNow.TablePath,
		snow.WithHTTPClient(httpClient),
	)

	ciscoClient := cisco.New(ctx, cisco.Config{
		ClientID:     cfg.Cisco.ClientID,
		ClientSecret: cfg.Cisco.ClientSecret,
		TokenURL:     cfg.Cisco.TokenURL,
		WarrantyURL:  cfg.Cisco.WarrantyURL,
		EOXURL:       cfg.Cisco.EOXURL,
	}, cisco.WithHTTPClient(httpClient))

	// Meraki EOL milestones come from the Cisco EOX endpoint, so the Meraki
	// client shares the Cisco session for that part of its lookups.
	merakiClient := meraki.New(meraki.Config{
		APIKey:  cfg.Meraki.APIKey,
		BaseURL: cfg.Meraki.BaseURL,
		OrgID:   cfg.Meraki.OrgID,
	}, meraki.WithHTTPClient(httpClient), meraki.WithEOXLookup(ciscoClient))

	dellClient := dell.New(ctx, dell.Config{
		ClientID:     cfg.Dell.ClientID,
		ClientSecret: cfg.Dell.ClientSecret,
		TokenURL:     cfg.Dell.TokenURL,
		WarrantyURL:  cfg.Dell.WarrantyURL,
	}, dell.WithHTTPClient(httpClient))

	return &updater{
		cfg:  cfg,
		snow: snowClient,
		passes: []pass{
			{manufacturer: lifecycle.Cisco, source: ciscoClient, query: assetQuery(lifecycle.Cisco)},
			{manufacturer: lifecycle.Meraki, source: merakiClient, query: assetQuery(lifecycle.Meraki)},
			{manufacturer: lifecycle.Dell, source: dellClient, query: assetQuery(lifecycle.Dell)},
		},
	}, nil
}

// assetQuery returns the CI table filter for one manufacturer pass. Meraki
// hardware carries "Cisco Meraki" in the manufacturer field, so the Cisco
// pass excludes it explicitly or both passes would process the same devices.
func assetQuery(m lifecycle.Manufacturer) *snow.Query {
	q := snow.NewQuery().
		OrderByAsc(snow.FieldName).
		Equals(snow.FieldActiveContractFlag, "true")

	switch m {
	case lifecycle.Cisco:
		q.Contains(snow.FieldManufacturer, "Cisco").NotContains(snow.FieldManufacturer, "Meraki")
	case lifecycle.Meraki:
		q.Contains(snow.FieldManufacturer, "Meraki")
	case lifecycle.Dell:
		q.Contains(snow.FieldManufacturer, "Dell")
	}
	return q
}

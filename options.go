package warrantysync

import (
	"net/http"
	"slices"

	"github.com/CC-Digital-Innovation/warranty-sync/pkg/lifecycle"
)

// Option configures an Updater at construction time.
type Option func(*options)

type options struct {
	httpClient *http.Client
}

// WithHTTPClient sets the HTTP client shared by the ServiceNow and vendor
// transports. Production callers can supply a client with custom proxy or
// TLS settings; tests point it at local servers.
func WithHTTPClient(h *http.Client) Option {
	return func(o *options) {
		o.httpClient = h
	}
}

// RunOption adjusts a single run.
type RunOption func(*runOptions)

type runOptions struct {
	dryRun        bool
	manufacturers []lifecycle.Manufacturer
}

func newRunOptions(opts ...RunOption) runOptions {
	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDryRun computes and logs diffs without writing anything back.
func WithDryRun(enabled bool) RunOption {
	return func(o *runOptions) {
		o.dryRun = enabled
	}
}

// WithManufacturers limits the run to the given manufacturers. Passing none
// keeps the default: every manufacturer, in standard pass order.
func WithManufacturers(ms ...lifecycle.Manufacturer) RunOption {
	return func(o *runOptions) {
		o.manufacturers = ms
	}
}

// wants reports whether the run covers the given manufacturer.
func (o *runOptions) wants(m lifecycle.Manufacturer) bool {
	return len(o.manufacturers) == 0 || slices.Contains(o.manufacturers, m)
}

// Package vendors defines the lookup contract shared by the manufacturer
// lifecycle APIs (Cisco Support, Cisco Meraki, Dell TechDirect) and the
// helpers their response normalizers have in common.
package vendors

import (
	"context"
	"strings"

	"github.com/CC-Digital-Innovation/warranty-sync/pkg/lifecycle"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/logging"
)

// Source is one manufacturer's warranty/EOL API. Lookup takes cleaned serial
// numbers and returns normalized records in response order; serials the
// vendor does not recognize are simply absent. Implementations batch
// requests internally and skip failed batches, so a partial result with a
// nil error is normal. Errors are reserved for failures that invalidate the
// whole lookup, such as a rejected token.
type Source interface {
	// Manufacturer identifies which CMDB pass this source serves.
	Manufacturer() lifecycle.Manufacturer

	// Lookup fetches lifecycle records for the given serials.
	Lookup(ctx context.Context, serials []string) ([]lifecycle.Record, error)
}

// Verifier is implemented by sources that can probe their session before a
// run starts processing records.
type Verifier interface {
	Verify(ctx context.Context) error
}

// ParseDate converts a vendor date string to a canonical date. Empty values
// are normal (no data) and return nil silently; present but unparseable
// values log a warning and return nil so one bad field never fails a record.
func ParseDate(ctx context.Context, vendor, serial, field, value string) *lifecycle.Date {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	d, err := lifecycle.ParseDate(value)
	if err != nil {
		logging.Ctx(ctx).Warn().
			Str("vendor", vendor).
			Str("serial", serial).
			Str("field", field).
			Str("value", value).
			Msg("Skipping unparseable vendor date")
		return nil
	}
	return d.Ptr()
}

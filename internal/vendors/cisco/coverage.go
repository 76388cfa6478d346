package cisco

import (
	"context"
	"strings"

	"github.com/CC-Digital-Innovation/warranty-sync/internal/utils/ptr"
	"github.com/CC-Digital-Innovation/warranty-sync/internal/vendors"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/lifecycle"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/logging"
)

// Response structures for the coverage summary endpoint.
type coverageResponse struct {
	SerialNumbers []coverageEntry `json:"serial_numbers"`
}

type coverageEntry struct {
	SerialNumber     string         `json:"sr_no"`
	IsCovered        string         `json:"is_covered"`
	CoverageEndDate  string         `json:"coverage_end_date"`
	WarrantyEndDate  string         `json:"warranty_end_date"`
	WarrantyType     string         `json:"warranty_type"`
	ServiceLineDescr string         `json:"service_line_descr"`
	ErrorResponse    *errorResponse `json:"ErrorResponse,omitempty"`
}

type errorResponse struct {
	APIError apiError `json:"APIError"`
}

type apiError struct {
	ErrorCode        string `json:"ErrorCode"`
	ErrorDescription string `json:"ErrorDescription"`
	SuggestedAction  string `json:"SuggestedAction"`
}

// lookupCoverage fetches one batch of coverage summaries. Serials ride in
// the URL path, comma-joined.
func (c *Client) lookupCoverage(ctx context.Context, batch []string) ([]lifecycle.Record, error) {
	url := c.warrantyURL + "/" + strings.Join(batch, ",")

	var resp coverageResponse
	if err := c.transport.GetJSON(ctx, url, &resp); err != nil {
		return nil, err
	}

	records := make([]lifecycle.Record, 0, len(resp.SerialNumbers))
	for _, entry := range resp.SerialNumbers {
		if entry.ErrorResponse != nil {
			logging.Ctx(ctx).Warn().
				Str("vendor", system).
				Str("serial", entry.SerialNumber).
				Str("reason", entry.ErrorResponse.APIError.ErrorDescription).
				Msg("Coverage lookup failed for serial")
			continue
		}
		records = append(records, normalizeCoverage(ctx, entry))
	}
	return records, nil
}

// normalizeCoverage converts one coverage entry to a lifecycle record.
// is_covered reports the support contract state; warranty_end_date is empty
// for devices with no warranty on file.
func normalizeCoverage(ctx context.Context, entry coverageEntry) lifecycle.Record {
	return lifecycle.Record{
		Serial:       entry.SerialNumber,
		Manufacturer: lifecycle.Cisco,
		Covered:      ptr.Bool(entry.IsCovered == "YES"),
		ServiceLevel: entry.ServiceLineDescr,
		WarrantyEnd:  vendors.ParseDate(ctx, system, entry.SerialNumber, "warranty_end_date", entry.WarrantyEndDate),
	}
}

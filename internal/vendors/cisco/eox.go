package cisco

import (
	"context"
	"strings"

	"github.com/CC-Digital-Innovation/warranty-sync/internal/vendors"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/lifecycle"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/logging"
)

// Response structures for the EOX endpoint.
type eoxResponse struct {
	// EOXRecords is nil (key absent) when the API rejects the whole batch,
	// which it does for some malformed serial inputs.
	EOXRecords []eoxRecord `json:"EOXRecord"`
}

type eoxRecord struct {
	EOLProductID                string    `json:"EOLProductID"`
	ProductIDDescription        string    `json:"ProductIDDescription"`
	EOXExternalAnnouncementDate eoxDate   `json:"EOXExternalAnnouncementDate"`
	EndOfSaleDate               eoxDate   `json:"EndOfSaleDate"`
	EndOfSWMaintenanceReleases  eoxDate   `json:"EndOfSWMaintenanceReleases"`
	LastDateOfSupport           eoxDate   `json:"LastDateOfSupport"`
	EOXInputType                string    `json:"EOXInputType"`
	EOXInputValue               string    `json:"EOXInputValue"`
	EOXError                    *eoxError `json:"EOXError,omitempty"`
}

type eoxDate struct {
	Value      string `json:"value"`
	DateFormat string `json:"dateFormat"`
}

type eoxError struct {
	ErrorID          string `json:"ErrorID"`
	ErrorDescription string `json:"ErrorDescription"`
	ErrorDataType    string `json:"ErrorDataType"`
	ErrorDataValue   string `json:"ErrorDataValue"`
}

// lookupEOXBatch fetches one batch of EOX records. Serials ride in the URL
// path, comma-joined; responseencoding selects JSON over the endpoint's XML
// default.
func (c *Client) lookupEOXBatch(ctx context.Context, batch []string) ([]lifecycle.Record, error) {
	url := c.eoxURL + "/" + strings.Join(batch, ",") + "?responseencoding=json"

	var resp eoxResponse
	if err := c.transport.GetJSON(ctx, url, &resp); err != nil {
		return nil, err
	}

	// A response without the record list is the API's whole-batch rejection
	// shape, usually caused by an erroneous serial number.
	if resp.EOXRecords == nil {
		logging.Ctx(ctx).Error().
			Str("vendor", system).
			Int("batch_size", len(batch)).
			Msg("EOX response carried no records for batch")
		return nil, nil
	}

	var records []lifecycle.Record
	for _, rec := range resp.EOXRecords {
		records = append(records, normalizeEOX(ctx, rec)...)
	}
	return records, nil
}

// normalizeEOX converts one EOX record to lifecycle records. A single EOX
// record answers for every serial listed in its comma-joined EOXInputValue,
// so the milestone dates fan out.
func normalizeEOX(ctx context.Context, rec eoxRecord) []lifecycle.Record {
	if rec.EOXError != nil {
		logging.Ctx(ctx).Warn().
			Str("vendor", system).
			Str("input", rec.EOXInputValue).
			Str("reason", rec.EOXError.ErrorDescription).
			Msg("EOX lookup failed for input")
		return nil
	}

	var records []lifecycle.Record
	for _, serial := range strings.Split(rec.EOXInputValue, ",") {
		serial = strings.TrimSpace(serial)
		if serial == "" {
			continue
		}
		records = append(records, lifecycle.Record{
			Serial:           serial,
			Manufacturer:     lifecycle.Cisco,
			EOLAnnounced:     vendors.ParseDate(ctx, system, serial, "EOXExternalAnnouncementDate", rec.EOXExternalAnnouncementDate.Value),
			EndOfSale:        vendors.ParseDate(ctx, system, serial, "EndOfSaleDate", rec.EndOfSaleDate.Value),
			EndOfSupport:     vendors.ParseDate(ctx, system, serial, "EndOfSWMaintenanceReleases", rec.EndOfSWMaintenanceReleases.Value),
			LastDayOfSupport: vendors.ParseDate(ctx, system, serial, "LastDateOfSupport", rec.LastDateOfSupport.Value),
		})
	}
	return records
}

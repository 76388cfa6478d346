package reconcile

import (
	"context"
	"strconv"
	"strings"

	"github.com/CC-Digital-Innovation/warranty-sync/internal/snow"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/lifecycle"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/logging"
)

// Screen drops assets that cannot be matched against a vendor API: blank or
// placeholder serials, serials with no usable characters, and duplicates
// (first occurrence kept). Survivors keep their input order. Every skip is
// logged with the asset name so operators can fix the CMDB record.
func Screen(ctx context.Context, assets []snow.Asset) []snow.Asset {
	survivors := make([]snow.Asset, 0, len(assets))
	seen := make(map[string]string, len(assets))

	for _, asset := range assets {
		if err := lifecycle.ValidateSerial(asset.SerialNumber); err != nil {
			logging.Ctx(ctx).Warn().
				Str("name", asset.Name).
				Str("serial", asset.SerialNumber).
				Err(err).
				Msg("Skipping asset with unusable serial")
			continue
		}

		key := lifecycle.Key(asset.SerialNumber)
		if first, dup := seen[key]; dup {
			logging.Ctx(ctx).Warn().
				Str("name", asset.Name).
				Str("serial", asset.SerialNumber).
				Str("first_seen", first).
				Msg("Skipping asset with duplicate serial")
			continue
		}
		seen[key] = asset.Name

		survivors = append(survivors, asset)
	}
	return survivors
}

// Serials returns the cleaned serials of the given assets, in order. Screen
// guarantees uniqueness; cleaning strips whitespace and separator junk so
// the vendor APIs receive usable values.
func Serials(assets []snow.Asset) []string {
	serials := make([]string, 0, len(assets))
	for _, asset := range assets {
		serials = append(serials, lifecycle.CleanSerial(asset.SerialNumber))
	}
	return serials
}

// Diffs joins assets to vendor records by serial key and returns one patch
// per asset that needs updating. Assets with no vendor match produce no
// patch and no error; assets missing a sys_id are logged and skipped.
func Diffs(ctx context.Context, assets []snow.Asset, set *lifecycle.Set) []Patch {
	var patches []Patch
	for _, asset := range assets {
		rec, ok := set.Get(asset.SerialNumber)
		if !ok {
			continue
		}

		if asset.SysID == "" {
			logging.Ctx(ctx).Warn().
				Str("name", asset.Name).
				Str("serial", asset.SerialNumber).
				Msg("Skipping matched asset without sys_id")
			continue
		}

		if patch := diff(asset, rec); !patch.IsEmpty() {
			patches = append(patches, patch)
		}
	}
	return patches
}

// diff compares one asset against its vendor record field by field.
func diff(asset snow.Asset, rec lifecycle.Record) Patch {
	patch := Patch{
		SysID:  asset.SysID,
		Name:   asset.Name,
		Serial: lifecycle.CleanSerial(asset.SerialNumber),
	}

	// The cleaned serial is written back so the next run joins exactly.
	if cleaned := lifecycle.CleanSerial(asset.SerialNumber); cleaned != asset.SerialNumber {
		patch.add(snow.FieldSerialNumber, asset.SerialNumber, cleaned)
	}

	patch.addDate(snow.FieldWarrantyStart, asset.WarrantyStart, rec.WarrantyStart)
	patch.addDate(snow.FieldWarrantyExpiration, asset.WarrantyExpiration, rec.WarrantyEnd)
	patch.addDate(snow.FieldEOLAnnounced, asset.EOLAnnounced, rec.EOLAnnounced)
	patch.addDate(snow.FieldEndOfSale, asset.EndOfSale, rec.EndOfSale)
	patch.addDate(snow.FieldEndOfSupport, asset.EndOfSupport, rec.EndOfSupport)
	patch.addDate(snow.FieldEndOfLife, asset.EndOfLife, rec.LastDayOfSupport)

	patch.addBool(snow.FieldActiveContract, asset.ActiveContract, rec.Covered)

	// The flag tracks warranty data; a record carrying only EOL milestones
	// says nothing about coverage, so it leaves the flag alone.
	if rec.Covered != nil || rec.WarrantyEnd != nil {
		valid := rec.HasWarrantyData()
		patch.addBool(snow.FieldValidWarrantyData, asset.ValidWarrantyData, &valid)
	}

	return patch
}

func (p *Patch) add(field, oldValue, newValue string) {
	p.Changes = append(p.Changes, FieldChange{Field: field, OldValue: oldValue, NewValue: newValue})
}

// addDate records a change when the vendor reports a date and the stored
// value does not already represent it. A nil vendor date leaves the stored
// value untouched.
func (p *Patch) addDate(field, stored string, want *lifecycle.Date) {
	if want == nil {
		return
	}

	if have, err := lifecycle.ParseDate(stored); err == nil && have.Equal(*want) {
		return
	}
	p.add(field, stored, want.String())
}

// addBool records a change when the stored flag does not parse to the wanted
// boolean. ServiceNow stores booleans as "true"/"false" strings; anything
// unparseable (including empty) counts as different.
func (p *Patch) addBool(field, stored string, want *bool) {
	if want == nil {
		return
	}

	if have, err := strconv.ParseBool(strings.TrimSpace(stored)); err == nil && have == *want {
		return
	}
	p.add(field, stored, strconv.FormatBool(*want))
}

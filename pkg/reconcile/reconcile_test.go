package reconcile_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CC-Digital-Innovation/warranty-sync/internal/snow"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/lifecycle"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/reconcile"
)

func boolPtr(b bool) *bool { return &b }

// apply writes a patch's fields back onto the asset the way the Table API
// would store them.
func apply(t *testing.T, asset snow.Asset, fields map[string]string) snow.Asset {
	t.Helper()
	for field, value := range fields {
		switch field {
		case snow.FieldSerialNumber:
			asset.SerialNumber = value
		case snow.FieldActiveContract:
			asset.ActiveContract = value
		case snow.FieldWarrantyStart:
			asset.WarrantyStart = value
		case snow.FieldWarrantyExpiration:
			asset.WarrantyExpiration = value
		case snow.FieldEOLAnnounced:
			asset.EOLAnnounced = value
		case snow.FieldEndOfSale:
			asset.EndOfSale = value
		case snow.FieldEndOfSupport:
			asset.EndOfSupport = value
		case snow.FieldEndOfLife:
			asset.EndOfLife = value
		case snow.FieldValidWarrantyData:
			asset.ValidWarrantyData = value
		default:
			t.Fatalf("patch touched unexpected field %q", field)
		}
	}
	return asset
}

func TestScreen(t *testing.T) {
	assets := []snow.Asset{
		{SysID: "1", Name: "core-sw-01", SerialNumber: "FOC1234X0AB"},
		{SysID: "2", Name: "core-sw-02", SerialNumber: ""},
		{SysID: "3", Name: "core-sw-03", SerialNumber: "N/A"},
		{SysID: "4", Name: "core-sw-04", SerialNumber: "tbd"},
		{SysID: "5", Name: "core-sw-05", SerialNumber: "***"},
		{SysID: "6", Name: "core-sw-06", SerialNumber: " foc1234x0ab "},
		{SysID: "7", Name: "edge-rt-07", SerialNumber: "Q2KN-AAAA-BBBB"},
	}

	got := reconcile.Screen(context.Background(), assets)

	require.Len(t, got, 2)
	assert.Equal(t, "core-sw-01", got[0].Name)
	assert.Equal(t, "edge-rt-07", got[1].Name)
}

func TestScreenKeepsFirstDuplicate(t *testing.T) {
	assets := []snow.Asset{
		{SysID: "1", Name: "first", SerialNumber: "ABC123"},
		{SysID: "2", Name: "second", SerialNumber: "abc123"},
	}

	got := reconcile.Screen(context.Background(), assets)

	require.Len(t, got, 1)
	assert.Equal(t, "first", got[0].Name)
}

func TestSerials(t *testing.T) {
	assets := []snow.Asset{
		{SerialNumber: " abc-123 "},
		{SerialNumber: "Q2KN-AAAA-BBBB"},
		{SerialNumber: "FOC1234X0AB."},
	}

	assert.Equal(t, []string{"abc-123", "Q2KN-AAAA-BBBB", "FOC1234X0AB"}, reconcile.Serials(assets))
}

func TestDiffsMinimalPatch(t *testing.T) {
	asset := snow.Asset{
		SysID:              "a1",
		Name:               "edge-rt-01",
		SerialNumber:       "FOC1234X0AB",
		ActiveContract:     "true",
		WarrantyStart:      "2023-02-01",
		WarrantyExpiration: "2025-01-31",
		ValidWarrantyData:  "true",
	}
	set := lifecycle.NewSet()
	set.AddAll([]lifecycle.Record{{
		Serial:        "FOC1234X0AB",
		Manufacturer:  lifecycle.Cisco,
		Covered:       boolPtr(true),
		WarrantyStart: lifecycle.NewDate(2023, time.February, 1).Ptr(),
		WarrantyEnd:   lifecycle.NewDate(2026, time.January, 31).Ptr(),
	}})

	patches := reconcile.Diffs(context.Background(), []snow.Asset{asset}, set)

	require.Len(t, patches, 1)
	patch := patches[0]
	assert.Equal(t, "a1", patch.SysID)
	assert.Equal(t, "edge-rt-01", patch.Name)
	require.Len(t, patch.Changes, 1)
	assert.Equal(t, snow.FieldWarrantyExpiration, patch.Changes[0].Field)
	assert.Equal(t, "2025-01-31", patch.Changes[0].OldValue)
	assert.Equal(t, "2026-01-31", patch.Changes[0].NewValue)
}

func TestDiffsIdempotent(t *testing.T) {
	asset := snow.Asset{
		SysID:          "a2",
		Name:           "dist-sw-02",
		SerialNumber:   " fdo2222y1cd. ",
		ActiveContract: "false",
	}
	set := lifecycle.NewSet()
	set.AddAll([]lifecycle.Record{{
		Serial:           "FDO2222Y1CD",
		Manufacturer:     lifecycle.Cisco,
		Covered:          boolPtr(true),
		ServiceLevel:     "SNTC 8X5XNBD",
		WarrantyStart:    lifecycle.NewDate(2022, time.March, 15).Ptr(),
		WarrantyEnd:      lifecycle.NewDate(2027, time.March, 14).Ptr(),
		EOLAnnounced:     lifecycle.NewDate(2024, time.January, 10).Ptr(),
		EndOfSale:        lifecycle.NewDate(2025, time.January, 10).Ptr(),
		EndOfSupport:     lifecycle.NewDate(2028, time.January, 10).Ptr(),
		LastDayOfSupport: lifecycle.NewDate(2030, time.January, 10).Ptr(),
	}})

	patches := reconcile.Diffs(context.Background(), []snow.Asset{asset}, set)
	require.Len(t, patches, 1)
	assert.NotEmpty(t, patches[0].Changes)

	updated := apply(t, asset, patches[0].Fields())

	again := reconcile.Diffs(context.Background(), []snow.Asset{updated}, set)
	assert.Empty(t, again, "a second pass over applied patches must produce no work")
}

func TestDiffsNoMatch(t *testing.T) {
	asset := snow.Asset{SysID: "a3", Name: "lab-sw-03", SerialNumber: "NOMATCH1"}
	set := lifecycle.NewSet()
	set.AddAll([]lifecycle.Record{{
		Serial:       "OTHER999",
		Manufacturer: lifecycle.Dell,
		Covered:      boolPtr(true),
	}})

	patches := reconcile.Diffs(context.Background(), []snow.Asset{asset}, set)

	assert.Empty(t, patches)
}

func TestDiffsJoinIsCaseAndWhitespaceInsensitive(t *testing.T) {
	asset := snow.Asset{
		SysID:        "a4",
		Name:         "edge-rt-04",
		SerialNumber: " abc123 ",
	}
	set := lifecycle.NewSet()
	set.AddAll([]lifecycle.Record{{
		Serial:       "ABC123",
		Manufacturer: lifecycle.Dell,
		Covered:      boolPtr(true),
		WarrantyEnd:  lifecycle.NewDate(2026, time.June, 30).Ptr(),
	}})

	patches := reconcile.Diffs(context.Background(), []snow.Asset{asset}, set)

	require.Len(t, patches, 1)
	fields := patches[0].Fields()
	assert.Equal(t, "abc123", fields[snow.FieldSerialNumber], "cleaned serial is written back")
	assert.Equal(t, "2026-06-30", fields[snow.FieldWarrantyExpiration])
}

func TestDiffsPartialRecord(t *testing.T) {
	asset := snow.Asset{
		SysID:        "a5",
		Name:         "srv-05",
		SerialNumber: "DEF5678",
		EndOfSale:    "2019-12-31",
	}
	set := lifecycle.NewSet()
	set.AddAll([]lifecycle.Record{{
		Serial:       "DEF5678",
		Manufacturer: lifecycle.Dell,
		Covered:      boolPtr(true),
		WarrantyEnd:  lifecycle.NewDate(2026, time.February, 1).Ptr(),
	}})

	patches := reconcile.Diffs(context.Background(), []snow.Asset{asset}, set)

	require.Len(t, patches, 1)
	fields := patches[0].Fields()
	assert.Equal(t, "2026-02-01", fields[snow.FieldWarrantyExpiration])
	assert.Equal(t, "true", fields[snow.FieldActiveContract])
	assert.Equal(t, "true", fields[snow.FieldValidWarrantyData])
	assert.NotContains(t, fields, snow.FieldEndOfSale, "a record without the milestone leaves the stored value alone")
	assert.NotContains(t, fields, snow.FieldWarrantyStart)
}

func TestDiffsEOLOnlyRecordKeepsCoverageFlags(t *testing.T) {
	asset := snow.Asset{
		SysID:             "a6",
		Name:              "dist-sw-06",
		SerialNumber:      "GHI9012",
		ActiveContract:    "true",
		ValidWarrantyData: "true",
	}
	set := lifecycle.NewSet()
	set.AddAll([]lifecycle.Record{{
		Serial:           "GHI9012",
		Manufacturer:     lifecycle.Cisco,
		EndOfSale:        lifecycle.NewDate(2024, time.May, 1).Ptr(),
		LastDayOfSupport: lifecycle.NewDate(2029, time.May, 31).Ptr(),
	}})

	patches := reconcile.Diffs(context.Background(), []snow.Asset{asset}, set)

	require.Len(t, patches, 1)
	fields := patches[0].Fields()
	assert.Equal(t, "2024-05-01", fields[snow.FieldEndOfSale])
	assert.Equal(t, "2029-05-31", fields[snow.FieldEndOfLife])
	assert.NotContains(t, fields, snow.FieldActiveContract, "EOL data says nothing about coverage")
	assert.NotContains(t, fields, snow.FieldValidWarrantyData)
}

func TestDiffsSkipsMissingSysID(t *testing.T) {
	asset := snow.Asset{Name: "orphan-07", SerialNumber: "JKL3456"}
	set := lifecycle.NewSet()
	set.AddAll([]lifecycle.Record{{
		Serial:       "JKL3456",
		Manufacturer: lifecycle.Meraki,
		Covered:      boolPtr(true),
		WarrantyEnd:  lifecycle.NewDate(2026, time.August, 1).Ptr(),
	}})

	patches := reconcile.Diffs(context.Background(), []snow.Asset{asset}, set)

	assert.Empty(t, patches)
}

func TestDiffsBoolAliases(t *testing.T) {
	// ServiceNow exports occasionally carry "1"/"0"; ParseBool accepts them,
	// so a stored "1" already matches a covered record.
	asset := snow.Asset{
		SysID:              "a8",
		Name:               "edge-rt-08",
		SerialNumber:       "MNO7890",
		ActiveContract:     "1",
		ValidWarrantyData:  "1",
		WarrantyExpiration: "2026-09-01",
	}
	set := lifecycle.NewSet()
	set.AddAll([]lifecycle.Record{{
		Serial:       "MNO7890",
		Manufacturer: lifecycle.Dell,
		Covered:      boolPtr(true),
		WarrantyEnd:  lifecycle.NewDate(2026, time.September, 1).Ptr(),
	}})

	patches := reconcile.Diffs(context.Background(), []snow.Asset{asset}, set)

	assert.Empty(t, patches)
}

func TestPatchFields(t *testing.T) {
	patch := reconcile.Patch{
		SysID: "a9",
		Name:  "core-sw-09",
		Changes: []reconcile.FieldChange{
			{Field: snow.FieldWarrantyExpiration, OldValue: "", NewValue: "2026-01-31"},
			{Field: snow.FieldActiveContract, OldValue: "false", NewValue: "true"},
		},
	}

	assert.Equal(t, map[string]string{
		snow.FieldWarrantyExpiration: "2026-01-31",
		snow.FieldActiveContract:     "true",
	}, patch.Fields())
}

func TestPatchString(t *testing.T) {
	empty := reconcile.Patch{Name: "core-sw-10"}
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, "core-sw-10: no changes", empty.String())

	patch := reconcile.Patch{
		Name: "core-sw-10",
		Changes: []reconcile.FieldChange{
			{Field: snow.FieldWarrantyExpiration, OldValue: "2025-01-31", NewValue: "2026-01-31"},
		},
	}
	assert.False(t, patch.IsEmpty())
	assert.Contains(t, patch.String(), `warranty_expiration: "2025-01-31" → "2026-01-31"`)
}

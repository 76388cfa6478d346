package report_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CC-Digital-Innovation/warranty-sync/pkg/report"
)

func sampleDocument() *report.Document {
	started := time.Date(2026, time.August, 25, 9, 0, 0, 0, time.UTC)
	return &report.Document{
		RunID:    "1b9c0d2e-5f7a-4c3b-8d1e-2f3a4b5c6d7e",
		Started:  started,
		Finished: started.Add(4 * time.Minute),
		Duration: "4m0s",
		Passes: []report.Pass{
			{
				Manufacturer: "Cisco",
				Assets:       12,
				Screened:     10,
				Matched:      8,
				Updated:      3,
				Updates: []report.Update{
					{
						Name:   "core-sw-01",
						Serial: "FOC1234X0AB",
						Changes: []report.Change{
							{Field: report.Label("warranty_expiration"), From: "2025-01-31", To: "2026-01-31"},
						},
					},
				},
			},
			{
				Manufacturer: "Dell",
				Assets:       5,
				Screened:     5,
				Error:        "dell: lookup failed",
			},
		},
		Totals: report.Totals{Assets: 17, Screened: 15, Matched: 8, Updated: 3},
	}
}

func TestRender(t *testing.T) {
	data, err := report.Render(sampleDocument())
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "run_id: 1b9c0d2e-5f7a-4c3b-8d1e-2f3a4b5c6d7e")
	assert.Contains(t, text, "manufacturer: Cisco")
	assert.Contains(t, text, "serial: FOC1234X0AB")
	assert.Contains(t, text, "field: Warranty Expiration")
	assert.Contains(t, text, "dell: lookup failed")
	assert.NotContains(t, text, "dry_run", "omitted unless the run was a dry run")
}

func TestLabel(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"warranty_expiration", "Warranty Expiration"},
		{"serial_number", "Serial Number"},
		{"u_end_of_sale", "End Of Sale"},
		{"u_valid_warranty_data", "Valid Warranty Data"},
		{"u_eol_announced", "Eol Announced"},
		{"name", "Name"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, report.Label(tt.field), "field %q", tt.field)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")

	written, err := report.Write(path, sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, path, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "manufacturer: Dell")
}

func TestWriteCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "weekly", "report.yaml")

	written, err := report.Write(path, sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, path, written)
	assert.FileExists(t, path)
}

func TestWriteIntoDirectory(t *testing.T) {
	dir := t.TempDir()

	written, err := report.Write(dir, sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "warranty-sync-20260825-090400.yaml"), written)
	assert.FileExists(t, written)
}

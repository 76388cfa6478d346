// Package report renders a sync run to a YAML document for operators and
// ticketing automation. The document carries per-manufacturer pass counts and
// the field-level changes that were applied (or would be, in a dry run).
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/CC-Digital-Innovation/warranty-sync/pkg/constants"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/errors"
)

// Document is the YAML shape of one sync run.
type Document struct {
	RunID    string    `yaml:"run_id"`
	DryRun   bool      `yaml:"dry_run,omitempty"`
	Started  time.Time `yaml:"started"`
	Finished time.Time `yaml:"finished"`
	Duration string    `yaml:"duration"`
	Passes   []Pass    `yaml:"passes"`
	Totals   Totals    `yaml:"totals"`
}

// Pass summarizes one manufacturer pass.
type Pass struct {
	Manufacturer string   `yaml:"manufacturer"`
	Assets       int      `yaml:"assets"`
	Screened     int      `yaml:"screened"`
	Matched      int      `yaml:"matched"`
	Updated      int      `yaml:"updated"`
	Failed       int      `yaml:"failed,omitempty"`
	Error        string   `yaml:"error,omitempty"`
	Updates      []Update `yaml:"updates,omitempty"`
}

// Update is the change set applied to one asset.
type Update struct {
	Name    string   `yaml:"name"`
	Serial  string   `yaml:"serial"`
	Changes []Change `yaml:"changes"`
}

// Change is one field moving to a vendor-reported value. Field carries the
// reader-facing label, not the raw CMDB column name.
type Change struct {
	Field string `yaml:"field"`
	From  string `yaml:"from"`
	To    string `yaml:"to"`
}

// Totals aggregates the pass counts across manufacturers.
type Totals struct {
	Assets   int `yaml:"assets"`
	Screened int `yaml:"screened"`
	Matched  int `yaml:"matched"`
	Updated  int `yaml:"updated"`
	Failed   int `yaml:"failed"`
}

// Label turns a CMDB column name into a reader-facing heading. The customer
// column prefix is dropped, so "u_end_of_sale" becomes "End Of Sale".
func Label(field string) string {
	caser := cases.Title(language.English)
	return caser.String(strings.ReplaceAll(strings.TrimPrefix(field, "u_"), "_", " "))
}

// Render marshals the document to YAML.
func Render(doc *Document) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling run report: %w", err)
	}
	return data, nil
}

// Write renders the document and writes it to path, creating parent
// directories as needed. When path names an existing directory the report
// lands in a timestamped file inside it, so a scheduled job can point at a
// mounted volume and keep one report per run. Returns the path written.
func Write(path string, doc *Document) (string, error) {
	data, err := Render(doc)
	if err != nil {
		return "", err
	}

	target := path
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		stamp := doc.Finished
		if stamp.IsZero() {
			stamp = time.Now()
		}
		target = filepath.Join(path, fmt.Sprintf("warranty-sync-%s.yaml", stamp.Format(constants.TimeFormatFilename)))
	}

	if err := os.MkdirAll(filepath.Dir(target), constants.DirPermissions); err != nil {
		return "", errors.WrapIO("mkdir", filepath.Dir(target), err)
	}
	if err := os.WriteFile(target, data, constants.FilePermissions); err != nil {
		return "", errors.WrapIO("write", target, err)
	}
	return target, nil
}

package warrantysync

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CC-Digital-Innovation/warranty-sync/pkg/lifecycle"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/reconcile"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/report"
)

// Result describes one complete run.
type Result struct {
	RunID    uuid.UUID
	DryRun   bool
	Started  time.Time
	Finished time.Time
	Passes   []PassResult
}

// PassResult carries the outcome of one manufacturer pass.
type PassResult struct {
	Manufacturer lifecycle.Manufacturer
	Assets       int               // CMDB records read
	Screened     int               // records that survived serial screening
	Matched      int               // records with a vendor match
	Updated      int               // patches applied (or counted, in a dry run)
	Failed       int               // patch writes that failed
	Patches      []reconcile.Patch // the field-level diffs of this pass
	VendorErr    error             // set when the vendor lookup failed outright
}

// HasChanges reports whether the pass produced any patches.
func (p *PassResult) HasChanges() bool {
	return len(p.Patches) > 0
}

// Summary returns a human-readable one-liner for the pass.
func (p *PassResult) Summary() string {
	if p.VendorErr != nil {
		return fmt.Sprintf("%s: lookup failed: %v", p.Manufacturer, p.VendorErr)
	}

	s := fmt.Sprintf("%s: %d assets, %d screened, %d matched, %d updated",
		p.Manufacturer, p.Assets, p.Screened, p.Matched, p.Updated)
	if p.Failed > 0 {
		s += fmt.Sprintf(", %d failed", p.Failed)
	}
	return s
}

// Duration returns the wall-clock length of the run.
func (r *Result) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// HasChanges reports whether any pass produced patches.
func (r *Result) HasChanges() bool {
	for _, p := range r.Passes {
		if p.HasChanges() {
			return true
		}
	}
	return false
}

// totals sums the pass counts.
func (r *Result) totals() (assets, screened, matched, updated, failed int) {
	for _, p := range r.Passes {
		assets += p.Assets
		screened += p.Screened
		matched += p.Matched
		updated += p.Updated
		failed += p.Failed
	}
	return assets, screened, matched, updated, failed
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	if !r.HasChanges() {
		if r.DryRun {
			return "No changes detected (Dry run)"
		}
		return "No changes detected"
	}

	assets, screened, matched, updated, failed := r.totals()

	summary := fmt.Sprintf("%d passes: %d assets, %d screened, %d matched, %d updated",
		len(r.Passes), assets, screened, matched, updated)

	var parts []string
	if failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", failed))
	}
	if r.DryRun {
		parts = append(parts, "(Dry run)")
	}
	if len(parts) > 0 {
		summary += " " + strings.Join(parts, " ")
	}
	return summary
}

// Document returns the YAML-ready report document for the run.
func (r *Result) Document() *report.Document {
	doc := &report.Document{
		RunID:    r.RunID.String(),
		DryRun:   r.DryRun,
		Started:  r.Started,
		Finished: r.Finished,
		Duration: r.Duration().Round(time.Second).String(),
	}

	for _, p := range r.Passes {
		pass := report.Pass{
			Manufacturer: string(p.Manufacturer),
			Assets:       p.Assets,
			Screened:     p.Screened,
			Matched:      p.Matched,
			Updated:      p.Updated,
			Failed:       p.Failed,
		}
		if p.VendorErr != nil {
			pass.Error = p.VendorErr.Error()
		}
		for _, patch := range p.Patches {
			update := report.Update{Name: patch.Name, Serial: patch.Serial}
			for _, c := range patch.Changes {
				update.Changes = append(update.Changes, report.Change{
					Field: report.Label(c.Field),
					From:  c.OldValue,
					To:    c.NewValue,
				})
			}
			pass.Updates = append(pass.Updates, update)
		}
		doc.Passes = append(doc.Passes, pass)
	}

	assets, screened, matched, updated, failed := r.totals()
	doc.Totals = report.Totals{
		Assets:   assets,
		Screened: screened,
		Matched:  matched,
		Updated:  updated,
		Failed:   failed,
	}
	return doc
}

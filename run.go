package warrantysync

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/CC-Digital-Innovation/warranty-sync/internal/vendors"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/constants"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/errors"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/lifecycle"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/logging"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/reconcile"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/report"
)

// Run executes one full sync.
func (u *updater) Run(ctx context.Context, opts ...RunOption) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	o := newRunOptions(opts...)

	// A weekly job that outlives this is stuck, not slow.
	ctx, cancel := context.WithTimeout(ctx, constants.RunTimeout)
	defer cancel()

	result := &Result{
		RunID:   uuid.New(),
		DryRun:  o.dryRun,
		Started: time.Now().UTC(),
	}
	ctx = logging.WithRunID(ctx, result.RunID.String())

	logging.Ctx(ctx).Info().
		Bool("dry_run", o.dryRun).
		Msg("Starting warranty sync")

	if err := u.verify(ctx); err != nil {
		return nil, err
	}

	for _, p := range u.passes {
		if !o.wants(p.manufacturer) {
			continue
		}
		pr, err := u.runPass(ctx, p, o.dryRun)
		result.Passes = append(result.Passes, pr)
		if err != nil {
			result.Finished = time.Now().UTC()
			return result, err
		}
	}

	result.Finished = time.Now().UTC()

	assets, screened, matched, updated, failed := result.totals()
	logging.Ctx(ctx).Info().
		Int("assets", assets).
		Int("screened", screened).
		Int("matched", matched).
		Int("updated", updated).
		Int("failed", failed).
		Dur("duration", result.Duration()).
		Msg("Warranty sync finished")

	u.writeReport(ctx, result)

	return result, nil
}

// verify probes every API session before any record is processed. All
// sessions are checked even when the run covers a subset of manufacturers,
// so credential rot surfaces on every scheduled run, and every failure is
// reported at once.
func (u *updater) verify(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.VerifyTimeout)
	defer cancel()

	var errs []error
	if err := u.snow.Verify(ctx); err != nil {
		errs = append(errs, err)
	}
	for _, p := range u.passes {
		v, ok := p.source.(vendors.Verifier)
		if !ok {
			continue
		}
		if err := v.Verify(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := stderrors.Join(errs...); err != nil {
		return err
	}

	logging.Ctx(ctx).Info().Msg("All API sessions verified")
	return nil
}

// runPass executes one manufacturer pass end to end. The returned error is
// fatal for the whole run; vendor lookup failures are recorded on the
// PassResult instead so the remaining manufacturers still get processed.
func (u *updater) runPass(ctx context.Context, p pass, dryRun bool) (PassResult, error) {
	ctx = logging.WithManufacturer(ctx, string(p.manufacturer))
	pr := PassResult{Manufacturer: p.manufacturer}

	logging.Ctx(ctx).Info().Msg("Reading CMDB records")
	assets, err := u.snow.Assets(ctx, p.query)
	if err != nil {
		return pr, err
	}
	pr.Assets = len(assets)

	screened := reconcile.Screen(ctx, assets)
	pr.Screened = len(screened)
	if len(screened) == 0 {
		logging.Ctx(ctx).Info().Int("assets", pr.Assets).Msg("No usable records for this manufacturer")
		return pr, nil
	}

	records, err := p.source.Lookup(ctx, reconcile.Serials(screened))
	if err != nil {
		// One vendor being down must not stop the remaining passes. These
		// serials stay unchanged this run; the next scheduled run retries.
		pr.VendorErr = errors.NewSyncError(string(p.manufacturer), nil, err)
		logging.Ctx(ctx).Error().Err(pr.VendorErr).Msg("Vendor lookup failed, leaving records unchanged")
		return pr, nil
	}

	set := lifecycle.NewSet()
	set.AddAll(records)

	for _, asset := range screened {
		if _, ok := set.Get(asset.SerialNumber); ok {
			pr.Matched++
		}
	}
	logging.Ctx(ctx).Info().
		Int("assets", pr.Assets).
		Int("screened", pr.Screened).
		Int("vendor_records", set.Len()).
		Int("matched", pr.Matched).
		Msg("Vendor lookup complete")

	patches := reconcile.Diffs(ctx, screened, set)
	pr.Patches = patches

	for _, patch := range patches {
		if err := ctx.Err(); err != nil {
			return pr, err
		}

		if dryRun {
			logging.Ctx(ctx).Info().
				Str("sys_id", patch.SysID).
				Str("diff", patch.String()).
				Msg("Would update record")
			pr.Updated++
			continue
		}

		if err := u.snow.Update(ctx, patch.SysID, patch.Fields()); err != nil {
			pr.Failed++
			logging.Ctx(ctx).Error().
				Str("name", patch.Name).
				Str("serial", patch.Serial).
				Err(err).
				Msg("Failed to update record")
			continue
		}
		pr.Updated++
		logging.Ctx(ctx).Info().
			Str("name", patch.Name).
			Str("serial", patch.Serial).
			Int("fields", len(patch.Changes)).
			Msg("Updated record")
	}

	return pr, nil
}

// writeReport renders the run report when a path is configured. A report
// failure is logged, not returned; the sync itself already happened.
func (u *updater) writeReport(ctx context.Context, result *Result) {
	if u.cfg.ReportPath == "" {
		return
	}

	path, err := report.Write(u.cfg.ReportPath, result.Document())
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Could not write run report")
		return
	}
	logging.Ctx(ctx).Info().Str("path", path).Msg("Run report written")
}

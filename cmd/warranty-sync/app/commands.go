package app

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	warrantysync "github.com/CC-Digital-Innovation/warranty-sync"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/errors"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/lifecycle"
)

// runSync executes one sync run and prints the outcome. The error return is
// reserved for runs that could not complete at all; vendor outages and
// per-record failures are counted in the summaries and leave the exit
// status zero so the next scheduled run can retry them.
func (a *App) runSync(cmd *cobra.Command, _ []string) error {
	cfg := a.config.Sync
	if a.flags.report != "" {
		cfg.ReportPath = a.flags.report
	}

	manufacturers, err := parseManufacturers(a.flags.manufacturers)
	if err != nil {
		return err
	}

	updater, err := a.Updater(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	result, err := updater.Run(cmd.Context(),
		warrantysync.WithDryRun(a.flags.dryRun),
		warrantysync.WithManufacturers(manufacturers...),
	)
	if result != nil {
		cmd.Println(result.Summary())
		for _, pass := range result.Passes {
			cmd.Println("  " + pass.Summary())
		}
	}
	return err
}

// parseManufacturers converts --manufacturer values to their canonical form,
// rejecting names the sync does not know.
func parseManufacturers(names []string) ([]lifecycle.Manufacturer, error) {
	manufacturers := make([]lifecycle.Manufacturer, 0, len(names))
	for _, name := range names {
		m := lifecycle.Manufacturer(strings.ToLower(strings.TrimSpace(name)))
		if !slices.Contains(lifecycle.Manufacturers(), m) {
			return nil, errors.NewValidationError("manufacturer", name, "must be cisco, meraki, or dell")
		}
		manufacturers = append(manufacturers, m)
	}
	return manufacturers, nil
}

// NewSyncCommand creates the sync command, the named form of the root run
// for runbooks and interactive use.
func (a *App) NewSyncCommand() *cobra.Command {
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Run the warranty and end-of-life sync",
		Args:  cobra.NoArgs,
		RunE:  a.runSync,
	}
	a.addSyncFlags(syncCmd)
	return syncCmd
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("warranty-sync %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}

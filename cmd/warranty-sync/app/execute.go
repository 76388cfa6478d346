package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CC-Digital-Innovation/warranty-sync/pkg/logging"
)

// Execute runs the warranty-sync CLI with the given arguments. This is the
// main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// ExitOnError prints the error to stderr and exits with status 1.
func ExitOnError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// createRootCommand creates the root cobra command. Running the bare binary
// runs the sync; that is what the scheduler invokes.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "warranty-sync",
		Short: "Sync warranty and end-of-life data into a ServiceNow CMDB",
		Long: `warranty-sync looks up warranty, support contract, and end-of-life data
for the Cisco, Meraki, and Dell assets in a ServiceNow CMDB and writes
the changes back to the asset records.

Asset lookups use the Cisco Support API, the Meraki Dashboard API, and
the Dell TechDirect API. Credentials and endpoints are read from the
environment (a .env file in the working directory is honored).`,
		Version:           a.version,
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
		RunE:              a.runSync,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	a.addSyncFlags(rootCmd)

	rootCmd.SetVersionTemplate("warranty-sync {{.Version}}\n")

	rootCmd.AddCommand(a.NewSyncCommand())
	rootCmd.AddCommand(a.NewVersionCommand())

	return rootCmd
}

// addSyncFlags registers the run flags. The root command and the sync
// command share the backing fields; only one of them parses per invocation.
func (a *App) addSyncFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&a.flags.dryRun, "dry-run", false, "compute and log changes without writing to the CMDB")
	cmd.Flags().StringSliceVar(&a.flags.manufacturers, "manufacturer", nil, "limit the run to the given manufacturers (cisco, meraki, dell)")
	cmd.Flags().StringVar(&a.flags.report, "report", "", "write the YAML run report to this path (overrides REPORT_PATH)")
}

// setupCommand is called before any command runs. It re-reads the global
// flags and reinitializes the logger so flag values take effect.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	logLevel := mustGetString(cmd, "log-level")

	a.config.UpdateFromFlags(verbose, quiet, noColor, logLevel)

	// Make the reconfigured logger the default so the library packages
	// log through it.
	logger := NewLogger(a.config)
	a.logger = &logger
	logging.SetDefault(logger)

	return nil
}

// mustGetBool retrieves a boolean flag value, panicking on error.
// Flag retrieval only fails on programmer error (wrong name or type).
func mustGetBool(cmd *cobra.Command, name string) bool {
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("flag %q: %v", name, err))
	}
	return value
}

// mustGetString retrieves a string flag value, panicking on error.
func mustGetString(cmd *cobra.Command, name string) string {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("flag %q: %v", name, err))
	}
	return value
}

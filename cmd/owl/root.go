package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/owl/pkg/logging"
)

var (
	verbosity      int
	dryRun         bool
	nonInteractive bool
	force          bool
	hostOverride   string

	// exitCode carries the reconcile outcome out of cobra's Run funcs.
	exitCode int
)

var rootCmd = &cobra.Command{
	Use:   "owl",
	Short: "Declarative dotfiles and package manager",
	Long: `owl keeps a machine in sync with a declarative configuration: managed
dotfiles are linked or copied into place and configured packages are
installed. Reconciliation is idempotent and never silently overwrites
files owl does not own.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetupLogger(verbosity)
		log.Debug().Str("command", cmd.Name()).Msg("Command started")
	},
	// Bare "owl" reconciles, like "owl apply".
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApply(cmd)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Preview changes without executing them")
	rootCmd.PersistentFlags().BoolVarP(&nonInteractive, "non-interactive", "y", false, "Never prompt; skip anything that needs confirmation")
	rootCmd.PersistentFlags().BoolVar(&force, "force", false, "Approve orphan removals in non-interactive mode")
	rootCmd.PersistentFlags().StringVar(&hostOverride, "host", "", "Override the resolved hostname for host filtering")

	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(dotsCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(adoptCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configHostCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)
}

// run executes the CLI and maps errors and reconcile outcomes to the
// process exit code.
func run() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "owl: %v\n", err)
		return 1
	}
	return exitCode
}

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/owl/pkg/commands"
	"github.com/arthur-debert/owl/pkg/resolver"
	"github.com/arthur-debert/owl/pkg/types"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Reconcile the machine with the configuration",
	Long: `apply computes the difference between the configuration, the recorded
state, and the live filesystem, then applies the safe subset of changes.
Conflicting targets are prompted for interactively and skipped otherwise.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApply(cmd)
	},
}

func runApply(cmd *cobra.Command) error {
	rt, err := commands.NewRuntime(commands.RuntimeOptions{Host: hostOverride})
	if err != nil {
		return err
	}

	result, err := commands.Apply(context.Background(), rt, commands.ApplyOptions{
		DryRun:   dryRun,
		Mode:     runMode(),
		Force:    force,
		Prompter: prompter(),
	})
	if err != nil {
		return err
	}

	renderApplyResult(cmd.OutOrStdout(), result)
	exitCode = result.ExitCode()
	return nil
}

// runMode maps the -y flag to the resolver's mode.
func runMode() types.RunMode {
	if nonInteractive {
		return types.ModeNonInteractive
	}
	return types.ModeInteractive
}

// prompter returns the console prompter, or nil when prompting is off.
func prompter() resolver.Prompter {
	if nonInteractive {
		return nil
	}
	return resolver.NewConsolePrompter()
}

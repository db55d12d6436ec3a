package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/owl/pkg/adopt"
	"github.com/arthur-debert/owl/pkg/commands"
	"github.com/arthur-debert/owl/pkg/types"
)

var dotsCmd = &cobra.Command{
	Use:   "dots",
	Short: "List managed entries and their current status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := commands.NewRuntime(commands.RuntimeOptions{Host: hostOverride})
		if err != nil {
			return err
		}
		renderDots(cmd.OutOrStdout(), commands.Dots(rt))
		return nil
	},
}

var findCmd = &cobra.Command{
	Use:   "find <pattern>",
	Short: "Find managed entries matching a pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := commands.NewRuntime(commands.RuntimeOptions{Host: hostOverride})
		if err != nil {
			return err
		}
		matches := commands.Find(rt, args[0])
		if len(matches) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No managed entries match %q\n", args[0])
			return nil
		}
		renderDots(cmd.OutOrStdout(), matches)
		return nil
	},
}

var (
	addMode  string
	addHosts []string
)

var addCmd = &cobra.Command{
	Use:   "add <source> <target>",
	Short: "Register a managed entry for a file in the source tree",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := commands.NewRuntime(commands.RuntimeOptions{Host: hostOverride})
		if err != nil {
			return err
		}

		var mode types.LinkMode
		if addMode != "" {
			mode, err = types.ParseLinkMode(addMode)
			if err != nil {
				return err
			}
		}

		entry, err := commands.Add(rt, args[0], args[1], commands.AddOptions{
			Mode:  mode,
			Hosts: addHosts,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s -> %s (%s)\n", entry.Source, entry.Target, entry.Mode)
		return nil
	},
}

var adoptPackages bool

var adoptCmd = &cobra.Command{
	Use:   "adopt [path|package...]",
	Short: "Fold existing files or packages into owl's management",
	Long: `adopt takes ownership of things that already exist on the machine.
For a file, its content moves into the source tree and the original is
replaced by the configured link mode. With --packages, explicitly
installed packages that are not yet configured are offered one by one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := commands.NewRuntime(commands.RuntimeOptions{Host: hostOverride})
		if err != nil {
			return err
		}
		adopter := adopt.NewAdopter(rt.FS, rt.Paths, rt.Store, rt.State)

		if adoptPackages {
			backend, err := rt.Backend(rt.Config.Settings.Backend)
			if err != nil {
				return err
			}
			result, err := adopter.AdoptPackages(context.Background(), backend, rt.Effective, args, adopt.NewConsolePackagePrompter())
			if err != nil {
				return err
			}
			renderPackageAdoption(cmd.OutOrStdout(), result)
			return nil
		}

		if len(args) != 1 {
			return fmt.Errorf("adopt takes exactly one file path (or --packages)")
		}
		entry, err := adopter.AdoptAndRegister(args[0], adopt.FileOptions{})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Adopted %s -> %s (%s)\n", entry.Target, entry.Source, entry.Mode)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <target>",
	Short: "Open a managed entry's source in $EDITOR",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := commands.NewRuntime(commands.RuntimeOptions{Host: hostOverride})
		if err != nil {
			return err
		}
		return commands.Edit(rt, args[0])
	},
}

var configCheckCmd = &cobra.Command{
	Use:   "config-check",
	Short: "Validate the configuration without planning",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := commands.NewRuntime(commands.RuntimeOptions{Host: hostOverride})
		if err != nil {
			return err
		}
		problems := commands.ConfigCheck(rt)
		if len(problems) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration OK")
			return nil
		}
		for _, problem := range problems {
			fmt.Fprintf(cmd.OutOrStdout(), "problem: %v\n", problem)
		}
		exitCode = 2
		return nil
	},
}

var configHostCmd = &cobra.Command{
	Use:   "config-host",
	Short: "Print the effective host-filtered configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := commands.NewRuntime(commands.RuntimeOptions{Host: hostOverride})
		if err != nil {
			return err
		}
		rendered, err := commands.ConfigHost(rt)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove orphaned targets no longer in the configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := commands.NewRuntime(commands.RuntimeOptions{Host: hostOverride})
		if err != nil {
			return err
		}
		result, err := commands.Clean(rt, commands.CleanOptions{
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
	},
}

func init() {
	addCmd.Flags().StringVar(&addMode, "mode", "", "Link mode: symlink, copy, or template")
	addCmd.Flags().StringSliceVar(&addHosts, "hosts", nil, "Restrict the entry to these hosts")
	adoptCmd.Flags().BoolVar(&adoptPackages, "packages", false, "Adopt installed packages instead of a file")
}

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arthur-debert/owl/pkg/adopt"
	"github.com/arthur-debert/owl/pkg/commands"
	"github.com/arthur-debert/owl/pkg/types"
)

var (
	styleApplied   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleSimulated = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	styleSkipped   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleFailed    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleMuted     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// styled returns s styled when stdout is a terminal, plain otherwise.
func styled(style lipgloss.Style, s string) string {
	if !useColor() {
		return s
	}
	return style.Render(s)
}

func useColor() bool {
	return detectTerminal(os.Stdout)
}

// renderApplyResult prints the execution report: one line per action that
// did something or needs attention, a summary line, and every skipped
// destructive action itemized. Silence about a skipped destructive action
// would be a defect, so skips always print.
func renderApplyResult(w io.Writer, result *commands.ApplyResult) {
	report := result.Report

	for _, res := range report.Results {
		switch res.Status {
		case types.StatusApplied:
			fmt.Fprintf(w, "%s %s %s\n", styled(styleApplied, "✓"), res.Action.Kind, res.Action.Target)
		case types.StatusSimulated:
			fmt.Fprintf(w, "%s would %s %s\n", styled(styleSimulated, "·"), res.Action.Kind, res.Action.Target)
		case types.StatusSkipped:
			fmt.Fprintf(w, "%s skipped %s %s (%s)\n", styled(styleSkipped, "!"), res.Action.Kind, res.Action.Target, res.Reason)
		case types.StatusFailed:
			fmt.Fprintf(w, "%s failed %s %s: %v\n", styled(styleFailed, "✗"), res.Action.Kind, res.Action.Target, res.Err)
		case types.StatusUnchanged:
			if verbosity > 0 {
				fmt.Fprintf(w, "%s %s %s\n", styled(styleMuted, "="), res.Action.Target, styled(styleMuted, res.Reason))
			}
		}
	}

	for _, pkg := range result.Packages {
		name := pkg.Action.Spec.Key()
		switch {
		case pkg.Action.Kind == types.PackageReport:
			fmt.Fprintf(w, "%s package %s: %s\n", styled(styleSkipped, "!"), name, pkg.Action.Rationale)
		case pkg.Status == types.StatusSimulated:
			fmt.Fprintf(w, "%s would install %s\n", styled(styleSimulated, "·"), name)
		case pkg.Status == types.StatusFailed:
			fmt.Fprintf(w, "%s failed to install %s: %v\n", styled(styleFailed, "✗"), name, pkg.Err)
		default:
			fmt.Fprintf(w, "%s installed %s\n", styled(styleApplied, "✓"), name)
		}
	}

	if report.Aborted {
		fmt.Fprintf(w, "%s run aborted: %v\n", styled(styleFailed, "✗"), report.AbortedBy)
	}

	fmt.Fprintln(w, summaryLine(report))
}

func summaryLine(report *types.ExecutionReport) string {
	applied, unchanged, skipped, failed := 0, 0, 0, 0
	for _, res := range report.Results {
		switch res.Status {
		case types.StatusApplied, types.StatusSimulated:
			applied++
		case types.StatusUnchanged:
			unchanged++
		case types.StatusSkipped:
			skipped++
		case types.StatusFailed:
			failed++
		}
	}

	var parts []string
	verb := "applied"
	if report.Simulated {
		verb = "planned"
	}
	parts = append(parts, fmt.Sprintf("%d %s", applied, verb))
	if unchanged > 0 {
		parts = append(parts, fmt.Sprintf("%d up to date", unchanged))
	}
	if skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", skipped))
	}
	if failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", failed))
	}
	return strings.Join(parts, ", ")
}

func renderDots(w io.Writer, dots []commands.DotStatus) {
	if len(dots) == 0 {
		fmt.Fprintln(w, "No managed entries")
		return
	}
	for _, dot := range dots {
		marker := styled(styleApplied, "✓")
		switch dot.State {
		case commands.DotMissing, commands.DotDrifted:
			marker = styled(styleSimulated, "·")
		case commands.DotConflict:
			marker = styled(styleFailed, "✗")
		case commands.DotOrphan:
			marker = styled(styleSkipped, "!")
		}
		source := ""
		if dot.Entry != nil {
			source = styled(styleMuted, " <- "+dot.Entry.Source)
		}
		fmt.Fprintf(w, "%s %-10s %s%s\n", marker, dot.State, dot.Target, source)
	}
}

func renderPackageAdoption(w io.Writer, result *adopt.PackageResult) {
	if result.Empty() {
		fmt.Fprintln(w, "No unmanaged installed packages available for adoption")
		return
	}
	printList := func(label string, names []string) {
		if len(names) > 0 {
			fmt.Fprintf(w, "%s: %s\n", label, strings.Join(names, ", "))
		}
	}
	printList("Adopted", result.Adopted)
	printList("Marked as managed (already in config)", result.MarkedManaged)
	printList("Ignored", result.Ignored)
	printList("Already managed", result.AlreadyManaged)
	printList("Not installed (skipped)", result.NotInstalled)
	printList("Skipped", result.Skipped)
}

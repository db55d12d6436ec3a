package adopt

import (
	"fmt"

	"github.com/pterm/pterm"
)

// ConsolePackagePrompter asks adopt/ignore/skip/quit on the terminal.
type ConsolePackagePrompter struct{}

// NewConsolePackagePrompter creates a terminal package prompter.
func NewConsolePackagePrompter() *ConsolePackagePrompter {
	return &ConsolePackagePrompter{}
}

func (p *ConsolePackagePrompter) Decide(name string) (PackageDecision, error) {
	choice, err := pterm.DefaultInteractiveSelect.
		WithOptions([]string{"adopt", "ignore", "skip", "quit"}).
		WithDefaultOption("skip").
		Show(fmt.Sprintf("Package %q", name))
	if err != nil {
		// No usable answer defaults to skip, matching file conflicts.
		return DecisionSkip, nil
	}

	switch choice {
	case "adopt":
		return DecisionAdopt, nil
	case "ignore":
		return DecisionIgnore, nil
	case "quit":
		return DecisionQuit, nil
	default:
		return DecisionSkip, nil
	}
}

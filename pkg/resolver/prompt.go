package resolver

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/owl/pkg/types"
)

// ConsolePrompter asks for per-action confirmation on the terminal.
type ConsolePrompter struct{}

// NewConsolePrompter creates a terminal prompter.
func NewConsolePrompter() *ConsolePrompter {
	return &ConsolePrompter{}
}

// Confirm presents one action and reads a yes/no answer. The default is
// "no": pressing enter skips the action.
func (p *ConsolePrompter) Confirm(action types.Action) (bool, error) {
	var question string
	switch action.Kind {
	case types.ActionConflict:
		question = fmt.Sprintf("%s has an unmanaged modification (%s). Overwrite it?", action.Target, action.Rationale)
	case types.ActionRemove:
		question = fmt.Sprintf("%s is no longer configured. Remove it?", action.Target)
	default:
		question = fmt.Sprintf("Apply %s to %s?", action.Kind, action.Target)
	}

	result, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show(question)
	if err != nil {
		// A failed read counts as no answer, and no answer means skip.
		return false, nil
	}
	return result, nil
}

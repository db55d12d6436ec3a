// Package resolver applies the approval policy to a plan before execution.
//
// The bias on every ambiguous path is "do nothing and report". A conflict
// or an orphan removal only proceeds when a human approved it at a prompt,
// or (for removals) when --force was given in non-interactive mode.
package resolver

import (
	"github.com/rs/zerolog"

	"github.com/arthur-debert/owl/pkg/logging"
	"github.com/arthur-debert/owl/pkg/types"
)

// Prompter asks the user to approve a single destructive action. A false
// return with nil error means the user declined or gave no answer.
type Prompter interface {
	Confirm(action types.Action) (bool, error)
}

// Options configures a resolver.
type Options struct {
	Mode types.RunMode

	// Force approves orphan removals without prompting in non-interactive
	// mode. It never applies to conflicts.
	Force bool

	Prompter Prompter
	Logger   zerolog.Logger
}

// Resolver classifies each planned action as approved or skipped.
type Resolver struct {
	mode     types.RunMode
	force    bool
	prompter Prompter
	logger   zerolog.Logger
}

// New creates a resolver.
func New(opts Options) *Resolver {
	logger := opts.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("resolver")
	}
	return &Resolver{
		mode:     opts.Mode,
		force:    opts.Force,
		prompter: opts.Prompter,
		logger:   logger,
	}
}

// Resolve applies the policy table to the plan. Plan order is preserved.
func (r *Resolver) Resolve(plan *types.Plan) (*types.ResolvedPlan, error) {
	resolved := &types.ResolvedPlan{Packages: plan.Packages}

	for _, action := range plan.Actions {
		ra, err := r.resolveOne(action)
		if err != nil {
			return nil, err
		}
		resolved.Actions = append(resolved.Actions, ra)
	}

	return resolved, nil
}

func (r *Resolver) resolveOne(action types.Action) (types.ResolvedAction, error) {
	ra := types.ResolvedAction{Action: action}

	switch action.Kind {
	case types.ActionCreate, types.ActionUpdate, types.ActionSkip:
		// Creates and engine-owned updates are always safe; skips carry
		// no mutation at all.
		ra.Decision = types.DecisionApproved
		return ra, nil

	case types.ActionConflict:
		if r.mode == types.ModeNonInteractive {
			ra.Decision = types.DecisionSkipped
			ra.Reason = "unmanaged modification, skipped in non-interactive mode"
			r.logger.Warn().Str("target", action.Target).Msg("Conflict skipped")
			return ra, nil
		}
		return r.prompt(action, "conflict declined")

	case types.ActionRemove:
		if r.mode == types.ModeNonInteractive {
			if r.force {
				ra.Decision = types.DecisionApproved
				return ra, nil
			}
			ra.Decision = types.DecisionSkipped
			ra.Reason = "orphan removal requires confirmation or --force"
			return ra, nil
		}
		return r.prompt(action, "removal declined")

	default:
		ra.Decision = types.DecisionSkipped
		ra.Reason = "unknown action kind"
		return ra, nil
	}
}

// prompt asks the user about one action. No prompter, a declined prompt,
// and an empty answer all resolve to skip.
func (r *Resolver) prompt(action types.Action, declineReason string) (types.ResolvedAction, error) {
	ra := types.ResolvedAction{Action: action}

	if r.prompter == nil {
		ra.Decision = types.DecisionSkipped
		ra.Reason = "no prompter available"
		return ra, nil
	}

	approved, err := r.prompter.Confirm(action)
	if err != nil {
		return ra, err
	}
	if approved {
		ra.Decision = types.DecisionApproved
		return ra, nil
	}
	ra.Decision = types.DecisionSkipped
	ra.Reason = declineReason
	return ra, nil
}

package types

import (
	"fmt"
	"time"
)

// ActionKind classifies a planned operation on a single target.
type ActionKind string

const (
	// ActionCreate materializes an entry whose target does not exist yet.
	ActionCreate ActionKind = "create"

	// ActionUpdate rewrites an engine-owned target whose desired source
	// content has drifted from what was last applied.
	ActionUpdate ActionKind = "update"

	// ActionRemove deletes an orphaned target: a state record with no
	// matching entry in the current effective configuration.
	ActionRemove ActionKind = "remove"

	// ActionSkip records that desired and actual content already match.
	ActionSkip ActionKind = "skip"

	// ActionConflict flags a target the engine must not touch: the live
	// content does not match what the engine last applied.
	ActionConflict ActionKind = "conflict"
)

// Action is a single planned operation. Entry is nil for Remove actions,
// whose subject is an orphaned state record identified by Target alone.
type Action struct {
	Kind      ActionKind
	Target    string
	Entry     *ManagedEntry
	Rationale string

	// DesiredFingerprint is the SHA-256 digest of the source content the
	// action would materialize. Empty for Remove.
	DesiredFingerprint string
}

func (a Action) String() string {
	return fmt.Sprintf("%s %s (%s)", a.Kind, a.Target, a.Rationale)
}

// PackageActionKind classifies a planned package operation.
type PackageActionKind string

const (
	// PackageInstall installs a configured package that is not installed.
	PackageInstall PackageActionKind = "install"

	// PackageReport surfaces an installed package that is not configured.
	// Unconfigured packages are reported, never removed automatically.
	PackageReport PackageActionKind = "report"
)

// PackageAction is a single planned package operation.
type PackageAction struct {
	Kind      PackageActionKind
	Spec      PackageSpec
	Rationale string
}

// Plan is the ordered output of the diff planner. File actions are ordered
// parents-before-children, lexicographic otherwise; package actions follow
// the file actions.
type Plan struct {
	Actions  []Action
	Packages []PackageAction
}

// Count returns the number of file actions of the given kind.
func (p *Plan) Count(kind ActionKind) int {
	n := 0
	for _, a := range p.Actions {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

// Decision is the conflict resolver's verdict on a planned action.
type Decision string

const (
	// DecisionApproved means the executor may apply the action.
	DecisionApproved Decision = "approved"

	// DecisionSkipped means the action is withheld and reported.
	DecisionSkipped Decision = "skipped"
)

// ResolvedAction pairs an action with the resolver's decision.
type ResolvedAction struct {
	Action   Action
	Decision Decision

	// Reason explains a skip (policy, declined prompt, no answer).
	Reason string
}

// ResolvedPlan is the conflict resolver's output, in plan order.
type ResolvedPlan struct {
	Actions  []ResolvedAction
	Packages []PackageAction
}

// Approved returns the actions the executor may apply, in order.
func (p *ResolvedPlan) Approved() []Action {
	var out []Action
	for _, ra := range p.Actions {
		if ra.Decision == DecisionApproved {
			out = append(out, ra.Action)
		}
	}
	return out
}

// Skipped returns the withheld actions, in order.
func (p *ResolvedPlan) Skipped() []ResolvedAction {
	var out []ResolvedAction
	for _, ra := range p.Actions {
		if ra.Decision == DecisionSkipped {
			out = append(out, ra)
		}
	}
	return out
}

// ActionStatus is the outcome of executing one action.
type ActionStatus string

const (
	StatusApplied   ActionStatus = "applied"
	StatusSimulated ActionStatus = "simulated"
	StatusUnchanged ActionStatus = "unchanged"
	StatusSkipped   ActionStatus = "skipped"
	StatusFailed    ActionStatus = "failed"
)

// ActionResult records the outcome of one action in an execution report.
type ActionResult struct {
	Action   Action
	Status   ActionStatus
	Reason   string
	Err      error
	Duration time.Duration
}

// ExecutionReport aggregates the outcome of a run. Its shape is identical
// for dry runs and real runs; Simulated distinguishes them.
type ExecutionReport struct {
	Results   []ActionResult
	Packages  []PackageAction
	Simulated bool

	// Aborted is set when a state store write failure stopped the run
	// before the remaining actions were attempted.
	Aborted   bool
	AbortedBy error
}

// Failed returns the results whose action failed.
func (r *ExecutionReport) Failed() []ActionResult {
	var out []ActionResult
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			out = append(out, res)
		}
	}
	return out
}

// Skipped returns the results withheld by policy or prompt.
func (r *ExecutionReport) Skipped() []ActionResult {
	var out []ActionResult
	for _, res := range r.Results {
		if res.Status == StatusSkipped {
			out = append(out, res)
		}
	}
	return out
}

// NeedsAttention reports whether the run left anything for the user to act
// on: a skipped conflict or orphan, or a failed action.
func (r *ExecutionReport) NeedsAttention() bool {
	return len(r.Failed()) > 0 || len(r.Skipped()) > 0 || r.Aborted
}

// RunMode selects the conflict resolver's prompting behavior.
type RunMode string

const (
	ModeInteractive    RunMode = "interactive"
	ModeNonInteractive RunMode = "non-interactive"
)

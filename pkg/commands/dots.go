package commands

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/owl/pkg/planner"
	"github.com/arthur-debert/owl/pkg/types"
)

// DotState classifies one managed entry's live condition for display.
type DotState string

const (
	// DotOK means the target matches the desired form.
	DotOK DotState = "ok"

	// DotMissing means nothing exists at the target yet.
	DotMissing DotState = "missing"

	// DotDrifted means the engine owns the target but the source changed.
	DotDrifted DotState = "drifted"

	// DotConflict means the target holds an unmanaged modification.
	DotConflict DotState = "conflict"

	// DotOrphan means state exists for a target no longer configured.
	DotOrphan DotState = "orphan"
)

// DotStatus is one row of the dots listing.
type DotStatus struct {
	Entry  *types.ManagedEntry
	Target string
	State  DotState
	Detail string
}

// Dots lists every managed entry (and orphaned record) with its current
// status. It reuses planner classifications so the listing always agrees
// with what apply would do.
func Dots(rt *Runtime) []DotStatus {
	plan := planner.Plan(planner.Input{
		Config:       rt.Effective,
		State:        rt.State,
		Observations: rt.Observe(),
		Sources:      rt.Sources(),
	})

	out := make([]DotStatus, 0, len(plan.Actions))
	for _, action := range plan.Actions {
		status := DotStatus{
			Entry:  action.Entry,
			Target: action.Target,
			Detail: action.Rationale,
		}
		switch action.Kind {
		case types.ActionSkip:
			status.State = DotOK
		case types.ActionCreate:
			status.State = DotMissing
		case types.ActionUpdate:
			status.State = DotDrifted
		case types.ActionConflict:
			status.State = DotConflict
		case types.ActionRemove:
			status.State = DotOrphan
		}
		out = append(out, status)
	}
	return out
}

// Find returns the dots whose target or source matches the pattern. The
// pattern is tried as a glob against the path base, then as a substring.
func Find(rt *Runtime, pattern string) []DotStatus {
	var out []DotStatus
	for _, status := range Dots(rt) {
		if matches(status, pattern) {
			out = append(out, status)
		}
	}
	return out
}

func matches(status DotStatus, pattern string) bool {
	candidates := []string{status.Target}
	if status.Entry != nil {
		candidates = append(candidates, status.Entry.Source)
	}
	for _, candidate := range candidates {
		if ok, err := filepath.Match(pattern, filepath.Base(candidate)); err == nil && ok {
			return true
		}
		if strings.Contains(candidate, pattern) {
			return true
		}
	}
	return false
}

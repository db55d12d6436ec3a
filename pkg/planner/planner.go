// Package planner computes the action plan from the three-way comparison
// of desired configuration, prior state, and live filesystem observations.
//
// Planning is a pure function: no I/O, no side effects. Everything the
// planner needs (source fingerprints, observations, installed package sets)
// is gathered by the caller beforehand, which is what keeps a dry run and a
// real run classification-identical.
package planner

import (
	"sort"

	"github.com/arthur-debert/owl/pkg/config"
	"github.com/arthur-debert/owl/pkg/statestore"
	"github.com/arthur-debert/owl/pkg/types"
)

// Input bundles everything a plan is computed from.
type Input struct {
	Config       *config.Effective
	State        *statestore.State
	Observations map[string]types.FilesystemObservation
	Sources      map[string]types.SourceInfo

	// Installed maps backend name to the set of explicitly installed
	// package names.
	Installed map[string]map[string]bool
}

// Plan computes the ordered action plan. File actions come out parents
// before children, lexicographic otherwise; package actions are sorted by
// identity key.
func Plan(in Input) *types.Plan {
	plan := &types.Plan{}

	for i := range in.Config.Entries {
		entry := &in.Config.Entries[i]
		plan.Actions = append(plan.Actions, classify(entry, in))
	}

	// Every state record with no matching entry is an orphan. Removal is
	// only ever proposed, never applied directly; the resolver decides.
	for _, target := range in.State.Targets() {
		if _, ok := in.Config.Entry(target); ok {
			continue
		}
		plan.Actions = append(plan.Actions, types.Action{
			Kind:      types.ActionRemove,
			Target:    target,
			Rationale: "no longer configured",
		})
	}

	sort.SliceStable(plan.Actions, func(i, j int) bool {
		return types.PathLess(plan.Actions[i].Target, plan.Actions[j].Target)
	})

	plan.Packages = planPackages(in)
	return plan
}

// classify decides the action for one managed entry.
func classify(entry *types.ManagedEntry, in Input) types.Action {
	action := types.Action{Target: entry.Target, Entry: entry}

	src, ok := in.Sources[entry.Target]
	if !ok || src.Missing {
		action.Kind = types.ActionConflict
		action.Rationale = "source file missing"
		return action
	}
	action.DesiredFingerprint = src.Fingerprint

	obs := in.Observations[entry.Target]
	record, hasRecord := in.State.Record(entry.Target)

	if !obs.Exists {
		action.Kind = types.ActionCreate
		action.Rationale = "target does not exist"
		return action
	}

	if obs.Kind == types.KindDir {
		action.Kind = types.ActionConflict
		action.Rationale = "target is a directory"
		return action
	}

	if satisfied(entry, src, obs) {
		action.Kind = types.ActionSkip
		action.Rationale = "already up to date"
		return action
	}

	// The engine owns the live content only when it matches what the
	// engine last applied. Anything else was put there by someone else
	// and is never overwritten silently.
	if hasRecord && obs.Fingerprint != "" && obs.Fingerprint == record.Fingerprint {
		action.Kind = types.ActionUpdate
		action.Rationale = "source content changed"
		return action
	}

	action.Kind = types.ActionConflict
	action.Rationale = "unmanaged modification"
	return action
}

// satisfied reports whether the live target already matches the entry's
// desired form.
func satisfied(entry *types.ManagedEntry, src types.SourceInfo, obs types.FilesystemObservation) bool {
	switch entry.Mode {
	case types.LinkModeSymlink:
		return obs.Kind == types.KindSymlink && obs.LinkDest == src.AbsPath
	default:
		// copy and template both materialize a regular file.
		return obs.Kind == types.KindFile && obs.Fingerprint != "" && obs.Fingerprint == src.Fingerprint
	}
}

// planPackages computes package actions: configured-but-missing packages
// become installs; explicitly installed packages that are neither
// configured nor untracked are reported, never removed.
func planPackages(in Input) []types.PackageAction {
	var out []types.PackageAction

	configured := make(map[string]map[string]bool)
	for _, spec := range in.Config.Packages {
		if configured[spec.Backend] == nil {
			configured[spec.Backend] = make(map[string]bool)
		}
		configured[spec.Backend][spec.Name] = true

		if !in.Installed[spec.Backend][spec.Name] {
			out = append(out, types.PackageAction{
				Kind:      types.PackageInstall,
				Spec:      spec,
				Rationale: "configured but not installed",
			})
		}
	}

	for backend, installed := range in.Installed {
		for name := range installed {
			if configured[backend][name] || in.State.IsPackageUntracked(name) {
				continue
			}
			rationale := "installed but not configured"
			if in.State.IsPackageManaged(name) {
				rationale = "managed but no longer configured"
			}
			out = append(out, types.PackageAction{
				Kind:      types.PackageReport,
				Spec:      types.PackageSpec{Name: name, Backend: backend},
				Rationale: rationale,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind == types.PackageInstall
		}
		return out[i].Spec.Key() < out[j].Spec.Key()
	})
	return out
}

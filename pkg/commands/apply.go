package commands

import (
	"context"
	"sort"

	"github.com/arthur-debert/owl/pkg/executor"
	"github.com/arthur-debert/owl/pkg/lockfile"
	"github.com/arthur-debert/owl/pkg/planner"
	"github.com/arthur-debert/owl/pkg/resolver"
	"github.com/arthur-debert/owl/pkg/types"
)

// ApplyOptions configures an apply run.
type ApplyOptions struct {
	DryRun   bool
	Mode     types.RunMode
	Force    bool
	Prompter resolver.Prompter

	// SkipPackages restricts the run to file reconciliation.
	SkipPackages bool
}

// PackageOutcome records what happened to one package action.
type PackageOutcome struct {
	Action types.PackageAction
	Status types.ActionStatus
	Err    error
}

// ApplyResult is the full outcome of an apply run.
type ApplyResult struct {
	Plan     *types.Plan
	Report   *types.ExecutionReport
	Packages []PackageOutcome
}

// ExitCode maps a result to the process exit code: 0 when everything
// applied cleanly, 1 on any execution error, 2 when something was skipped
// and needs the user's attention.
func (r *ApplyResult) ExitCode() int {
	if r.Report.Aborted || len(r.Report.Failed()) > 0 {
		return 1
	}
	for _, pkg := range r.Packages {
		if pkg.Status == types.StatusFailed {
			return 1
		}
	}
	if len(r.Report.Skipped()) > 0 {
		return 2
	}
	return 0
}

// Apply runs the full reconcile: plan, resolve, execute. The advisory lock
// is held from planning through execution and released on every path.
func Apply(ctx context.Context, rt *Runtime, opts ApplyOptions) (*ApplyResult, error) {
	lock, err := lockfile.Acquire(rt.Paths.LockFile())
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	sources := rt.Sources()
	observations := rt.Observe()
	installed := rt.installedSets(ctx, opts.SkipPackages)

	// With package reconciliation off, the planner must not see the
	// configured packages either, or it would plan installs that this run
	// will never execute.
	effective := rt.Effective
	if opts.SkipPackages {
		trimmed := *rt.Effective
		trimmed.Packages = nil
		effective = &trimmed
	}

	plan := planner.Plan(planner.Input{
		Config:       effective,
		State:        rt.State,
		Observations: observations,
		Sources:      sources,
		Installed:    installed,
	})

	res := resolver.New(resolver.Options{
		Mode:     opts.Mode,
		Force:    opts.Force,
		Prompter: opts.Prompter,
	})
	resolved, err := res.Resolve(plan)
	if err != nil {
		return nil, err
	}

	exec := executor.New(executor.Options{
		FS:     rt.FS,
		Store:  rt.Store,
		State:  rt.State,
		Host:   rt.Host,
		DryRun: opts.DryRun,
	})
	report := exec.Execute(resolved, sources)

	result := &ApplyResult{Plan: plan, Report: report}
	if !opts.SkipPackages && !report.Aborted {
		result.Packages = rt.applyPackages(ctx, plan.Packages, opts.DryRun)
	}
	return result, nil
}

// installedSets queries each backend named by the effective configuration
// for its explicitly installed packages. A backend that cannot be queried
// contributes nothing; its installs then fail individually at execution,
// keeping backend trouble localized.
func (rt *Runtime) installedSets(ctx context.Context, skip bool) map[string]map[string]bool {
	installed := make(map[string]map[string]bool)
	if skip {
		return installed
	}

	for _, spec := range rt.Effective.Packages {
		if _, done := installed[spec.Backend]; done {
			continue
		}
		backend, err := rt.Backend(spec.Backend)
		if err != nil {
			rt.logger.Warn().Err(err).Str("backend", spec.Backend).Msg("Package backend unavailable")
			installed[spec.Backend] = map[string]bool{}
			continue
		}
		set, err := backend.ListExplicit(ctx)
		if err != nil {
			rt.logger.Warn().Err(err).Str("backend", spec.Backend).Msg("Failed to list installed packages")
			set = map[string]bool{}
		}
		installed[spec.Backend] = set
	}
	return installed
}

// applyPackages executes install actions grouped per backend. Report-kind
// actions are never executed, only surfaced.
func (rt *Runtime) applyPackages(ctx context.Context, actions []types.PackageAction, dryRun bool) []PackageOutcome {
	outcomes := make([]PackageOutcome, 0, len(actions))

	installs := make(map[string][]string)
	for _, action := range actions {
		if action.Kind == types.PackageInstall {
			installs[action.Spec.Backend] = append(installs[action.Spec.Backend], action.Spec.Name)
		}
	}

	failures := make(map[string]error)
	if !dryRun {
		backends := make([]string, 0, len(installs))
		for name := range installs {
			backends = append(backends, name)
		}
		sort.Strings(backends)

		for _, name := range backends {
			backend, err := rt.Backend(name)
			if err == nil {
				err = backend.Install(ctx, installs[name])
			}
			if err != nil {
				failures[name] = err
				continue
			}
			for _, pkg := range installs[name] {
				rt.State.AddManagedPackage(pkg)
			}
		}
		if len(installs) > 0 {
			if err := rt.Store.Save(rt.State); err != nil {
				rt.logger.Error().Err(err).Msg("Failed to record installed packages")
			}
		}
	}

	for _, action := range actions {
		outcome := PackageOutcome{Action: action}
		switch {
		case action.Kind == types.PackageReport:
			outcome.Status = types.StatusSkipped
		case dryRun:
			outcome.Status = types.StatusSimulated
		case failures[action.Spec.Backend] != nil:
			outcome.Status = types.StatusFailed
			outcome.Err = failures[action.Spec.Backend]
		default:
			outcome.Status = types.StatusApplied
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

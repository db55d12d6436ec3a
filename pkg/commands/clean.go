package commands

import (
	"github.com/arthur-debert/owl/pkg/executor"
	"github.com/arthur-debert/owl/pkg/lockfile"
	"github.com/arthur-debert/owl/pkg/planner"
	"github.com/arthur-debert/owl/pkg/resolver"
	"github.com/arthur-debert/owl/pkg/types"
)

// CleanOptions configures a clean run.
type CleanOptions struct {
	DryRun   bool
	Mode     types.RunMode
	Force    bool
	Prompter resolver.Prompter
}

// Clean plans orphan removals only and routes them through the resolver.
// Nothing else in the plan is executed: clean never creates or updates.
func Clean(rt *Runtime, opts CleanOptions) (*ApplyResult, error) {
	lock, err := lockfile.Acquire(rt.Paths.LockFile())
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	sources := rt.Sources()
	full := planner.Plan(planner.Input{
		Config:       rt.Effective,
		State:        rt.State,
		Observations: rt.Observe(),
		Sources:      sources,
	})

	plan := &types.Plan{}
	for _, action := range full.Actions {
		if action.Kind == types.ActionRemove {
			plan.Actions = append(plan.Actions, action)
		}
	}

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

	return &ApplyResult{Plan: plan, Report: report}, nil
}

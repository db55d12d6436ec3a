package adopt

import (
	"context"
	"sort"

	"github.com/arthur-debert/owl/pkg/config"
	"github.com/arthur-debert/owl/pkg/pm"
	"github.com/arthur-debert/owl/pkg/types"
)

// PackageDecision is a per-package answer during package adoption.
type PackageDecision string

const (
	// DecisionAdopt writes the package into the config and marks it
	// managed.
	DecisionAdopt PackageDecision = "adopt"

	// DecisionIgnore marks the package untracked so it is never offered
	// or reported again.
	DecisionIgnore PackageDecision = "ignore"

	// DecisionSkip leaves the package alone for this run.
	DecisionSkip PackageDecision = "skip"

	// DecisionQuit stops the adoption pass.
	DecisionQuit PackageDecision = "quit"
)

// PackagePrompter asks what to do with one candidate package.
type PackagePrompter interface {
	Decide(name string) (PackageDecision, error)
}

// PackageResult summarizes an adoption pass.
type PackageResult struct {
	Adopted        []string
	MarkedManaged  []string
	Ignored        []string
	Skipped        []string
	NotInstalled   []string
	AlreadyManaged []string
}

// Empty reports whether the pass changed or surfaced anything.
func (r *PackageResult) Empty() bool {
	return len(r.Adopted) == 0 && len(r.MarkedManaged) == 0 && len(r.Ignored) == 0 &&
		len(r.Skipped) == 0 && len(r.NotInstalled) == 0 && len(r.AlreadyManaged) == 0
}

// DiscoverPackages returns the explicitly installed packages that are
// neither managed, untracked, nor configured: the adoption candidates.
func (a *Adopter) DiscoverPackages(ctx context.Context, backend pm.Backend, cfg *config.Effective) ([]string, error) {
	explicit, err := backend.ListExplicit(ctx)
	if err != nil {
		return nil, err
	}

	configured := make(map[string]bool)
	for _, spec := range cfg.Packages {
		if spec.Backend == backend.Name() {
			configured[spec.Name] = true
		}
	}

	var candidates []string
	for name := range explicit {
		if a.state.IsPackageManaged(name) || a.state.IsPackageUntracked(name) || configured[name] {
			continue
		}
		candidates = append(candidates, name)
	}
	sort.Strings(candidates)
	return candidates, nil
}

// AdoptPackages runs the adoption flow over the given candidates. When
// names is empty, candidates are discovered from the backend. Each adopted
// package is appended to the user's config file and marked managed; the
// state snapshot is saved once at the end when anything changed.
func (a *Adopter) AdoptPackages(ctx context.Context, backend pm.Backend, cfg *config.Effective, names []string, prompter PackagePrompter) (*PackageResult, error) {
	result := &PackageResult{}

	discover := len(names) == 0
	var targets []string
	if discover {
		var err error
		targets, err = a.DiscoverPackages(ctx, backend, cfg)
		if err != nil {
			return nil, err
		}
	} else {
		targets = dedupe(names)
	}

	installed, err := backend.Installed(ctx)
	if err != nil {
		return nil, err
	}

	configured := make(map[string]bool)
	for _, spec := range cfg.Packages {
		if spec.Backend == backend.Name() {
			configured[spec.Name] = true
		}
	}

	changed := false
	for _, name := range targets {
		switch {
		case a.state.IsPackageManaged(name):
			result.AlreadyManaged = append(result.AlreadyManaged, name)
			continue
		case discover && a.state.IsPackageUntracked(name):
			result.Skipped = append(result.Skipped, name)
			continue
		case !installed[name]:
			result.NotInstalled = append(result.NotInstalled, name)
			continue
		case configured[name]:
			// Already in the config; only the state claim was missing.
			a.state.AddManagedPackage(name)
			changed = true
			result.MarkedManaged = append(result.MarkedManaged, name)
			continue
		}

		decision := DecisionAdopt
		if prompter != nil {
			decision, err = prompter.Decide(name)
			if err != nil {
				return nil, err
			}
		}

		switch decision {
		case DecisionAdopt:
			spec := types.PackageSpec{Name: name, Backend: backend.Name()}
			added, err := config.AppendPackage(a.paths.ConfigFile(), spec)
			if err != nil {
				return nil, err
			}
			a.state.AddManagedPackage(name)
			changed = true
			if added {
				result.Adopted = append(result.Adopted, name)
			} else {
				result.MarkedManaged = append(result.MarkedManaged, name)
			}
		case DecisionIgnore:
			a.state.AddUntrackedPackage(name)
			changed = true
			result.Ignored = append(result.Ignored, name)
		case DecisionSkip:
			result.Skipped = append(result.Skipped, name)
		case DecisionQuit:
			goto done
		}
	}

done:
	if changed {
		if err := a.store.Save(a.state); err != nil {
			return result, err
		}
	}
	return result, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

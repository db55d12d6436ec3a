// Package commands implements owl's operations end to end: each CLI
// command maps to one function here, wired through the planner, resolver,
// and executor. The CLI layer in cmd/owl only parses flags and renders.
package commands

import (
	"github.com/rs/zerolog"

	"github.com/arthur-debert/owl/pkg/config"
	"github.com/arthur-debert/owl/pkg/executor"
	"github.com/arthur-debert/owl/pkg/filesystem"
	"github.com/arthur-debert/owl/pkg/inspect"
	"github.com/arthur-debert/owl/pkg/logging"
	"github.com/arthur-debert/owl/pkg/paths"
	"github.com/arthur-debert/owl/pkg/pm"
	"github.com/arthur-debert/owl/pkg/statestore"
	"github.com/arthur-debert/owl/pkg/types"
)

// RuntimeOptions configures a run's environment.
type RuntimeOptions struct {
	// SourceRoot overrides the source tree location.
	SourceRoot string

	// Host overrides host resolution (also overridable via OWL_HOST).
	Host string

	// FS overrides the filesystem, for tests.
	FS types.FS

	// OpenBackend overrides package backend construction, for tests.
	OpenBackend func(name string) (pm.Backend, error)
}

// Runtime holds everything a command needs for one run: resolved paths,
// the loaded configuration reduced for this host, and the single state
// snapshot used throughout the run.
type Runtime struct {
	Paths     paths.Paths
	FS        types.FS
	Host      string
	Config    *config.Config
	Effective *config.Effective
	Store     *statestore.Store
	State     *statestore.State

	openBackend func(name string) (pm.Backend, error)
	logger      zerolog.Logger
}

// NewRuntime resolves the environment and loads configuration and state.
// Configuration errors fail here, before anything can mutate.
func NewRuntime(opts RuntimeOptions) (*Runtime, error) {
	p, err := paths.New(opts.SourceRoot)
	if err != nil {
		return nil, err
	}

	host := opts.Host
	if host == "" {
		host, err = paths.ResolveHost()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(p, host)
	if err != nil {
		return nil, err
	}
	if cfg.Settings.SourceRoot != "" && opts.SourceRoot == "" {
		// The config file can relocate the source tree.
		p, err = paths.New(cfg.Settings.SourceRoot)
		if err != nil {
			return nil, err
		}
	}

	eff, err := cfg.ForHost(host)
	if err != nil {
		return nil, err
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	store := statestore.New(fsys, p.StateFile())
	state := store.Load()

	open := opts.OpenBackend
	if open == nil {
		open = pm.Open
	}

	return &Runtime{
		Paths:       p,
		FS:          fsys,
		Host:        host,
		Config:      cfg,
		Effective:   eff,
		Store:       store,
		State:       state,
		openBackend: open,
		logger:      logging.GetLogger("commands"),
	}, nil
}

// Sources resolves every effective entry's source file: absolute path and
// content fingerprint. Template entries are rendered here so the desired
// fingerprint matches what execution would put on disk. Missing sources
// are flagged, not fatal.
func (rt *Runtime) Sources() map[string]types.SourceInfo {
	out := make(map[string]types.SourceInfo, len(rt.Effective.Entries))
	for _, entry := range rt.Effective.Entries {
		info := types.SourceInfo{AbsPath: rt.Paths.SourcePath(entry.Source)}
		if entry.Mode == types.LinkModeTemplate {
			data, err := executor.RenderTemplate(rt.FS, info.AbsPath, rt.Host)
			if err != nil {
				info.Missing = true
			} else {
				info.Fingerprint = inspect.HashBytes(data)
			}
			out[entry.Target] = info
			continue
		}
		sum, err := inspect.HashFile(rt.FS, info.AbsPath)
		if err != nil {
			info.Missing = true
		} else {
			info.Fingerprint = sum
		}
		out[entry.Target] = info
	}
	return out
}

// Observe probes every path the run cares about: all effective targets
// plus every recorded target, so orphans are observed too.
func (rt *Runtime) Observe() map[string]types.FilesystemObservation {
	seen := make(map[string]bool)
	var targets []string
	for _, target := range rt.Effective.Targets() {
		if !seen[target] {
			seen[target] = true
			targets = append(targets, target)
		}
	}
	for _, target := range rt.State.Targets() {
		if !seen[target] {
			seen[target] = true
			targets = append(targets, target)
		}
	}
	return inspect.New(rt.FS).Observe(targets)
}

// Backend opens the named package backend.
func (rt *Runtime) Backend(name string) (pm.Backend, error) {
	return rt.openBackend(name)
}

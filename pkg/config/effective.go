package config

import (
	"path/filepath"
	"sort"

	"github.com/arthur-debert/owl/pkg/errors"
	"github.com/arthur-debert/owl/pkg/paths"
	"github.com/arthur-debert/owl/pkg/types"
)

// ForHost reduces the configuration to the effective configuration for one
// host: host filters are applied once here, targets are expanded to absolute
// paths, and duplicate targets are rejected before any planning happens.
func (c *Config) ForHost(host string) (*Effective, error) {
	eff := &Effective{
		Host:     host,
		Settings: c.Settings,
		byTarget: make(map[string]*types.ManagedEntry),
	}

	seen := make(map[string]string)
	for _, entry := range c.Entries {
		if !entry.Hosts.Matches(host) {
			continue
		}

		target, err := paths.ExpandHome(entry.Target)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "target %q", entry.Target)
		}
		if !filepath.IsAbs(target) {
			return nil, errors.Newf(errors.ErrConfigInvalid, "target %q is not an absolute path", entry.Target)
		}
		target = filepath.Clean(target)

		if prevSource, ok := seen[target]; ok {
			return nil, errors.Newf(errors.ErrConfigDuplicate,
				"target %s claimed by both %q and %q", target, prevSource, entry.Source)
		}
		seen[target] = entry.Source

		resolved := entry
		resolved.Target = target
		eff.Entries = append(eff.Entries, resolved)
	}

	// Deterministic order: parents before the entries inside them.
	sort.Slice(eff.Entries, func(i, j int) bool {
		return types.PathLess(eff.Entries[i].Target, eff.Entries[j].Target)
	})
	for i := range eff.Entries {
		eff.byTarget[eff.Entries[i].Target] = &eff.Entries[i]
	}

	for _, spec := range c.Packages {
		if spec.Hosts.Matches(host) {
			eff.Packages = append(eff.Packages, spec)
		}
	}
	sort.Slice(eff.Packages, func(i, j int) bool {
		return eff.Packages[i].Key() < eff.Packages[j].Key()
	})

	return eff, nil
}

package config

import (
	"io/fs"

	"github.com/arthur-debert/owl/pkg/types"
)

// Settings holds run-wide defaults from the [settings] table.
type Settings struct {
	// SourceRoot is where managed dotfile sources live. Empty means the
	// pkg/paths default (~/.owl or OWL_SOURCE_ROOT).
	SourceRoot string `koanf:"source_root"`

	// Backend is the default package backend for specs that do not name
	// one explicitly.
	Backend string `koanf:"backend"`

	// LinkMode is the default link mode for entries that do not name one.
	LinkMode string `koanf:"link_mode"`
}

// rawEntry mirrors one [[dots]] table before validation.
type rawEntry struct {
	Source      string   `koanf:"source"`
	Target      string   `koanf:"target"`
	Mode        string   `koanf:"mode"`
	Hosts       []string `koanf:"hosts"`
	Permissions int64    `koanf:"permissions"`
}

// rawPackage mirrors one [[package]] table before validation.
type rawPackage struct {
	Name    string   `koanf:"name"`
	Backend string   `koanf:"backend"`
	Hosts   []string `koanf:"hosts"`
}

// rawConfig mirrors the full file layout.
type rawConfig struct {
	Settings Settings     `koanf:"settings"`
	Dots     []rawEntry   `koanf:"dots"`
	Package  []rawPackage `koanf:"package"`

	// Packages is a shorthand list of package names using the default
	// backend, equivalent to one [[package]] table per name.
	Packages []string `koanf:"packages"`
}

// Config is the validated, unfiltered configuration: every entry and
// package spec, including ones whose host filter excludes this host.
type Config struct {
	Settings Settings
	Entries  []types.ManagedEntry
	Packages []types.PackageSpec
}

// Effective is the host-filtered configuration consumed by the planner.
// Targets are fully expanded absolute paths and unique.
type Effective struct {
	Host     string
	Settings Settings
	Entries  []types.ManagedEntry
	Packages []types.PackageSpec

	// byTarget indexes entries by expanded target path.
	byTarget map[string]*types.ManagedEntry
}

// Entry returns the effective entry for an expanded target path, if any.
func (e *Effective) Entry(target string) (*types.ManagedEntry, bool) {
	entry, ok := e.byTarget[target]
	return entry, ok
}

// Targets returns every effective target path, in entry order.
func (e *Effective) Targets() []string {
	out := make([]string, 0, len(e.Entries))
	for i := range e.Entries {
		out = append(out, e.Entries[i].Target)
	}
	return out
}

func permMode(v int64) fs.FileMode {
	if v <= 0 {
		return 0
	}
	return fs.FileMode(v) & fs.ModePerm
}

package types

import (
	"fmt"
	"io/fs"
	"strings"
)

// LinkMode determines how a managed entry's source is materialized at its
// target location.
type LinkMode string

const (
	// LinkModeSymlink places a symbolic link at the target pointing into
	// the configuration source tree.
	LinkModeSymlink LinkMode = "symlink"

	// LinkModeCopy writes a byte-for-byte copy of the source at the target.
	LinkModeCopy LinkMode = "copy"

	// LinkModeTemplate renders the source as a template before writing it
	// to the target. Template output is always written as a regular file.
	LinkModeTemplate LinkMode = "template"
)

// ParseLinkMode parses a string into a LinkMode value.
func ParseLinkMode(s string) (LinkMode, error) {
	switch LinkMode(strings.ToLower(strings.TrimSpace(s))) {
	case LinkModeSymlink, "":
		return LinkModeSymlink, nil
	case LinkModeCopy:
		return LinkModeCopy, nil
	case LinkModeTemplate:
		return LinkModeTemplate, nil
	default:
		return "", fmt.Errorf("unknown link mode: %q", s)
	}
}

// HostFilter restricts an entry or package to a set of hosts. An empty
// filter matches every host.
type HostFilter []string

// Matches reports whether the filter applies on the given host.
func (f HostFilter) Matches(host string) bool {
	if len(f) == 0 {
		return true
	}
	for _, h := range f {
		if h == host {
			return true
		}
	}
	return false
}

// ManagedEntry is one desired dotfile mapping from the configuration.
// Identity is the Target path: after host filtering, no two entries in the
// effective configuration may claim the same target.
type ManagedEntry struct {
	// Source is the path of the file inside the configuration source tree,
	// relative to the source root.
	Source string

	// Target is the absolute destination path (may use ~ for $HOME).
	Target string

	// Mode determines how Source is materialized at Target.
	Mode LinkMode

	// Hosts restricts the entry to specific hosts. Empty means all hosts.
	Hosts HostFilter

	// Permissions, when nonzero, is applied to the target after writing.
	// Ignored for symlinks.
	Permissions fs.FileMode
}

// PackageSpec is one desired package. Identity is (Backend, Name).
type PackageSpec struct {
	Name    string
	Backend string
	Hosts   HostFilter
}

// Key returns the identity key for the spec.
func (p PackageSpec) Key() string {
	return p.Backend + "/" + p.Name
}

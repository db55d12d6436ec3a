package commands

import (
	"path/filepath"

	"github.com/arthur-debert/owl/pkg/config"
	"github.com/arthur-debert/owl/pkg/errors"
	"github.com/arthur-debert/owl/pkg/paths"
	"github.com/arthur-debert/owl/pkg/types"
)

// AddOptions configures entry registration.
type AddOptions struct {
	Mode  types.LinkMode
	Hosts []string
}

// Add registers a managed entry for a file that already lives in the
// source tree. The entry is appended to the user's config; the next apply
// materializes it.
func Add(rt *Runtime, source, target string, opts AddOptions) (types.ManagedEntry, error) {
	var entry types.ManagedEntry

	sourceAbs := rt.Paths.SourcePath(source)
	if _, err := rt.FS.Lstat(sourceAbs); err != nil {
		return entry, errors.Wrapf(err, errors.ErrFileNotFound, "source %s not found in %s", source, rt.Paths.SourceRoot())
	}

	expanded, err := paths.ExpandHome(target)
	if err != nil {
		return entry, errors.Wrapf(err, errors.ErrInvalidInput, "target %q", target)
	}
	if !filepath.IsAbs(expanded) {
		return entry, errors.Newf(errors.ErrInvalidInput, "target %q is not an absolute path", target)
	}

	if _, exists := rt.Effective.Entry(filepath.Clean(expanded)); exists {
		return entry, errors.Newf(errors.ErrAlreadyExists, "target %s is already configured", target)
	}

	mode := opts.Mode
	if mode == "" {
		mode, err = types.ParseLinkMode(rt.Config.Settings.LinkMode)
		if err != nil {
			mode = types.LinkModeSymlink
		}
	}

	entry = types.ManagedEntry{
		Source: source,
		Target: target,
		Mode:   mode,
		Hosts:  types.HostFilter(opts.Hosts),
	}
	if err := config.AppendEntry(rt.Paths.ConfigFile(), entry); err != nil {
		return entry, err
	}
	return entry, nil
}

package adopt

import (
	"io/fs"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/owl/pkg/config"
	"github.com/arthur-debert/owl/pkg/errors"
	"github.com/arthur-debert/owl/pkg/inspect"
	"github.com/arthur-debert/owl/pkg/logging"
	"github.com/arthur-debert/owl/pkg/paths"
	"github.com/arthur-debert/owl/pkg/statestore"
	"github.com/arthur-debert/owl/pkg/types"
)

// FileOptions configures a file adoption.
type FileOptions struct {
	// Source is the path of the new source file relative to the source
	// root. Empty derives it from the target's base name.
	Source string

	// Mode is the link mode for the adopted entry.
	Mode types.LinkMode
}

// Adopter folds existing files into the configuration and state.
type Adopter struct {
	fs     types.FS
	paths  paths.Paths
	store  *statestore.Store
	state  *statestore.State
	logger zerolog.Logger
}

// NewAdopter creates an adopter over the current run's state snapshot.
func NewAdopter(fsys types.FS, p paths.Paths, store *statestore.Store, state *statestore.State) *Adopter {
	return &Adopter{
		fs:     fsys,
		paths:  p,
		store:  store,
		state:  state,
		logger: logging.GetLogger("adopt"),
	}
}

// AdoptFile takes ownership of an existing unmanaged file: its content
// moves into the source tree, the original is replaced per the link mode,
// and a managed entry plus state record are written. Fails with
// ADOPT_CONFLICT when the target is already managed.
func (a *Adopter) AdoptFile(target string, opts FileOptions) (types.ManagedEntry, error) {
	var entry types.ManagedEntry

	expanded, err := paths.ExpandHome(target)
	if err != nil {
		return entry, errors.Wrapf(err, errors.ErrInvalidInput, "target %q", target)
	}
	expanded = filepath.Clean(expanded)
	if !filepath.IsAbs(expanded) {
		return entry, errors.Newf(errors.ErrInvalidInput, "target %q is not an absolute path", target)
	}

	if _, managed := a.state.Record(expanded); managed {
		return entry, errors.Newf(errors.ErrAdoptConflict, "%s is already managed", expanded)
	}

	info, err := a.fs.Lstat(expanded)
	if err != nil {
		return entry, errors.Wrapf(err, errors.ErrFileNotFound, "cannot adopt %s", expanded)
	}
	if info.IsDir() {
		return entry, errors.Newf(errors.ErrInvalidInput, "cannot adopt a directory: %s", expanded)
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		return entry, errors.Newf(errors.ErrInvalidInput, "cannot adopt a symlink: %s", expanded)
	}

	data, err := a.fs.ReadFile(expanded)
	if err != nil {
		return entry, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", expanded)
	}
	fingerprint := inspect.HashBytes(data)

	source := opts.Source
	if source == "" {
		source = filepath.Base(expanded)
	}
	mode := opts.Mode
	if mode == "" {
		mode = types.LinkModeSymlink
	}

	sourceAbs := a.paths.SourcePath(source)
	if _, err := a.fs.Lstat(sourceAbs); err == nil {
		return entry, errors.Newf(errors.ErrAdoptConflict, "source %s already exists", sourceAbs)
	}

	if err := a.fs.MkdirAll(filepath.Dir(sourceAbs), 0755); err != nil {
		return entry, errors.Wrapf(err, errors.ErrDirCreate, "failed to create source directory for %s", sourceAbs)
	}
	if err := a.fs.WriteFile(sourceAbs, data, info.Mode().Perm()); err != nil {
		return entry, errors.Wrapf(err, errors.ErrFileWrite, "failed to write source %s", sourceAbs)
	}

	// Replace the original with the configured link mode. For copy mode
	// the original already is the desired content, so only symlink mode
	// swaps the file out.
	if mode == types.LinkModeSymlink {
		if err := a.replaceWithLink(expanded, sourceAbs); err != nil {
			// Roll the source copy back so a failed adoption leaves no
			// half-adopted residue behind.
			_ = a.fs.Remove(sourceAbs)
			return entry, err
		}
	}

	entry = types.ManagedEntry{
		Source: source,
		Target: expanded,
		Mode:   mode,
	}

	a.state.Set(types.StateRecord{
		Target:       expanded,
		Fingerprint:  fingerprint,
		Mode:         mode,
		ManagedSince: time.Now().UTC(),
	})
	if err := a.store.Save(a.state); err != nil {
		return entry, err
	}

	a.logger.Info().Str("target", expanded).Str("source", source).Msg("Adopted file")
	return entry, nil
}

// AdoptAndRegister adopts the file and appends the entry to the user's
// config file so the next run plans it.
func (a *Adopter) AdoptAndRegister(target string, opts FileOptions) (types.ManagedEntry, error) {
	entry, err := a.AdoptFile(target, opts)
	if err != nil {
		return entry, err
	}
	if err := config.AppendEntry(a.paths.ConfigFile(), entry); err != nil {
		return entry, err
	}
	return entry, nil
}

// replaceWithLink atomically swaps the original file for a symlink to the
// adopted source.
func (a *Adopter) replaceWithLink(target, sourceAbs string) error {
	tmp := target + ".owl-tmp"
	_ = a.fs.Remove(tmp)
	if err := a.fs.Symlink(sourceAbs, tmp); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to create symlink for %s", target)
	}
	if err := a.fs.Rename(tmp, target); err != nil {
		_ = a.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to replace %s", target)
	}
	return nil
}

// Package executor applies an approved plan to the filesystem.
//
// Mutations are atomic per target: content is written to a temporary path
// in the destination directory and renamed into place, so no partially
// written target is ever observable. The state store is updated after each
// committed mutation; a state write failure aborts the rest of the run
// because later actions' correctness assumes the store is current.
package executor

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/owl/pkg/errors"
	"github.com/arthur-debert/owl/pkg/filesystem"
	"github.com/arthur-debert/owl/pkg/inspect"
	"github.com/arthur-debert/owl/pkg/logging"
	"github.com/arthur-debert/owl/pkg/statestore"
	"github.com/arthur-debert/owl/pkg/types"
)

// tmpSuffix marks in-flight writes. Temp files live in the destination
// directory so the final rename never crosses a filesystem boundary.
const tmpSuffix = ".owl-tmp"

// Options contains configuration for the executor.
type Options struct {
	FS     types.FS
	Store  *statestore.Store
	State  *statestore.State
	Host   string
	DryRun bool
	Logger zerolog.Logger
}

// Executor applies resolved plans.
type Executor struct {
	fs     types.FS
	store  *statestore.Store
	state  *statestore.State
	host   string
	dryRun bool
	logger zerolog.Logger
}

// New creates a new executor instance.
func New(opts Options) *Executor {
	logger := opts.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("executor")
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	return &Executor{
		fs:     fsys,
		store:  opts.Store,
		state:  opts.State,
		host:   opts.Host,
		dryRun: opts.DryRun,
		logger: logger,
	}
}

// Execute applies the resolved plan in order. sources must cover every
// create/update target. The returned report has the same shape for dry and
// real runs.
func (e *Executor) Execute(plan *types.ResolvedPlan, sources map[string]types.SourceInfo) *types.ExecutionReport {
	report := &types.ExecutionReport{
		Packages:  plan.Packages,
		Simulated: e.dryRun,
	}

	for _, ra := range plan.Actions {
		start := time.Now()
		result := e.executeOne(ra, sources)
		result.Duration = time.Since(start)
		report.Results = append(report.Results, result)

		if result.Err != nil && errors.IsErrorCode(result.Err, errors.ErrStateWrite) {
			// The store no longer reflects reality; nothing after this
			// point can be trusted to plan correctly.
			report.Aborted = true
			report.AbortedBy = result.Err
			e.logger.Error().Err(result.Err).Msg("State store write failed, aborting run")
			break
		}
	}

	return report
}

func (e *Executor) executeOne(ra types.ResolvedAction, sources map[string]types.SourceInfo) types.ActionResult {
	action := ra.Action
	result := types.ActionResult{Action: action}

	if ra.Decision == types.DecisionSkipped {
		result.Status = types.StatusSkipped
		result.Reason = ra.Reason
		return result
	}

	if action.Kind == types.ActionSkip {
		result.Status = types.StatusUnchanged
		result.Reason = action.Rationale
		return result
	}

	e.logger.Debug().
		Str("kind", string(action.Kind)).
		Str("target", action.Target).
		Bool("dry_run", e.dryRun).
		Msg("Executing action")

	switch action.Kind {
	case types.ActionCreate, types.ActionUpdate, types.ActionConflict:
		// A conflict reaches this point only with an explicit approval;
		// it then proceeds like an update and overwrites the target.
		return e.apply(action, sources, result)
	case types.ActionRemove:
		return e.remove(action, result)
	default:
		result.Status = types.StatusFailed
		result.Err = errors.Newf(errors.ErrInternal, "unexecutable action kind %q", action.Kind)
		return result
	}
}

// apply materializes a create or update.
func (e *Executor) apply(action types.Action, sources map[string]types.SourceInfo, result types.ActionResult) types.ActionResult {
	src, ok := sources[action.Target]
	if !ok || src.Missing {
		result.Status = types.StatusFailed
		result.Err = errors.Newf(errors.ErrFileNotFound, "no source for %s", action.Target)
		return result
	}

	if e.dryRun {
		if err := e.checkPreconditions(action); err != nil {
			result.Status = types.StatusFailed
			result.Err = err
			return result
		}
		result.Status = types.StatusSimulated
		result.Reason = fmt.Sprintf("would %s %s", action.Kind, action.Target)
		return result
	}

	parent := filepath.Dir(action.Target)
	if err := e.fs.MkdirAll(parent, 0755); err != nil {
		result.Status = types.StatusFailed
		result.Err = errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", parent)
		return result
	}

	applied, err := e.materialize(action.Entry, src)
	if err != nil {
		result.Status = types.StatusFailed
		result.Err = err
		return result
	}

	rec := types.StateRecord{
		Target:       action.Target,
		Fingerprint:  applied,
		Mode:         action.Entry.Mode,
		ManagedSince: time.Now().UTC(),
	}
	if prev, ok := e.state.Record(action.Target); ok {
		rec.ManagedSince = prev.ManagedSince
	}
	e.state.Set(rec)

	if err := e.store.Save(e.state); err != nil {
		result.Status = types.StatusFailed
		result.Err = err
		return result
	}

	result.Status = types.StatusApplied
	return result
}

// materialize writes the entry's desired form at the target and returns
// the fingerprint of what the target now holds.
func (e *Executor) materialize(entry *types.ManagedEntry, src types.SourceInfo) (string, error) {
	switch entry.Mode {
	case types.LinkModeSymlink:
		return src.Fingerprint, e.placeSymlink(src.AbsPath, entry.Target)

	case types.LinkModeCopy:
		data, err := e.fs.ReadFile(src.AbsPath)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to read source %s", src.AbsPath)
		}
		return inspect.HashBytes(data), e.placeFile(entry, data)

	case types.LinkModeTemplate:
		data, err := e.render(src.AbsPath)
		if err != nil {
			return "", err
		}
		return inspect.HashBytes(data), e.placeFile(entry, data)

	default:
		return "", errors.Newf(errors.ErrInternal, "unknown link mode %q", entry.Mode)
	}
}

// placeFile writes data to a temp file next to the target and renames it
// into place. The temp file is removed on any failure.
func (e *Executor) placeFile(entry *types.ManagedEntry, data []byte) error {
	perm := entry.Permissions
	if perm == 0 {
		perm = 0644
	}

	tmp := entry.Target + tmpSuffix
	if err := e.fs.WriteFile(tmp, data, perm); err != nil {
		_ = e.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", tmp)
	}
	// WriteFile perm is masked by umask; make the requested bits stick.
	if entry.Permissions != 0 {
		if err := e.fs.Chmod(tmp, perm); err != nil {
			_ = e.fs.Remove(tmp)
			return errors.Wrapf(err, errors.ErrFileWrite, "failed to chmod %s", tmp)
		}
	}

	// An existing symlink must go first: renaming over a symlink replaces
	// the link itself, which is what we want, but an existing directory
	// was already rejected by the planner.
	if err := e.fs.Rename(tmp, entry.Target); err != nil {
		_ = e.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to replace %s", entry.Target)
	}
	return nil
}

// placeSymlink creates the link at a temp name and renames it over the
// target so the swap is atomic.
func (e *Executor) placeSymlink(source, target string) error {
	tmp := target + tmpSuffix
	_ = e.fs.Remove(tmp)
	if err := e.fs.Symlink(source, tmp); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to create symlink for %s", target)
	}
	if err := e.fs.Rename(tmp, target); err != nil {
		_ = e.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to replace %s", target)
	}
	return nil
}

// remove deletes an orphaned target and its record.
func (e *Executor) remove(action types.Action, result types.ActionResult) types.ActionResult {
	if e.dryRun {
		result.Status = types.StatusSimulated
		result.Reason = fmt.Sprintf("would remove %s", action.Target)
		return result
	}

	if err := e.fs.Remove(action.Target); err != nil && !os.IsNotExist(err) {
		result.Status = types.StatusFailed
		result.Err = errors.Wrapf(err, errors.ErrFileAccess, "failed to remove %s", action.Target)
		return result
	}

	e.state.Delete(action.Target)
	if err := e.store.Save(e.state); err != nil {
		result.Status = types.StatusFailed
		result.Err = err
		return result
	}

	result.Status = types.StatusApplied
	return result
}

// checkPreconditions performs the reads a real apply would need, without
// mutating anything. Used by dry runs so their failure set matches a real
// run's.
func (e *Executor) checkPreconditions(action types.Action) error {
	// Walk up to the nearest existing ancestor; it must be a directory
	// for MkdirAll to succeed.
	dir := filepath.Dir(action.Target)
	for dir != "/" && dir != "." {
		info, err := e.fs.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				return errors.Newf(errors.ErrDirCreate, "%s exists and is not a directory", dir)
			}
			return nil
		}
		if !os.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", dir)
		}
		dir = filepath.Dir(dir)
	}
	return nil
}

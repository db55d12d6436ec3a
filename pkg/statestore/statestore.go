// Package statestore persists what the engine previously applied: one TOML
// file mapping target path to state record, plus the managed/untracked
// package lists.
//
// A missing or corrupt state file is never fatal. It degrades to empty
// state, which re-evaluates every target as create-or-conflict and so can
// never cause data loss. Write failures ARE fatal to the run: later actions
// assume the store reflects every committed mutation.
package statestore

import (
	"os"
	"path/filepath"
	"sort"

	gotoml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/owl/pkg/errors"
	"github.com/arthur-debert/owl/pkg/logging"
	"github.com/arthur-debert/owl/pkg/types"
)

// PackageState tracks package ownership beyond the config file: Managed is
// what the engine installed, Untracked is what the user told adoption to
// ignore.
type PackageState struct {
	Managed   []string `toml:"managed"`
	Untracked []string `toml:"untracked"`
}

// State is the in-memory snapshot of the store. One snapshot is loaded at
// the start of a run and used throughout; components never re-read the file
// mid-run.
type State struct {
	Records  map[string]types.StateRecord `toml:"records"`
	Packages PackageState                 `toml:"packages"`
}

// NewState returns an empty state snapshot.
func NewState() *State {
	return &State{Records: make(map[string]types.StateRecord)}
}

// Record returns the record for a target, if any.
func (s *State) Record(target string) (types.StateRecord, bool) {
	rec, ok := s.Records[target]
	return rec, ok
}

// Set inserts or replaces a record.
func (s *State) Set(rec types.StateRecord) {
	s.Records[rec.Target] = rec
}

// Delete removes the record for a target.
func (s *State) Delete(target string) {
	delete(s.Records, target)
}

// Targets returns every recorded target in sorted order.
func (s *State) Targets() []string {
	out := make([]string, 0, len(s.Records))
	for target := range s.Records {
		out = append(out, target)
	}
	sort.Strings(out)
	return out
}

// IsPackageManaged reports whether the engine owns the named package.
func (s *State) IsPackageManaged(name string) bool {
	return contains(s.Packages.Managed, name)
}

// IsPackageUntracked reports whether the user chose to ignore the package.
func (s *State) IsPackageUntracked(name string) bool {
	return contains(s.Packages.Untracked, name)
}

// AddManagedPackage records the engine as owner of the package.
func (s *State) AddManagedPackage(name string) {
	s.Packages.Untracked = remove(s.Packages.Untracked, name)
	if !contains(s.Packages.Managed, name) {
		s.Packages.Managed = append(s.Packages.Managed, name)
		sort.Strings(s.Packages.Managed)
	}
}

// AddUntrackedPackage marks the package as deliberately ignored.
func (s *State) AddUntrackedPackage(name string) {
	s.Packages.Managed = remove(s.Packages.Managed, name)
	if !contains(s.Packages.Untracked, name) {
		s.Packages.Untracked = append(s.Packages.Untracked, name)
		sort.Strings(s.Packages.Untracked)
	}
}

// RemoveManagedPackage drops the engine's ownership claim.
func (s *State) RemoveManagedPackage(name string) {
	s.Packages.Managed = remove(s.Packages.Managed, name)
}

func contains(list []string, name string) bool {
	for _, item := range list {
		if item == name {
			return true
		}
	}
	return false
}

func remove(list []string, name string) []string {
	out := list[:0]
	for _, item := range list {
		if item != name {
			out = append(out, item)
		}
	}
	return out
}

// Store reads and writes the state file.
type Store struct {
	path   string
	fs     types.FS
	logger zerolog.Logger
}

// New creates a store for the given state file path.
func New(fs types.FS, path string) *Store {
	return &Store{
		path:   path,
		fs:     fs,
		logger: logging.GetLogger("statestore"),
	}
}

// Path returns the state file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the state file. Missing and corrupt files degrade to empty
// state with a warning.
func (s *Store) Load() *State {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug().Str("path", s.path).Msg("No prior state")
		} else {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("State file unreadable, treating as empty")
		}
		return NewState()
	}

	state := NewState()
	if err := gotoml.Unmarshal(data, state); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("State file corrupt, treating as empty")
		return NewState()
	}
	if state.Records == nil {
		state.Records = make(map[string]types.StateRecord)
	}
	return state
}

// Save writes the snapshot atomically: marshal, write a temp file beside
// the target, rename into place.
func (s *Store) Save(state *State) error {
	data, err := gotoml.Marshal(state)
	if err != nil {
		return errors.Wrap(err, errors.ErrStateWrite, "failed to marshal state")
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrStateWrite, "failed to create state directory %s", dir)
	}

	tmp := s.path + ".tmp"
	if err := s.fs.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrStateWrite, "failed to write %s", tmp)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrStateWrite, "failed to replace %s", s.path)
	}

	s.logger.Trace().Str("path", s.path).Int("records", len(state.Records)).Msg("State saved")
	return nil
}

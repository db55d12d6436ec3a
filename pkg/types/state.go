package types

import "time"

// StateRecord is a persisted fact the engine previously established for a
// target path. Records are owned exclusively by the state store.
type StateRecord struct {
	// Target is the absolute destination path the record describes.
	Target string `toml:"target"`

	// Fingerprint is the SHA-256 hex digest of the last-applied source
	// content.
	Fingerprint string `toml:"fingerprint"`

	// Mode is the link mode that was applied.
	Mode LinkMode `toml:"mode"`

	// ManagedSince is when the engine first took ownership of the target.
	ManagedSince time.Time `toml:"managed_since"`
}

// FileKind classifies what the inspector found at a target path.
type FileKind string

const (
	KindNone    FileKind = "none"
	KindFile    FileKind = "file"
	KindSymlink FileKind = "symlink"
	KindDir     FileKind = "dir"
)

// FilesystemObservation is a point-in-time, read-only probe of one target
// path. Observations are recomputed every run and never persisted.
type FilesystemObservation struct {
	Target string

	// Exists is false when nothing is present at Target.
	Exists bool

	// Kind is what was found at Target (lstat, so symlinks are reported
	// as symlinks, not their destinations).
	Kind FileKind

	// LinkDest is the symlink destination when Kind is KindSymlink.
	LinkDest string

	// Fingerprint is the SHA-256 hex digest of the content visible at
	// Target (following symlinks). Empty for directories and missing paths.
	Fingerprint string
}

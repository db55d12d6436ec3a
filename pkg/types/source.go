package types

// SourceInfo describes one entry's desired content, resolved from the
// configuration source tree before planning.
type SourceInfo struct {
	// AbsPath is the absolute path of the source file inside the source
	// tree. Symlink targets point here.
	AbsPath string

	// Fingerprint is the SHA-256 digest of the source content.
	Fingerprint string

	// Missing is set when the source file does not exist; the entry is
	// then planned as a conflict rather than failing the whole run.
	Missing bool
}

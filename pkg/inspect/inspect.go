// Package inspect probes the live filesystem. Probes are read-only and
// order-independent, so they fan out across a small worker pool; nothing
// here ever mutates the filesystem.
package inspect

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/owl/pkg/logging"
	"github.com/arthur-debert/owl/pkg/types"
)

// defaultWorkers bounds the probe fan-out. Dotfile sets are small; this is
// about not serializing hash I/O, not about saturating the disk.
const defaultWorkers = 8

// Inspector performs read-only filesystem probes.
type Inspector struct {
	fs      types.FS
	workers int
	logger  zerolog.Logger
}

// New creates an inspector over the given filesystem.
func New(fsys types.FS) *Inspector {
	return &Inspector{
		fs:      fsys,
		workers: defaultWorkers,
		logger:  logging.GetLogger("inspect"),
	}
}

// Observe probes every target path and returns one observation per target.
// Probe errors (unreadable content, permission denied on stat) are reported
// as an existing entry without a fingerprint rather than failing the run;
// the planner then surfaces those targets as conflicts.
func (i *Inspector) Observe(targets []string) map[string]types.FilesystemObservation {
	results := make(map[string]types.FilesystemObservation, len(targets))
	if len(targets) == 0 {
		return results
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	work := make(chan string)

	workers := i.workers
	if workers > len(targets) {
		workers = len(targets)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for target := range work {
				obs := i.observeOne(target)
				mu.Lock()
				results[target] = obs
				mu.Unlock()
			}
		}()
	}

	for _, target := range targets {
		work <- target
	}
	close(work)
	wg.Wait()

	return results
}

// ObserveOne probes a single target path.
func (i *Inspector) ObserveOne(target string) types.FilesystemObservation {
	return i.observeOne(target)
}

func (i *Inspector) observeOne(target string) types.FilesystemObservation {
	obs := types.FilesystemObservation{Target: target, Kind: types.KindNone}

	info, err := i.fs.Lstat(target)
	if err != nil {
		if !os.IsNotExist(err) {
			i.logger.Warn().Err(err).Str("target", target).Msg("Failed to stat target")
			// Treat an unstatable path as present-but-unknown so the
			// planner refuses to touch it.
			obs.Exists = true
			obs.Kind = types.KindFile
		}
		return obs
	}

	obs.Exists = true
	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		obs.Kind = types.KindSymlink
		if dest, err := i.fs.Readlink(target); err == nil {
			obs.LinkDest = dest
		}
	case info.IsDir():
		obs.Kind = types.KindDir
		return obs
	default:
		obs.Kind = types.KindFile
	}

	// Hash the content visible at the target, following symlinks, since
	// that is what the user actually sees at the path.
	if sum, err := HashFile(i.fs, target); err == nil {
		obs.Fingerprint = sum
	} else {
		i.logger.Warn().Err(err).Str("target", target).Msg("Failed to hash target")
	}

	return obs
}

// HashBytes returns the SHA-256 hex digest of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashFile returns the SHA-256 hex digest of the file's content, following
// symlinks.
func HashFile(fsys types.FS, path string) (string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return "", err
	}
	return HashBytes(data), nil
}

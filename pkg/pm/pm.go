// Package pm is the package backend boundary. The engine only ever talks
// to the Backend interface; concrete backends wrap the system package
// manager CLIs. The backend in use is an explicit configuration value,
// never ambient state, so tests swap in the mock freely.
package pm

import (
	"context"
	"time"

	"github.com/arthur-debert/owl/pkg/errors"
)

// commandTimeout bounds every backend invocation. A timeout is an action
// failure, never a hang.
const commandTimeout = 10 * time.Minute

// Backend abstracts one package manager.
type Backend interface {
	// Name identifies the backend ("pacman", "brew", ...).
	Name() string

	// Installed returns the set of installed package names.
	Installed(ctx context.Context) (map[string]bool, error)

	// ListExplicit returns the set of explicitly installed package names
	// (not pulled in as dependencies). Backends without the distinction
	// return the same set as Installed.
	ListExplicit(ctx context.Context) (map[string]bool, error)

	// Install installs the named packages.
	Install(ctx context.Context, names []string) error

	// Remove removes the named packages.
	Remove(ctx context.Context, names []string) error
}

// Open returns the backend for a configured name.
func Open(name string) (Backend, error) {
	switch name {
	case "pacman":
		return NewPacman(), nil
	case "brew":
		return NewBrew(), nil
	default:
		return nil, errors.Newf(errors.ErrBackendUnavailable, "unknown package backend %q", name)
	}
}

// withTimeout derives the bounded context every backend call runs under.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, commandTimeout)
}

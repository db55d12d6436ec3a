package pm

import (
	"context"
	"os/exec"
	"strings"

	"github.com/arthur-debert/owl/pkg/errors"
)

// Runner executes a package manager command and returns its stdout.
// Backends take a Runner so tests can stub command output without a
// package manager on the machine.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
	LookPath(name string) bool
}

// execRunner runs real commands.
type execRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() Runner {
	return &execRunner{}
}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", errors.Wrapf(ctx.Err(), errors.ErrBackendTimeout, "%s timed out", name)
		}
		return "", errors.Wrapf(err, errors.ErrBackendCommand, "%s %s failed: %s",
			name, strings.Join(args, " "), strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

func (r *execRunner) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// parseNameSet splits line-oriented package manager output into a set.
func parseNameSet(out string) map[string]bool {
	set := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		// pacman -Q prints "name version"; keep the first field.
		fields := strings.Fields(line)
		if len(fields) > 0 {
			set[fields[0]] = true
		}
	}
	return set
}

package pm

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/owl/pkg/logging"
)

// Brew wraps Homebrew.
type Brew struct {
	runner Runner
	logger zerolog.Logger
}

// NewBrew creates the brew backend with the real command runner.
func NewBrew() *Brew {
	return NewBrewWithRunner(NewExecRunner())
}

// NewBrewWithRunner creates the brew backend with an injected runner.
func NewBrewWithRunner(runner Runner) *Brew {
	return &Brew{
		runner: runner,
		logger: logging.GetLogger("pm.brew"),
	}
}

func (b *Brew) Name() string {
	return "brew"
}

func (b *Brew) Installed(ctx context.Context) (map[string]bool, error) {
	out, err := b.runner.Run(ctx, "brew", "list", "-1")
	if err != nil {
		return nil, err
	}
	return parseNameSet(out), nil
}

// ListExplicit returns formulae installed on request rather than as
// dependencies (brew leaves).
func (b *Brew) ListExplicit(ctx context.Context) (map[string]bool, error) {
	out, err := b.runner.Run(ctx, "brew", "leaves")
	if err != nil {
		return nil, err
	}
	return parseNameSet(out), nil
}

func (b *Brew) Install(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	b.logger.Info().Strs("packages", names).Msg("Installing packages")
	_, err := b.runner.Run(ctx, "brew", append([]string{"install"}, names...)...)
	return err
}

func (b *Brew) Remove(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	_, err := b.runner.Run(ctx, "brew", append([]string{"uninstall"}, names...)...)
	return err
}

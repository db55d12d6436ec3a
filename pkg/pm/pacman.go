package pm

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/owl/pkg/logging"
)

// Pacman wraps pacman, preferring paru when present so AUR packages
// resolve through the same install call.
type Pacman struct {
	runner Runner
	logger zerolog.Logger
}

// NewPacman creates the pacman backend with the real command runner.
func NewPacman() *Pacman {
	return NewPacmanWithRunner(NewExecRunner())
}

// NewPacmanWithRunner creates the pacman backend with an injected runner.
func NewPacmanWithRunner(runner Runner) *Pacman {
	return &Pacman{
		runner: runner,
		logger: logging.GetLogger("pm.pacman"),
	}
}

func (p *Pacman) Name() string {
	return "pacman"
}

// helper returns the command used for install operations: paru when
// available, pacman otherwise.
func (p *Pacman) helper() string {
	if p.runner.LookPath("paru") {
		return "paru"
	}
	return "pacman"
}

func (p *Pacman) Installed(ctx context.Context) (map[string]bool, error) {
	out, err := p.runner.Run(ctx, "pacman", "-Qq")
	if err != nil {
		return nil, err
	}
	return parseNameSet(out), nil
}

// ListExplicit returns packages the user asked for, excluding dependency
// pull-ins (-Qeq).
func (p *Pacman) ListExplicit(ctx context.Context) (map[string]bool, error) {
	out, err := p.runner.Run(ctx, "pacman", "-Qeq")
	if err != nil {
		return nil, err
	}
	return parseNameSet(out), nil
}

func (p *Pacman) Install(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}

	repo, aur := p.Categorize(ctx, names)
	helper := p.helper()

	if len(repo) > 0 {
		args := append([]string{"-S", "--needed", "--noconfirm"}, repo...)
		p.logger.Info().Strs("packages", repo).Msg("Installing repo packages")
		if _, err := p.runner.Run(ctx, helper, args...); err != nil {
			return err
		}
	}
	if len(aur) > 0 {
		// AUR packages need paru; plain pacman cannot build them.
		args := append([]string{"-S", "--needed", "--noconfirm"}, aur...)
		p.logger.Info().Strs("packages", aur).Msg("Installing AUR packages")
		if _, err := p.runner.Run(ctx, "paru", args...); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pacman) Remove(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	args := append([]string{"-Rns", "--noconfirm"}, names...)
	_, err := p.runner.Run(ctx, p.helper(), args...)
	return err
}

// Categorize splits names into official-repo packages and AUR packages.
// A package the sync database knows (-Si succeeds) is a repo package.
func (p *Pacman) Categorize(ctx context.Context, names []string) (repo, aur []string) {
	for _, name := range names {
		if _, err := p.runner.Run(ctx, "pacman", "-Si", name); err == nil {
			repo = append(repo, name)
		} else {
			aur = append(aur, name)
		}
	}
	return repo, aur
}

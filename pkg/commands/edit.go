package commands

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/arthur-debert/owl/pkg/errors"
	"github.com/arthur-debert/owl/pkg/paths"
)

// Edit opens the source file behind a managed target in $EDITOR. The
// editor itself is an external collaborator; owl only locates the file.
func Edit(rt *Runtime, target string) error {
	expanded, err := paths.ExpandHome(target)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "target %q", target)
	}

	entry, ok := rt.Effective.Entry(filepath.Clean(expanded))
	if !ok {
		return errors.Newf(errors.ErrNotFound, "no managed entry for %s", target)
	}

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	cmd := exec.Command(editor, rt.Paths.SourcePath(entry.Source))
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "%s failed", editor)
	}
	return nil
}

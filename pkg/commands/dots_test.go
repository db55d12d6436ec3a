// pkg/commands/dots_test.go
// TEST TYPE: Integration Tests (real filesystem)
// DEPENDENCIES: t.TempDir, t.Setenv
// PURPOSE: Verify status listing, find filtering, entry registration, and
// config validation

package commands_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/owl/pkg/commands"
	owlerrors "github.com/arthur-debert/owl/pkg/errors"
	"github.com/arthur-debert/owl/pkg/types"
)

func TestDots_States(t *testing.T) {
	w := newWorld(t)
	w.writeSource(t, "applied", "a\n")
	w.writeSource(t, "missing", "b\n")
	w.writeSource(t, "conflicted", "c\n")
	w.writeConfig(t, fmt.Sprintf(`
[[dots]]
source = "applied"
target = %q
mode = "copy"

[[dots]]
source = "missing"
target = %q
mode = "copy"

[[dots]]
source = "conflicted"
target = %q
mode = "copy"
`, w.target(".applied"), w.target(".missing"), w.target(".conflicted")))

	require.NoError(t, os.WriteFile(w.target(".conflicted"), []byte("user owned\n"), 0644))

	_, err := commands.Apply(context.Background(), w.runtime(t),
		commands.ApplyOptions{Mode: types.ModeNonInteractive})
	require.NoError(t, err)

	// Deleting an applied target leaves it missing for the next plan.
	require.NoError(t, os.Remove(w.target(".missing")))

	states := make(map[string]commands.DotState)
	for _, status := range commands.Dots(w.runtime(t)) {
		states[status.Target] = status.State
	}

	assert.Equal(t, commands.DotOK, states[w.target(".applied")])
	assert.Equal(t, commands.DotMissing, states[w.target(".missing")])
	assert.Equal(t, commands.DotConflict, states[w.target(".conflicted")])
}

func TestDots_DriftAndOrphan(t *testing.T) {
	w := newWorld(t)
	w.writeSource(t, "bashrc", "one\n")
	w.writeSource(t, "vimrc", "x\n")
	w.writeConfig(t, fmt.Sprintf(`
[[dots]]
source = "bashrc"
target = %q
mode = "copy"

[[dots]]
source = "vimrc"
target = %q
mode = "copy"
`, w.target(".bashrc"), w.target(".vimrc")))

	_, err := commands.Apply(context.Background(), w.runtime(t),
		commands.ApplyOptions{Mode: types.ModeNonInteractive})
	require.NoError(t, err)

	// Source edit drifts; dropping vimrc from the config orphans it.
	w.writeSource(t, "bashrc", "two\n")
	w.writeConfig(t, fmt.Sprintf("[[dots]]\nsource = \"bashrc\"\ntarget = %q\nmode = \"copy\"\n", w.target(".bashrc")))

	states := make(map[string]commands.DotState)
	for _, status := range commands.Dots(w.runtime(t)) {
		states[status.Target] = status.State
	}

	assert.Equal(t, commands.DotDrifted, states[w.target(".bashrc")])
	assert.Equal(t, commands.DotOrphan, states[w.target(".vimrc")])
}

func TestFind(t *testing.T) {
	w := newWorld(t)
	w.writeSource(t, "bashrc", "a\n")
	w.writeSource(t, "vimrc", "b\n")
	w.writeConfig(t, fmt.Sprintf(`
[[dots]]
source = "bashrc"
target = %q
mode = "copy"

[[dots]]
source = "vimrc"
target = %q
mode = "copy"
`, w.target(".bashrc"), w.target(".vimrc")))

	rt := w.runtime(t)

	byGlob := commands.Find(rt, ".bash*")
	require.Len(t, byGlob, 1)
	assert.Equal(t, w.target(".bashrc"), byGlob[0].Target)

	bySubstring := commands.Find(rt, "vim")
	require.Len(t, bySubstring, 1)
	assert.Equal(t, w.target(".vimrc"), bySubstring[0].Target)

	assert.Empty(t, commands.Find(rt, "zsh"))
}

func TestAdd(t *testing.T) {
	w := newWorld(t)
	w.writeSource(t, "gitconfig", "[user]\n")
	w.writeConfig(t, "")

	entry, err := commands.Add(w.runtime(t), "gitconfig", w.target(".gitconfig"), commands.AddOptions{
		Mode: types.LinkModeCopy,
	})
	require.NoError(t, err)
	assert.Equal(t, types.LinkModeCopy, entry.Mode)

	// The next runtime sees the entry and applies it.
	result, err := commands.Apply(context.Background(), w.runtime(t),
		commands.ApplyOptions{Mode: types.ModeNonInteractive})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode())
	assert.FileExists(t, w.target(".gitconfig"))
}

func TestAdd_Rejections(t *testing.T) {
	w := newWorld(t)
	w.writeSource(t, "bashrc", "x\n")
	w.writeConfig(t, fmt.Sprintf("[[dots]]\nsource = \"bashrc\"\ntarget = %q\n", w.target(".bashrc")))

	rt := w.runtime(t)

	_, err := commands.Add(rt, "nonexistent", w.target(".nonexistent"), commands.AddOptions{})
	require.Error(t, err)
	assert.True(t, owlerrors.IsErrorCode(err, owlerrors.ErrFileNotFound))

	_, err = commands.Add(rt, "bashrc", w.target(".bashrc"), commands.AddOptions{})
	require.Error(t, err)
	assert.True(t, owlerrors.IsErrorCode(err, owlerrors.ErrAlreadyExists))

	_, err = commands.Add(rt, "bashrc", "relative/path", commands.AddOptions{})
	require.Error(t, err)
	assert.True(t, owlerrors.IsErrorCode(err, owlerrors.ErrInvalidInput))
}

func TestConfigCheck(t *testing.T) {
	w := newWorld(t)
	w.writeSource(t, "present", "x\n")
	w.writeConfig(t, fmt.Sprintf(`
[[dots]]
source = "present"
target = %q

[[dots]]
source = "absent"
target = %q
`, w.target(".present"), w.target(".absent")))

	problems := commands.ConfigCheck(w.runtime(t))
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0].Error(), "absent")
}

func TestConfigHost(t *testing.T) {
	w := newWorld(t)
	w.writeSource(t, "bashrc", "x\n")
	w.writeConfig(t, fmt.Sprintf(`
packages = ["htop"]

[[dots]]
source = "bashrc"
target = %q
hosts = ["testhost"]

[[dots]]
source = "other"
target = %q
hosts = ["otherhost"]
`, w.target(".bashrc"), w.target(".other")))

	doc, err := commands.ConfigHost(w.runtime(t))
	require.NoError(t, err)

	assert.Contains(t, doc, "testhost")
	assert.Contains(t, doc, "bashrc")
	assert.Contains(t, doc, "htop")
	assert.NotContains(t, doc, ".other")
}

package paths_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/owl/pkg/paths"
)

func TestNew_EnvOverrides(t *testing.T) {
	root := t.TempDir()
	t.Setenv(paths.EnvSourceRoot, filepath.Join(root, "src"))
	t.Setenv(paths.EnvConfigDir, filepath.Join(root, "config"))
	t.Setenv(paths.EnvDataDir, filepath.Join(root, "data"))

	p, err := paths.New("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "src"), p.SourceRoot())
	assert.Equal(t, filepath.Join(root, "src", "nvim/init.lua"), p.SourcePath("nvim/init.lua"))
	assert.Equal(t, filepath.Join(root, "config", "owl.toml"), p.ConfigFile())
	assert.Equal(t, filepath.Join(root, "config", "host.laptop.toml"), p.HostConfigFile("laptop"))
	assert.Equal(t, filepath.Join(root, "data", "state.toml"), p.StateFile())
	assert.Equal(t, filepath.Join(root, "data", "owl.lock"), p.LockFile())
}

func TestNew_ExplicitRootWinsOverEnv(t *testing.T) {
	t.Setenv(paths.EnvSourceRoot, "/env/src")

	p, err := paths.New("/explicit/src")
	require.NoError(t, err)
	assert.Equal(t, "/explicit/src", p.SourceRoot())
}

func TestNew_DefaultSourceRoot(t *testing.T) {
	t.Setenv(paths.EnvSourceRoot, "")

	home, err := paths.GetHomeDirectory()
	require.NoError(t, err)

	p, err := paths.New("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".owl"), p.SourceRoot())
}

func TestExpandHome(t *testing.T) {
	home, err := paths.GetHomeDirectory()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/.bashrc", filepath.Join(home, ".bashrc")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"~user/file", "~user/file"},
	}
	for _, tt := range tests {
		got, err := paths.ExpandHome(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestResolveHost(t *testing.T) {
	t.Setenv(paths.EnvHost, "pinned")

	host, err := paths.ResolveHost()
	require.NoError(t, err)
	assert.Equal(t, "pinned", host)
}

package types_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/owl/pkg/types"
)

func TestPathLess_ParentsBeforeChildren(t *testing.T) {
	paths := []string{
		"/home/u/.config/nvim/init.lua",
		"/home/u/.bashrc",
		"/home/u/.config",
		"/home/u/.config/git/config",
		"/home/u/.zshrc",
	}
	sort.Slice(paths, func(i, j int) bool { return types.PathLess(paths[i], paths[j]) })

	assert.Equal(t, []string{
		"/home/u/.bashrc",
		"/home/u/.config",
		"/home/u/.config/git/config",
		"/home/u/.config/nvim/init.lua",
		"/home/u/.zshrc",
	}, paths)
}

func TestParseLinkMode(t *testing.T) {
	tests := []struct {
		in      string
		want    types.LinkMode
		wantErr bool
	}{
		{"symlink", types.LinkModeSymlink, false},
		{"copy", types.LinkModeCopy, false},
		{"template", types.LinkModeTemplate, false},
		{" Copy ", types.LinkModeCopy, false},
		{"", types.LinkModeSymlink, false},
		{"hardlink", "", true},
	}
	for _, tt := range tests {
		mode, err := types.ParseLinkMode(tt.in)
		if tt.wantErr {
			require.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, mode)
	}
}

func TestHostFilter(t *testing.T) {
	assert.True(t, types.HostFilter(nil).Matches("anything"))
	assert.True(t, types.HostFilter{"laptop", "desktop"}.Matches("laptop"))
	assert.False(t, types.HostFilter{"laptop"}.Matches("desktop"))
}

// pkg/inspect/inspect_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: t.TempDir
// PURPOSE: Verify filesystem observations for each target kind

package inspect_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/owl/pkg/filesystem"
	"github.com/arthur-debert/owl/pkg/inspect"
	"github.com/arthur-debert/owl/pkg/testutil"
	"github.com/arthur-debert/owl/pkg/types"
)

func TestObserveOne(t *testing.T) {
	root := t.TempDir()
	ins := inspect.New(filesystem.NewOS())

	file := testutil.CreateFile(t, root, "bashrc", "export PATH\n")
	dir := testutil.CreateDir(t, root, "configs")
	link := filepath.Join(root, "link")
	testutil.CreateSymlink(t, file, link)

	t.Run("missing", func(t *testing.T) {
		obs := ins.ObserveOne(filepath.Join(root, "nope"))
		assert.False(t, obs.Exists)
		assert.Equal(t, types.KindNone, obs.Kind)
	})

	t.Run("regular_file", func(t *testing.T) {
		obs := ins.ObserveOne(file)
		assert.True(t, obs.Exists)
		assert.Equal(t, types.KindFile, obs.Kind)
		assert.Equal(t, inspect.HashBytes([]byte("export PATH\n")), obs.Fingerprint)
	})

	t.Run("directory", func(t *testing.T) {
		obs := ins.ObserveOne(dir)
		assert.True(t, obs.Exists)
		assert.Equal(t, types.KindDir, obs.Kind)
		assert.Empty(t, obs.Fingerprint)
	})

	t.Run("symlink", func(t *testing.T) {
		obs := ins.ObserveOne(link)
		assert.True(t, obs.Exists)
		assert.Equal(t, types.KindSymlink, obs.Kind)
		assert.Equal(t, file, obs.LinkDest)
		// Fingerprint follows the link to the content the user sees.
		assert.Equal(t, inspect.HashBytes([]byte("export PATH\n")), obs.Fingerprint)
	})

	t.Run("dangling_symlink", func(t *testing.T) {
		dangling := filepath.Join(root, "dangling")
		testutil.CreateSymlink(t, filepath.Join(root, "gone"), dangling)

		obs := ins.ObserveOne(dangling)
		assert.True(t, obs.Exists)
		assert.Equal(t, types.KindSymlink, obs.Kind)
		assert.Empty(t, obs.Fingerprint)
	})
}

func TestObserve_CoversEveryTarget(t *testing.T) {
	root := t.TempDir()
	ins := inspect.New(filesystem.NewOS())

	var targets []string
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		targets = append(targets, testutil.CreateFile(t, root, name, name+"\n"))
	}
	targets = append(targets, filepath.Join(root, "missing"))

	results := ins.Observe(targets)
	require.Len(t, results, len(targets))
	for _, target := range targets {
		_, ok := results[target]
		assert.True(t, ok, "no observation for %s", target)
	}
	assert.False(t, results[filepath.Join(root, "missing")].Exists)
	assert.Equal(t, inspect.HashBytes([]byte("a\n")), results[targets[0]].Fingerprint)
}

func TestHashBytes(t *testing.T) {
	// Stable digest, hex encoded.
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		inspect.HashBytes(nil))
	assert.Equal(t, inspect.HashBytes([]byte("x")), inspect.HashBytes([]byte("x")))
	assert.NotEqual(t, inspect.HashBytes([]byte("x")), inspect.HashBytes([]byte("y")))
}

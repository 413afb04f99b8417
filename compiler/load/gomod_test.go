package load

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleGoVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "go.mod")

	t.Run("Directive", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("module example.com/m\n\ngo 1.22.3\n"), 0o644))
		v, err := ModuleGoVersion(path)
		require.NoError(t, err)
		assert.Equal(t, "1.22.3", v)
	})

	t.Run("Missing", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("module example.com/m\n"), 0o644))
		v, err := ModuleGoVersion(path)
		require.NoError(t, err)
		assert.Empty(t, v)
	})

	t.Run("NoFile", func(t *testing.T) {
		_, err := ModuleGoVersion(filepath.Join(dir, "nope", "go.mod"))
		assert.Error(t, err)
	})
}

func TestFindGoMod(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/m\n"), 0o644))
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path, err := FindGoMod(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "go.mod"), path)
}

package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwpistols/cargo-generate/internal/config"
)

func TestResolveSubfolder(t *testing.T) {
	base := seedTemplate(t, map[string]string{
		"templates/wasm/Cargo.toml": "[package]\n",
		"README.md":                 "readme\n",
	})

	t.Run("empty picks the base", func(t *testing.T) {
		dir, err := ResolveSubfolder(base, "")
		require.NoError(t, err)
		assert.Equal(t, base, dir)
	})

	t.Run("nested folder", func(t *testing.T) {
		dir, err := ResolveSubfolder(base, "templates/wasm")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "templates", "wasm"), dir)
	})

	t.Run("escaping the base fails", func(t *testing.T) {
		_, err := ResolveSubfolder(base, "../outside")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "part of the template folder structure")
	})

	t.Run("file instead of folder fails", func(t *testing.T) {
		_, err := ResolveSubfolder(base, "README.md")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be a valid folder")
	})

	t.Run("missing folder fails", func(t *testing.T) {
		_, err := ResolveSubfolder(base, "templates/missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be a valid folder")
	})
}

func TestAutoLocateWithoutMarkers(t *testing.T) {
	base := seedTemplate(t, map[string]string{
		"dir1/Cargo.toml":      "[package]\n",
		"dir2/dir2_1/file.txt": "x\n",
	})

	dir, err := AutoLocate(base, func([]string) (string, error) {
		t.Fatal("choose should not be called")
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, base, dir)
}

func TestAutoLocateSingleMarker(t *testing.T) {
	base := seedTemplate(t, map[string]string{
		"dir1/Cargo.toml":                "[package]\n",
		"dir2/dir2_2/" + config.FileName: "[template]\n",
		"dir2/dir2_2/Cargo.toml":         "[package]\n",
		"dir3/nested/notes.txt":          "x\n",
	})

	dir, err := AutoLocate(base, func([]string) (string, error) {
		t.Fatal("choose should not be called")
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "dir2", "dir2_2"), dir)
}

func TestAutoLocateManyMarkersAsksToChoose(t *testing.T) {
	base := seedTemplate(t, map[string]string{
		"dir2/dir2_2/" + config.FileName: "[template]\n",
		"dir4/" + config.FileName:        "[template]\n",
	})

	var offered []string
	dir, err := AutoLocate(base, func(options []string) (string, error) {
		offered = options
		return options[1], nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"dir2/dir2_2", "dir4"}, offered)
	assert.Equal(t, filepath.Join(base, "dir4"), dir)
}

func TestAutoLocateBaseMarkerCountsAsCandidate(t *testing.T) {
	base := seedTemplate(t, map[string]string{
		config.FileName:           "[template]\n",
		"dir4/" + config.FileName: "[template]\n",
	})

	dir, err := AutoLocate(base, func(options []string) (string, error) {
		assert.Equal(t, []string{".", "dir4"}, options)
		return ".", nil
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(base), dir)
}

func TestAutoLocateSkipsGitDirectory(t *testing.T) {
	base := seedTemplate(t, map[string]string{
		".git/" + config.FileName: "[template]\n",
		"real/" + config.FileName: "[template]\n",
	})

	dir, err := AutoLocate(base, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "real"), dir)
}

func TestResolveSubfolderAbsoluteStaysInside(t *testing.T) {
	base := seedTemplate(t, map[string]string{"sub/file.txt": "x\n"})

	dir, err := ResolveSubfolder(base, "sub")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

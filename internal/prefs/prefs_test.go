package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestLoad_DefaultPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, filepath.Join(home, ".config", "viewlog", "prefs.toml"), "theme = \"Slate\"\n")

	p, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Slate", p.Theme)
}

func TestSave_CreatesDirsAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "prefs.toml")

	require.NoError(t, Save(path, Prefs{Theme: "Kanagawa"}))
	require.NoError(t, Save(path, Prefs{Theme: "Slate"}))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Slate", p.Theme)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
	assert.Equal(t, "prefs.toml", entries[0].Name())
}

func TestLoad_FallsBackToDefaults(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"blank theme", "theme = \"  \"\n", false},
		{"trims theme", "theme = \"  Nightfox \"\n", false},
		{"invalid toml", "not valid toml {{{\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "prefs.toml")
			writeFile(t, path, tt.content)

			p, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, Default(), p)
		})
	}
}

func TestLoad_UnreadableIsInformational(t *testing.T) {
	// A directory where the file should be cannot be read as prefs.
	dir := t.TempDir()

	p, err := Load(dir)
	assert.Error(t, err)
	assert.Equal(t, Default(), p)
}

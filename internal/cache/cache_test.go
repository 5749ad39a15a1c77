package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetupRoundTrip(t *testing.T) {
	buildRoot := t.TempDir()
	s := New(buildRoot)

	setup := Setup{
		Argv:        []string{"mbs", "setup", "build"},
		SourceRoot:  "/src",
		BuildRoot:   buildRoot,
		MachineFile: "native.ini",
	}
	require.NoError(t, s.SaveSetup(setup))

	got, err := s.LoadSetup()
	require.NoError(t, err)
	assert.Equal(t, setup, got)

	assert.FileExists(t, filepath.Join(buildRoot, privateDir, "setup.json"))
}

func TestStore_OptionsRoundTrip(t *testing.T) {
	buildRoot := t.TempDir()
	s := New(buildRoot)

	opts := map[string]string{
		"default_library": "static",
		"feature_x":       "auto",
	}
	require.NoError(t, s.SaveOptions(opts))

	got, err := s.LoadOptions()
	require.NoError(t, err)
	assert.Equal(t, opts, got)
}

func TestStore_LoadOptions_MissingFileReturnsEmpty(t *testing.T) {
	s := New(t.TempDir())

	got, err := s.LoadOptions()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_ScratchDir(t *testing.T) {
	buildRoot := t.TempDir()
	s := New(buildRoot)

	dir, err := s.ScratchDir("my_exe")
	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Equal(t, filepath.Join(buildRoot, privateDir, "scratch", "my_exe"), dir)
}

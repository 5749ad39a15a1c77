package security

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathValidator_ResolveWithinPrefix(t *testing.T) {
	v, err := NewPathValidator(filepath.Join(t.TempDir(), "prefix"))
	require.NoError(t, err)

	got, err := v.Resolve("usr/local/bin")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(v.Prefix, "usr/local/bin"), got)
}

func TestPathValidator_RejectsTraversal(t *testing.T) {
	v, err := NewPathValidator(filepath.Join(t.TempDir(), "prefix"))
	require.NoError(t, err)

	_, err = v.Resolve("../../etc")
	assert.Error(t, err)
}

func TestPathValidator_RejectsAbsoluteSubdir(t *testing.T) {
	v, err := NewPathValidator(filepath.Join(t.TempDir(), "prefix"))
	require.NoError(t, err)

	_, err = v.Resolve("/etc")
	assert.Error(t, err)
}

func TestPathValidator_EmptySubdirResolvesToPrefix(t *testing.T) {
	v, err := NewPathValidator(filepath.Join(t.TempDir(), "prefix"))
	require.NoError(t, err)

	got, err := v.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, v.Prefix, got)
}

package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBinaryPath string

func TestMain(m *testing.M) {
	tempBinary := filepath.Join(os.TempDir(), "mbs-test-"+fmt.Sprintf("%d", time.Now().UnixNano()))

	buildCmd := exec.Command("go", "build", "-o", tempBinary, ".")
	var buildOut bytes.Buffer
	buildCmd.Stdout = &buildOut
	buildCmd.Stderr = &buildOut
	if err := buildCmd.Run(); err != nil {
		fmt.Printf("failed to build mbs for testing: %v\nbuild output: %s\n", err, buildOut.String())
		os.Exit(1)
	}
	testBinaryPath = tempBinary

	code := m.Run()
	os.Remove(testBinaryPath)
	os.Exit(code)
}

func TestVersionCommand(t *testing.T) {
	out, err := exec.Command(testBinaryPath, "version").CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(out), "mbs")
	assert.Contains(t, string(out), "Meson language version")
}

func TestCheckCommand_ValidFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "meson.build")
	require.NoError(t, os.WriteFile(file, []byte("project('demo', 'c')\nexecutable('demo', 'main.c')\n"), 0o644))

	out, err := exec.Command(testBinaryPath, "check", file).CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(out), "OK")
}

func TestCheckCommand_PrintsTree(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "meson.build")
	require.NoError(t, os.WriteFile(file, []byte("x = 1 + 2\n"), 0o644))

	out, err := exec.Command(testBinaryPath, "check", "-p", file).CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(out), "Assign")
	assert.Contains(t, string(out), "BinOp")
}

func TestCheckCommand_ReportsParseError(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "meson.build")
	require.NoError(t, os.WriteFile(file, []byte("x = (1 + \n"), 0o644))

	out, err := exec.Command(testBinaryPath, "check", file).CombinedOutput()
	require.Error(t, err)
	assert.Contains(t, string(out), file)
}

func TestSetupCommand_WritesNinjaFile(t *testing.T) {
	srcDir := t.TempDir()
	buildDir := filepath.Join(t.TempDir(), "build")
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "meson.build"), []byte(
		"project('demo', 'c')\nexecutable('demo', 'main.c')\n",
	), 0o644))

	out, err := exec.Command(testBinaryPath, "setup", buildDir, srcDir).CombinedOutput()
	require.NoError(t, err, string(out))
	assert.FileExists(t, filepath.Join(buildDir, "build.ninja"))
	assert.FileExists(t, filepath.Join(buildDir, "mbs-private", "setup.json"))
}

func TestInternalEvalCommand_ExprFlag(t *testing.T) {
	out, err := exec.Command(testBinaryPath, "internal", "eval", "-e", "1 + 2").CombinedOutput()
	require.NoError(t, err, string(out))
	assert.Contains(t, string(out), "3")
}

func TestGlobalChdirFlag(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meson.build"), []byte("x = 1\n"), 0o644))

	out, err := exec.Command(testBinaryPath, "-C", dir, "check", "meson.build").CombinedOutput()
	require.NoError(t, err, string(out))
	assert.Contains(t, string(out), "OK")
}

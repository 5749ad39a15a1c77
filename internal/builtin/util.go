package builtin

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/standardbeagle/mbs/internal/interp"
	"github.com/standardbeagle/mbs/internal/runcmd"
)

func defaultRunner() runcmd.Runner { return runcmd.Default() }

func emptyRunOpts() runcmd.Options { return runcmd.Options{} }

func contextBackground() context.Context { return context.Background() }

func trimNewline(s string) string { return strings.TrimRight(s, "\n\r") }

func splitFields(s string) []string { return strings.Fields(s) }

func execLookPath(name string) (string, error) { return exec.LookPath(name) }

func runcmdOptionsFor(ip *interp.Interp) runcmd.Options {
	return runcmd.Options{Dir: ip.SourceRoot}
}

func scratchRunOpts(dir string) runcmd.Options {
	return runcmd.Options{Dir: dir}
}

func makeScratchDir() (string, func(), error) {
	dir, err := os.MkdirTemp("", "mbs-probe-")
	if err != nil {
		return "", func() {}, err
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}

func writeScratchFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o644)
}

func readConfigureInput(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func writeConfiguredOutput(path, contents string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(contents), 0o644)
}

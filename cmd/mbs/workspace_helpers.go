package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/standardbeagle/mbs/internal/cache"
	"github.com/standardbeagle/mbs/internal/lexer"
	"github.com/standardbeagle/mbs/internal/machinefile"
	"github.com/standardbeagle/mbs/internal/workspace"
)

// parseDefines turns a list of "-D key=value" flag values into an
// options map, the form get_option() and the [binaries]-less parts of
// project() configuration read from.
func parseDefines(defines []string) (map[string]string, error) {
	opts := map[string]string{}
	for _, d := range defines {
		key, value, ok := strings.Cut(d, "=")
		if !ok {
			return nil, fmt.Errorf("-D %s: expected key=value", d)
		}
		opts[key] = value
	}
	return opts, nil
}

func loadMachine(path string) (*machinefile.Machine, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("machine file: %w", err)
	}
	return machinefile.Load(data)
}

// newWorkspace evaluates sourceDir/meson.build into buildDir fresh, the
// path every `setup` run takes. It returns the absolute source and build
// roots alongside the workspace so the caller can persist them.
func newWorkspace(sourceDir, buildDir string, options map[string]string, machine *machinefile.Machine) (ws *workspace.Workspace, absSource, absBuild string, err error) {
	absSource, err = filepath.Abs(sourceDir)
	if err != nil {
		return nil, "", "", err
	}
	absBuild, err = filepath.Abs(buildDir)
	if err != nil {
		return nil, "", "", err
	}
	ws = workspace.New(absSource, absBuild, lexer.Standard, options)
	ws.Machine = machine
	err = ws.EvaluateRoot()
	return ws, absSource, absBuild, err
}

// reopenWorkspace replays a previously configured build directory by
// reading back its setup manifest and resolved options, then
// re-evaluating the same root file. Nothing about a workspace's
// evaluated targets or tests survives between process invocations, so
// `mbs test`/`mbs install` always start here.
func reopenWorkspace(buildDir string) (*workspace.Workspace, error) {
	store := cache.New(buildDir)
	setup, err := store.LoadSetup()
	if err != nil {
		return nil, fmt.Errorf("%s has not been configured: %w", buildDir, err)
	}
	options, err := store.LoadOptions()
	if err != nil {
		return nil, fmt.Errorf("reading resolved options: %w", err)
	}
	machine, err := loadMachine(setup.MachineFile)
	if err != nil {
		return nil, err
	}
	ws, _, _, err := newWorkspace(setup.SourceRoot, buildDir, options, machine)
	return ws, err
}

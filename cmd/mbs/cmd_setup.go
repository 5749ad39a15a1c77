package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/standardbeagle/mbs/internal/cache"
	"github.com/standardbeagle/mbs/internal/machinefile"
	"github.com/standardbeagle/mbs/internal/ninjawriter"
	"github.com/standardbeagle/mbs/internal/workspace"

	"github.com/urfave/cli/v2"
)

var setupCommand = &cli.Command{
	Name:      "setup",
	Usage:     "configure a build directory",
	ArgsUsage: "<build-dir> [source-dir]",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "define",
			Aliases: []string{"D"},
			Usage:   "set a project or module option, key=value",
		},
		&cli.StringFlag{
			Name:    "machine-file",
			Aliases: []string{"m"},
			Usage:   "native or cross machine file",
		},
	},
	Action: setupAction,
}

func setupAction(c *cli.Context) error {
	buildDir := c.Args().Get(0)
	if buildDir == "" {
		return fmt.Errorf("setup: a build directory is required")
	}
	sourceDir := c.Args().Get(1)
	if sourceDir == "" {
		sourceDir = "."
	}

	options, err := parseDefines(c.StringSlice("define"))
	if err != nil {
		return err
	}
	machineFile := c.String("machine-file")
	machine, err := loadMachine(machineFile)
	if err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		exe = "mbs"
	}
	regenerateArgv := append([]string{exe}, os.Args[1:]...)

	ws, absBuild, err := performSetup(sourceDir, buildDir, options, machine, machineFile, regenerateArgv)
	if err != nil {
		return err
	}
	for _, msg := range ws.Messages() {
		fmt.Println(msg)
	}

	fmt.Printf("Build directory configured: %s\n", absBuild)
	return nil
}

// performSetup is the shared body of `setup` and `auto`: evaluate the
// root file, emit build.ninja, and persist enough state in mbs-private/
// to replay this exact configuration later.
func performSetup(sourceDir, buildDir string, options map[string]string, machine *machinefile.Machine, machineFile string, regenerateArgv []string) (*workspace.Workspace, string, error) {
	ws, absSource, absBuild, err := newWorkspace(sourceDir, buildDir, options, machine)
	if err != nil {
		reportEvalError(err)
		return nil, "", fmt.Errorf("setup failed")
	}

	if err := os.MkdirAll(absBuild, 0o755); err != nil {
		return nil, "", fmt.Errorf("creating build directory: %w", err)
	}

	ninjaPath := filepath.Join(absBuild, "build.ninja")
	f, err := os.Create(ninjaPath)
	if err != nil {
		return nil, "", fmt.Errorf("writing %s: %w", ninjaPath, err)
	}
	defer f.Close()

	if err := ninjawriter.Write(f, ws, regenerateArgv); err != nil {
		return nil, "", fmt.Errorf("writing %s: %w", ninjaPath, err)
	}

	store := cache.New(absBuild)
	if err := store.SaveSetup(cache.Setup{
		Argv:        regenerateArgv,
		SourceRoot:  absSource,
		BuildRoot:   absBuild,
		MachineFile: machineFile,
	}); err != nil {
		return nil, "", fmt.Errorf("saving setup manifest: %w", err)
	}
	if err := store.SaveOptions(options); err != nil {
		return nil, "", fmt.Errorf("saving options: %w", err)
	}

	debugf("configured %s from %s", absBuild, absSource)
	return ws, absBuild, nil
}

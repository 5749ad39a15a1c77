package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/standardbeagle/mbs/internal/arena"
	"github.com/standardbeagle/mbs/internal/builtin"
	"github.com/standardbeagle/mbs/internal/security"

	"github.com/urfave/cli/v2"
)

var installCommand = &cli.Command{
	Name:      "install",
	Usage:     "stage install_data()/install_headers() destinations",
	ArgsUsage: "<build-dir>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "dry-run",
			Aliases: []string{"n"},
			Usage:   "print what would be installed without writing anything",
		},
	},
	Action: installAction,
}

func installAction(c *cli.Context) error {
	buildDir := c.Args().Get(0)
	if buildDir == "" {
		buildDir = "."
	}
	ws, err := reopenWorkspace(buildDir)
	if err != nil {
		reportEvalError(err)
		return fmt.Errorf("install failed")
	}

	prefix := ws.Options["prefix"]
	if prefix == "" {
		prefix = "/usr/local"
	}
	validator, err := security.NewPathValidator(prefix)
	if err != nil {
		return err
	}

	dryRun := c.Bool("dry-run")
	for _, p := range ws.Projects() {
		for _, entry := range builtin.Installs(p.Interp) {
			subdir := entry.Subdir
			if subdir == "" && entry.Kind == "headers" {
				subdir = "include"
			}
			destDir, err := validator.Resolve(subdir)
			if err != nil {
				return err
			}
			for _, h := range entry.Sources {
				if p.Interp.A.Kind(h) != arena.KindFile {
					continue
				}
				srcPath := p.Interp.A.FilePath(h)
				destPath := filepath.Join(destDir, filepath.Base(srcPath))
				if dryRun {
					fmt.Printf("would install %s -> %s\n", srcPath, destPath)
					continue
				}
				if err := installFile(srcPath, destDir, destPath); err != nil {
					return err
				}
				fmt.Printf("installed %s\n", destPath)
			}
		}
	}
	return nil
}

func installFile(srcPath, destDir, destPath string) error {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("install: reading %s: %w", srcPath, err)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("install: creating %s: %w", destDir, err)
	}
	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return fmt.Errorf("install: writing %s: %w", destPath, err)
	}
	return nil
}

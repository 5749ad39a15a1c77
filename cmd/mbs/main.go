package main

import (
	"fmt"
	"os"

	"github.com/standardbeagle/mbs/internal/version"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:                   "mbs",
		Usage:                  "evaluate Meson-dialect build descriptions and emit Ninja",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
			&cli.BoolFlag{
				Name:    "locations",
				Aliases: []string{"l"},
				Usage:   "include source locations in debug logs",
			},
			&cli.StringFlag{
				Name:    "chdir",
				Aliases: []string{"C"},
				Usage:   "change to dir before running",
			},
		},
		Before: func(c *cli.Context) error {
			debugEnabled = c.Bool("verbose")
			locEnabled = c.Bool("locations")
			if dir := c.String("chdir"); dir != "" {
				if err := os.Chdir(dir); err != nil {
					return fmt.Errorf("chdir %s: %w", dir, err)
				}
				debugf("chdir %s", dir)
			}
			return nil
		},
		Commands: []*cli.Command{
			setupCommand,
			samuCommand,
			testCommand,
			installCommand,
			subprojectsCommand,
			checkCommand,
			internalCommand,
			autoCommand,
			versionCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/standardbeagle/mbs/internal/cache"
	"github.com/standardbeagle/mbs/internal/muonconfig"

	"github.com/urfave/cli/v2"
)

var autoCommand = &cli.Command{
	Name:      "auto",
	Usage:     "configure every build directory listed in a .muon-style config script",
	ArgsUsage: "",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    "config script path",
			Required: true,
		},
		&cli.BoolFlag{
			Name:    "regen-only",
			Aliases: []string{"r"},
			Usage:   "only regenerate build directories that are already configured",
		},
		&cli.BoolFlag{
			Name:    "force",
			Aliases: []string{"f"},
			Usage:   "reconfigure even if the build directory is already set up",
		},
	},
	Action: autoAction,
}

func autoAction(c *cli.Context) error {
	data, err := os.ReadFile(c.String("config"))
	if err != nil {
		return fmt.Errorf("auto: %w", err)
	}
	targets, err := muonconfig.Parse(data)
	if err != nil {
		return fmt.Errorf("auto: %w", err)
	}

	regenOnly := c.Bool("regen-only")
	force := c.Bool("force")

	for _, target := range targets {
		store := cache.New(target.Dir)
		setup, loadErr := store.LoadSetup()
		configured := loadErr == nil

		if regenOnly && !configured {
			fmt.Printf("%s: not configured, skipping (regen-only)\n", target.Dir)
			continue
		}
		if configured && !force && !regenOnly {
			fmt.Printf("%s: already configured, skipping (use -f to reconfigure)\n", target.Dir)
			continue
		}

		sourceDir := "."
		options := target.Options
		if configured {
			sourceDir = setup.SourceRoot
			merged := map[string]string{}
			if saved, err := store.LoadOptions(); err == nil {
				for k, v := range saved {
					merged[k] = v
				}
			}
			for k, v := range target.Options {
				merged[k] = v
			}
			options = merged
		}

		ws, absBuild, err := performSetup(sourceDir, target.Dir, options, nil, "", []string{"mbs", "auto", "-c", c.String("config")})
		if err != nil {
			return err
		}
		for _, msg := range ws.Messages() {
			fmt.Println(msg)
		}
		fmt.Printf("%s: configured\n", absBuild)
	}
	return nil
}

package main

import (
	"fmt"

	"github.com/standardbeagle/mbs/internal/builtin"
	"github.com/standardbeagle/mbs/internal/version"

	"github.com/urfave/cli/v2"
)

var versionCommand = &cli.Command{
	Name:   "version",
	Usage:  "print version and supported features",
	Action: versionAction,
}

func versionAction(c *cli.Context) error {
	fmt.Println(version.FullInfo())
	fmt.Printf("Meson language version: %s\n", builtin.BuildVersion)
	return nil
}

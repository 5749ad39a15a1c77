package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/standardbeagle/mbs/internal/runcmd"

	"github.com/urfave/cli/v2"
)

// samuCommand forwards its entire argument list to the external Ninja-
// compatible executor, the same "build something else actually runs the
// edges" split the rest of the repo keeps at the run_command()/find_program()
// boundary: this repo only emits build.ninja, it never interprets it.
var samuCommand = &cli.Command{
	Name:            "samu",
	Usage:           "invoke the Ninja-compatible build executor",
	ArgsUsage:       "[args...]",
	SkipFlagParsing: true,
	Action:          samuAction,
}

func samuAction(c *cli.Context) error {
	bin, err := exec.LookPath("samu")
	if err != nil {
		bin, err = exec.LookPath("ninja")
	}
	if err != nil {
		return fmt.Errorf("samu: no samu or ninja executable found on PATH")
	}

	argv := append([]string{bin}, c.Args().Slice()...)
	res, err := runcmd.Default().Run(context.Background(), argv, runcmd.Options{})
	if err != nil {
		return fmt.Errorf("samu: %w", err)
	}
	fmt.Print(res.Stdout)
	fmt.Fprint(os.Stderr, res.Stderr)
	if res.Status != 0 {
		return fmt.Errorf("samu: exited with status %d", res.Status)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/standardbeagle/mbs/internal/builtin"
	"github.com/standardbeagle/mbs/internal/runcmd"

	"github.com/urfave/cli/v2"
)

var testCommand = &cli.Command{
	Name:      "test",
	Usage:     "run the test list of a configured build",
	ArgsUsage: "<build-dir>",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "suite",
			Aliases: []string{"s"},
			Usage:   "only run tests tagged with this suite (repeatable)",
		},
	},
	Action: testAction,
}

func testAction(c *cli.Context) error {
	buildDir := c.Args().Get(0)
	if buildDir == "" {
		buildDir = "."
	}
	ws, err := reopenWorkspace(buildDir)
	if err != nil {
		reportEvalError(err)
		return fmt.Errorf("test failed")
	}
	for _, msg := range ws.Messages() {
		fmt.Println(msg)
	}

	suites := c.StringSlice("suite")
	var entries []builtin.TestEntry
	for _, p := range ws.Projects() {
		entries = append(entries, builtin.Tests(p.Interp)...)
	}

	failed := 0
	ran := 0
	for _, entry := range entries {
		if !matchesSuite(entry.Suites, suites) {
			continue
		}
		ran++
		exe, ok := builtin.ExecutablePath(ws.A, entry.Exe)
		if !ok {
			fmt.Printf("FAIL %s (executable not resolved)\n", entry.Name)
			failed++
			continue
		}

		argv := append([]string{exe}, entry.Args...)
		opts := runcmd.Options{Dir: ws.BuildRoot}
		if entry.Timeout > 0 {
			opts.Timeout = time.Duration(entry.Timeout) * time.Second
		}
		res, runErr := runcmd.Default().Run(context.Background(), argv, opts)
		if runErr != nil || res.Status != 0 {
			fmt.Printf("FAIL %s\n", entry.Name)
			failed++
			continue
		}
		fmt.Printf("PASS %s\n", entry.Name)
	}

	fmt.Printf("%d/%d tests passed\n", ran-failed, ran)
	if failed > 0 {
		return fmt.Errorf("%d test(s) failed", failed)
	}
	return nil
}

func matchesSuite(entrySuites, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		for _, s := range entrySuites {
			if s == w {
				return true
			}
		}
	}
	return false
}

package main

import (
	"fmt"
	"os"

	"github.com/standardbeagle/mbs/internal/display"
	"github.com/standardbeagle/mbs/internal/lexer"
	"github.com/standardbeagle/mbs/internal/parser"

	"github.com/urfave/cli/v2"
)

var checkCommand = &cli.Command{
	Name:      "check",
	Usage:     "parse a build description without evaluating it",
	ArgsUsage: "<file>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "print",
			Aliases: []string{"p"},
			Usage:   "print the parsed syntax tree",
		},
	},
	Action: checkAction,
}

func checkAction(c *cli.Context) error {
	file := c.Args().Get(0)
	if file == "" {
		return fmt.Errorf("check: a file is required")
	}
	src, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	lx := lexer.New(file, string(src), lexer.Standard)
	toks, err := lx.Scan()
	if err != nil {
		reportEvalError(err)
		return fmt.Errorf("check failed")
	}
	p := parser.New(file, toks, lexer.Standard)
	astFile, err := p.Parse()
	if err != nil {
		reportEvalError(err)
		return fmt.Errorf("check failed")
	}

	if c.Bool("print") {
		fmt.Print(display.NewTreeFormatter(display.FormatterOptions{ShowLocations: true}).Format(astFile))
	} else {
		fmt.Printf("%s: OK (%d statements)\n", file, len(astFile.Stmts))
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/standardbeagle/mbs/internal/arena"
	"github.com/standardbeagle/mbs/internal/builtin"
	"github.com/standardbeagle/mbs/internal/interp"
	"github.com/standardbeagle/mbs/internal/lexer"
	"github.com/standardbeagle/mbs/internal/parser"
	"github.com/standardbeagle/mbs/internal/replui"
	"github.com/standardbeagle/mbs/internal/runcmd"

	"github.com/urfave/cli/v2"
)

var internalCommand = &cli.Command{
	Name:  "internal",
	Usage: "internal helpers used by the build graph and by developers",
	Subcommands: []*cli.Command{
		internalEvalCommand,
		internalReplCommand,
		internalExeCommand,
	},
}

var internalEvalCommand = &cli.Command{
	Name:      "eval",
	Usage:     "run a script in extended (function-definition) DSL mode",
	ArgsUsage: "[file]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "expr",
			Aliases: []string{"e"},
			Usage:   "evaluate this expression instead of reading a file",
		},
	},
	Action: internalEvalAction,
}

func internalEvalAction(c *cli.Context) error {
	ip := newStandaloneInterp()

	if expr := c.String("expr"); expr != "" {
		h, err := replui.Eval(ip, expr)
		if err != nil {
			reportEvalError(err)
			return fmt.Errorf("eval failed")
		}
		fmt.Println(builtin.Stringify(ip, h))
		return nil
	}

	file := c.Args().Get(0)
	if file == "" {
		return fmt.Errorf("internal eval: a file or -e expression is required")
	}
	src, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	lx := lexer.New(file, string(src), lexer.Extended)
	toks, err := lx.Scan()
	if err != nil {
		reportEvalError(err)
		return fmt.Errorf("eval failed")
	}
	p := parser.New(file, toks, lexer.Extended)
	astFile, err := p.Parse()
	if err != nil {
		reportEvalError(err)
		return fmt.Errorf("eval failed")
	}
	if err := ip.EvalFile(astFile); err != nil {
		reportEvalError(err)
		return fmt.Errorf("eval failed")
	}
	for _, msg := range ip.Messages {
		fmt.Println(msg)
	}
	return nil
}

var internalReplCommand = &cli.Command{
	Name:   "repl",
	Usage:  "interactive evaluation",
	Action: internalReplAction,
}

func internalReplAction(c *cli.Context) error {
	return replui.Run(newStandaloneInterp())
}

// newStandaloneInterp builds an interpreter outside any workspace, for
// `internal eval`/`internal repl`: subdir()/subproject() are unavailable
// (OnSubdir/OnSubproject are left nil, which both builtins already check
// for) since there is no source tree to resolve them against.
func newStandaloneInterp() *interp.Interp {
	a := arena.New()
	global := interp.NewScope()
	ip := interp.New(a, global, ".", ".")
	builtin.Register(ip)
	ip.DefineGlobal("meson", a.NewMeson())
	return ip
}

var internalExeCommand = &cli.Command{
	Name:      "exe",
	Usage:     "execute a captured command",
	ArgsUsage: "<cmd...>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "capture",
			Aliases: []string{"c"},
			Usage:   "write captured stdout to this file instead of printing it",
		},
	},
	Action: internalExeAction,
}

func internalExeAction(c *cli.Context) error {
	argv := c.Args().Slice()
	if len(argv) == 0 {
		return fmt.Errorf("internal exe: a command is required")
	}
	res, err := runcmd.Default().Run(context.Background(), argv, runcmd.Options{})
	if err != nil {
		return fmt.Errorf("internal exe: %w", err)
	}
	if out := c.String("capture"); out != "" {
		if err := os.WriteFile(out, []byte(res.Stdout), 0o644); err != nil {
			return fmt.Errorf("internal exe: writing %s: %w", out, err)
		}
	} else {
		fmt.Print(res.Stdout)
	}
	fmt.Fprint(os.Stderr, res.Stderr)
	if res.Status != 0 {
		return fmt.Errorf("internal exe: exited with status %d", res.Status)
	}
	return nil
}

// Package ninjawriter serialises an evaluated workspace into a build.ninja
// file. It is a thin consumer of internal/workspace's state:
// it never touches the interpreter or the arena except through the
// read-only accessors workspace/builtin already expose.
package ninjawriter

import (
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/standardbeagle/mbs/internal/arena"
	"github.com/standardbeagle/mbs/internal/builtin"
	"github.com/standardbeagle/mbs/internal/interp"
	"github.com/standardbeagle/mbs/internal/workspace"
)

const requiredVersion = "1.7.1"

// Write serialises every project in ws into a complete build.ninja file.
func Write(w io.Writer, ws *workspace.Workspace, regenerateArgv []string) error {
	bw := &bufWriter{w: w}

	bw.printf("ninja_required_version = %s\n\n", requiredVersion)

	langs := compilerLanguages(ws)
	for _, lang := range langs {
		c := compilerFor(ws, lang)
		if c == nil {
			continue
		}
		writeCompilerRules(bw, lang, c)
	}
	writeStaticLinkerRule(bw)
	writeCustomCommandRule(bw)
	writeRegenerateRule(bw, regenerateArgv, ws.Regenerate)

	for _, proj := range ws.Projects() {
		for _, h := range builtin.Targets(proj.Interp) {
			writeTargetEdges(bw, proj.Interp, h)
		}
	}

	return bw.err
}

func compilerLanguages(ws *workspace.Workspace) []string {
	cfg := builtin.Config(ws.Root.Interp)
	if cfg == nil {
		return nil
	}
	langs := append([]string{}, cfg.Languages...)
	sort.Strings(langs)
	return langs
}

func compilerFor(ws *workspace.Workspace, lang string) *arena.CompilerData {
	h, ok := ws.Root.Interp.Lookup("__compiler_" + lang)
	if !ok {
		return nil
	}
	c, ok := ws.A.Compiler(h)
	if !ok {
		return nil
	}
	return c
}

func writeCompilerRules(bw *bufWriter, lang string, c *arena.CompilerData) {
	ruleName := strings.ToUpper(lang)
	argv := strings.Join(escapeArgv(c.Argv), " ")
	depsFlag := ""
	switch c.Deps {
	case arena.DepsGCC:
		depsFlag = "\n  deps = gcc\n  depfile = $DEPFILE_UNQUOTED"
	case arena.DepsMSVC:
		depsFlag = "\n  deps = msvc"
	}

	bw.printf("rule %s_COMPILER\n", ruleName)
	bw.printf("  command = %s $ARGS -c $in -o $out%s\n\n", argv, depsFlag)

	bw.printf("rule %s_LINKER\n", ruleName)
	bw.printf("  command = %s $ARGS $in -o $out $LINK_ARGS\n\n", argv)
}

func writeStaticLinkerRule(bw *bufWriter) {
	bw.printf("rule STATIC_LINKER\n")
	bw.printf("  command = rm -f $out && ar csr $out $in\n\n")
}

func writeCustomCommandRule(bw *bufWriter) {
	bw.printf("rule CUSTOM_COMMAND\n")
	bw.printf("  command = $COMMAND\n")
	bw.printf("  restat = 1\n\n")
}

func writeRegenerateRule(bw *bufWriter, argv []string, sources []string) {
	if len(argv) == 0 {
		return
	}
	bw.printf("rule REGENERATE_BUILD\n")
	bw.printf("  command = %s\n", strings.Join(escapeArgv(argv), " "))
	bw.printf("  generator = 1\n")
	bw.printf("  pool = console\n\n")

	bw.printf("build build.ninja: REGENERATE_BUILD")
	for _, s := range sources {
		bw.printf(" %s", escapePath(s))
	}
	bw.printf("\n\n")
}

func writeTargetEdges(bw *bufWriter, ip *interp.Interp, h arena.Handle) {
	a := ip.A
	switch a.Kind(h) {
	case arena.KindBuildTarget:
		writeBuildTargetEdges(bw, ip, h)
	case arena.KindBothLibs:
		bl, _ := a.BothLibs(h)
		writeTargetEdges(bw, ip, bl.Static)
		writeTargetEdges(bw, ip, bl.Shared)
	case arena.KindCustomTarget:
		writeCustomTargetEdges(bw, a, h)
	}
}

// compileArgs folds include_directories() (own and transitive via
// dependencies:), add_project_arguments() for the target's primary
// language, and each dependency's own include dirs into the flag set
// $ARGS substitutes into a compile edge.
func compileArgs(ip *interp.Interp, t *arena.BuildTargetData, lang string) []string {
	a := ip.A
	var args []string
	args = append(args, builtin.ProjectArgsByLang(ip)[lang]...)
	args = append(args, t.PerLanguageArgs[lang]...)
	for _, inc := range t.IncludeDirs {
		args = append(args, "-I"+includePath(a, inc))
	}
	for _, dh := range t.Dependencies {
		d, ok := a.Dependency(dh)
		if !ok {
			continue
		}
		for _, inc := range d.IncludeDirs {
			args = append(args, "-I"+includePath(a, inc))
		}
	}
	return args
}

// linkArgs folds add_project_link_arguments() and every dependency's
// link flags into the flag set $LINK_ARGS substitutes into a link edge.
func linkArgs(ip *interp.Interp, t *arena.BuildTargetData, lang string) []string {
	a := ip.A
	var args []string
	args = append(args, builtin.ProjectLinkArgsByLang(ip)[lang]...)
	for _, dh := range t.Dependencies {
		d, ok := a.Dependency(dh)
		if !ok {
			continue
		}
		args = append(args, d.LinkArgs...)
	}
	return args
}

func includePath(a *arena.Arena, h arena.Handle) string {
	switch a.Kind(h) {
	case arena.KindFile:
		return a.FilePath(h)
	default:
		return ""
	}
}

func writeBuildTargetEdges(bw *bufWriter, ip *interp.Interp, h arena.Handle) {
	a := ip.A
	t, ok := a.BuildTarget(h)
	if !ok {
		return
	}
	lang := primaryLanguage(a, t)
	ruleName := strings.ToUpper(lang)
	args := compileArgs(ip, t, lang)
	argsLine := strings.Join(escapeArgv(args), " ")

	var objects []string
	for _, src := range t.Sources {
		if a.Kind(src) != arena.KindFile {
			continue
		}
		srcPath := a.FilePath(src)
		obj := path.Join(t.BuildDir, path.Base(srcPath)+".o")
		bw.printf("build %s: %s_COMPILER %s\n", escapePath(obj), ruleName, escapePath(srcPath))
		bw.printf("  ARGS = %s\n\n", argsLine)
		objects = append(objects, obj)
	}

	outPath := path.Join(t.BuildDir, "..", t.BuildName)
	switch t.Kind {
	case arena.TargetStaticLibrary:
		bw.printf("build %s: STATIC_LINKER", escapePath(outPath))
		for _, o := range objects {
			bw.printf(" %s", escapePath(o))
		}
		bw.printf("\n\n")
	default:
		linkArgsLine := strings.Join(escapeArgv(linkArgs(ip, t, lang)), " ")
		bw.printf("build %s: %s_LINKER", escapePath(outPath), ruleName)
		for _, o := range objects {
			bw.printf(" %s", escapePath(o))
		}
		for _, dep := range t.LinkWith {
			if a.Kind(dep) == arena.KindBuildTarget {
				dt, _ := a.BuildTarget(dep)
				bw.printf(" %s", escapePath(path.Join(dt.BuildDir, "..", dt.BuildName)))
			}
		}
		bw.printf("\n  ARGS = %s\n  LINK_ARGS = %s\n\n", argsLine, linkArgsLine)
	}
}

func writeCustomTargetEdges(bw *bufWriter, a *arena.Arena, h arena.Handle) {
	ct, ok := a.CustomTarget(h)
	if !ok {
		return
	}
	var outs []string
	for _, o := range ct.Outputs {
		outs = append(outs, escapePath(path.Join(ct.BuildDir, o)))
	}
	bw.printf("build %s: CUSTOM_COMMAND", strings.Join(outs, " "))
	for _, in := range ct.Inputs {
		if a.Kind(in) == arena.KindFile {
			bw.printf(" %s", escapePath(a.FilePath(in)))
		}
	}
	bw.printf("\n  COMMAND = %s\n\n", strings.Join(escapeArgv(ct.Command), " "))
}

func primaryLanguage(a *arena.Arena, t *arena.BuildTargetData) string {
	for _, src := range t.Sources {
		if a.Kind(src) != arena.KindFile {
			continue
		}
		switch path.Ext(a.FilePath(src)) {
		case ".cc", ".cpp", ".cxx":
			return "cpp"
		}
	}
	return "c"
}

// escapePath escapes a single path for Ninja's `$`-metasyntax: `$` before
// space, colon, and `$` itself.
func escapePath(p string) string {
	r := strings.NewReplacer("$", "$$", " ", "$ ", ":", "$:")
	return r.Replace(p)
}

// escapeArgv shell-escapes a full argv for embedding in a Ninja command
// line: backslash before `"'$ \<>&#`.
func escapeArgv(argv []string) []string {
	out := make([]string, len(argv))
	for i, a := range argv {
		out[i] = escapeShellArg(a)
	}
	return out
}

func escapeShellArg(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"', '\'', '$', ' ', '\\', '<', '>', '&', '#':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

type bufWriter struct {
	w   io.Writer
	err error
}

func (b *bufWriter) printf(format string, args ...any) {
	if b.err != nil {
		return
	}
	_, err := fmt.Fprintf(b.w, format, args...)
	if err != nil {
		b.err = err
	}
}

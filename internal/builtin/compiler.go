package builtin

import (
	"fmt"
	"path/filepath"

	"github.com/standardbeagle/mbs/internal/arena"
	"github.com/standardbeagle/mbs/internal/argmatch"
	"github.com/standardbeagle/mbs/internal/interp"
	"github.com/standardbeagle/mbs/internal/merrors"
)

func registerCompilerMethods(ip *interp.Interp) {
	m := func(name string, fn interp.MethodFunc) { ip.RegisterMethod(arena.KindCompiler, name, fn) }

	m("get_id", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		c, _ := ip.A.Compiler(recv)
		return ip.A.NewString(c.Detected.String()), nil
	})

	m("version", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		c, _ := ip.A.Compiler(recv)
		runner := stateFor(ip).Runner
		if runner == nil {
			runner = defaultRunner()
		}
		res, err := runner.Run(contextBackground(), append(append([]string{}, c.Argv...), "--version"), emptyRunOpts())
		if err != nil || res.Status != 0 {
			return ip.A.NewString("unknown"), nil
		}
		return ip.A.NewString(trimNewline(firstLine(res.Stdout))), nil
	})

	snippetSig := argmatch.Signature{
		Name:       "compiler snippet probe",
		Positional: []argmatch.PosSpec{{Name: "code", Types: []arena.Kind{arena.KindString}}},
	}
	m("compiles", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		matched, err := argmatch.Match(ip.A, snippetSig, loc, pos, kw)
		if err != nil {
			return arena.NullHandle, err
		}
		code, _ := ip.A.String2(matched.Get(0))
		return probeSnippet(ip, recv, code, false), nil
	})
	m("links", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		matched, err := argmatch.Match(ip.A, snippetSig, loc, pos, kw)
		if err != nil {
			return arena.NullHandle, err
		}
		code, _ := ip.A.String2(matched.Get(0))
		return probeSnippet(ip, recv, code, true), nil
	})

	nameSig := argmatch.Signature{
		Name:       "compiler probe",
		Positional: []argmatch.PosSpec{{Name: "name", Types: []arena.Kind{arena.KindString}}},
	}
	m("has_header", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		matched, err := argmatch.Match(ip.A, nameSig, loc, pos, kw)
		if err != nil {
			return arena.NullHandle, err
		}
		header, _ := ip.A.String2(matched.Get(0))
		return probeSnippet(ip, recv, fmt.Sprintf("#include <%s>\nint main(void){return 0;}\n", header), false), nil
	})

	m("has_function", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		matched, err := argmatch.Match(ip.A, nameSig, loc, pos, kw)
		if err != nil {
			return arena.NullHandle, err
		}
		fn, _ := ip.A.String2(matched.Get(0))
		return probeSnippet(ip, recv, fmt.Sprintf("void %s(void);\nint main(void){%s();return 0;}\n", fn, fn), true), nil
	})

	findLibrarySig := argmatch.Signature{
		Name:       "find_library",
		Positional: []argmatch.PosSpec{{Name: "name", Types: []arena.Kind{arena.KindString}}},
		Keywords: []argmatch.KeySpec{
			{Name: "required", Types: []arena.Kind{arena.KindBool}},
		},
	}
	m("find_library", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		matched, err := argmatch.Match(ip.A, findLibrarySig, loc, pos, kw)
		if err != nil {
			return arena.NullHandle, err
		}
		name, _ := ip.A.String2(matched.Get(0))
		required := true
		if h, ok := matched.Keyword("required"); ok {
			required = ip.A.Bool(h)
		}
		d := arena.DependencyData{Name: name, Found: true, LinkArgs: []string{"-l" + name}, Variables: ip.A.NewDict()}
		if !libraryProbablyExists(name) {
			if required {
				return arena.NullHandle, merrors.Value(loc, "library %q not found", name)
			}
			d.Found = false
			d.LinkArgs = nil
		}
		return ip.A.NewDependency(d), nil
	})

	supportedArgsSig := argmatch.Signature{
		Name: "get_supported_arguments",
		Glob: &argmatch.GlobSpec{Types: []arena.Kind{arena.KindString}},
	}
	m("get_supported_arguments", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		// Every candidate argument is accepted without probing the real
		// compiler's flag support; good enough for the build-graph role
		// this system plays, and avoids a round-trip per flag.
		matched, err := argmatch.Match(ip.A, supportedArgsSig, loc, pos, kw)
		if err != nil {
			return arena.NullHandle, err
		}
		var items []arena.Handle
		for _, h := range ip.A.ArrayItems(matched.Glob) {
			items = append(items, ip.A.NewString(Stringify(ip, h)))
		}
		return ip.A.NewArray(items...), nil
	})
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}

func libraryProbablyExists(name string) bool {
	for _, dir := range []string{"/usr/lib", "/usr/lib64", "/usr/local/lib", "/lib", "/lib64"} {
		matches, _ := filepath.Glob(filepath.Join(dir, "lib"+name+".*"))
		if len(matches) > 0 {
			return true
		}
	}
	return false
}

// probeSnippet compiles (and optionally links) a small C/C++ source
// through the compiler's own argv, mirroring compiler.compiles()/links().
func probeSnippet(ip *interp.Interp, recv arena.Handle, code string, link bool) arena.Handle {
	c, _ := ip.A.Compiler(recv)
	runner := stateFor(ip).Runner
	if runner == nil {
		runner = defaultRunner()
	}
	dir, cleanup, err := makeScratchDir()
	if err != nil {
		return ip.A.NewBool(false)
	}
	defer cleanup()

	ext := ".c"
	if c.Language == "cpp" || c.Language == "c++" {
		ext = ".cc"
	}
	srcPath := filepath.Join(dir, "probe"+ext)
	if err := writeScratchFile(srcPath, code); err != nil {
		return ip.A.NewBool(false)
	}

	argv := append([]string{}, c.Argv...)
	outPath := filepath.Join(dir, "probe.out")
	if link {
		argv = append(argv, srcPath, "-o", outPath)
	} else {
		argv = append(argv, "-c", srcPath, "-o", filepath.Join(dir, "probe.o"))
	}
	res, err := runner.Run(contextBackground(), argv, scratchRunOpts(dir))
	return ip.A.NewBool(err == nil && res.Status == 0)
}

package builtin

import (
	"os"
	"path/filepath"

	"github.com/standardbeagle/mbs/internal/arena"
	"github.com/standardbeagle/mbs/internal/argmatch"
	"github.com/standardbeagle/mbs/internal/interp"
	"github.com/standardbeagle/mbs/internal/merrors"
)

func biFindProgram(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	required := true
	if h, ok := kwHandle(kw, "required"); ok && ip.A.Kind(h) == arena.KindBool {
		required = ip.A.Bool(h)
	}
	for _, v := range pos {
		name, ok := ip.A.String2(v.H)
		if !ok {
			continue
		}
		if full, ok := lookPath(name); ok {
			return ip.A.NewExternalProgram(arena.ExternalProgramData{Found: true, FullPath: full}), nil
		}
	}
	if required {
		return arena.NullHandle, merrors.Value(loc, "program not found")
	}
	return ip.A.NewExternalProgram(arena.ExternalProgramData{Found: false}), nil
}

func lookPath(name string) (string, bool) {
	if filepath.IsAbs(name) {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name, true
		}
		return "", false
	}
	path, err := execLookPath(name)
	if err != nil {
		return "", false
	}
	return path, true
}

func registerExternalProgramMethods(ip *interp.Interp) {
	ip.RegisterMethod(arena.KindExternalProgram, "found", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		p, _ := ip.A.ExternalProgram(recv)
		return ip.A.NewBool(p.Found), nil
	})
	ip.RegisterMethod(arena.KindExternalProgram, "path", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		p, _ := ip.A.ExternalProgram(recv)
		return ip.A.NewString(p.FullPath), nil
	})
	ip.RegisterMethod(arena.KindExternalProgram, "full_path", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		p, _ := ip.A.ExternalProgram(recv)
		return ip.A.NewString(p.FullPath), nil
	})
}

func biRunCommand(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	if len(pos) < 1 {
		return arena.NullHandle, merrors.Type(loc, "run_command() requires a command argument")
	}
	var argv []string
	switch ip.A.Kind(pos[0].H) {
	case arena.KindString:
		s, _ := ip.A.String2(pos[0].H)
		argv = append(argv, s)
	case arena.KindExternalProgram:
		p, _ := ip.A.ExternalProgram(pos[0].H)
		argv = append(argv, p.FullPath)
	case arena.KindFile:
		argv = append(argv, ip.A.FilePath(pos[0].H))
	default:
		return arena.NullHandle, merrors.Type(pos[0].Loc, "run_command() command must be a string, file, or external_program")
	}
	for _, v := range pos[1:] {
		argv = append(argv, Stringify(ip, v.H))
	}

	runner := stateFor(ip).Runner
	if runner == nil {
		runner = defaultRunner()
	}
	res, err := runner.Run(contextBackground(), argv, runcmdOptionsFor(ip))
	if err != nil {
		return arena.NullHandle, merrors.External(loc, argv, -1, err.Error())
	}
	checkExit := true
	if h, ok := kwHandle(kw, "check"); ok && ip.A.Kind(h) == arena.KindBool {
		checkExit = ip.A.Bool(h)
	}
	if checkExit && res.Status != 0 {
		return arena.NullHandle, merrors.External(loc, argv, res.Status, res.Stderr)
	}
	return ip.A.NewRunResult(arena.RunResultData{Status: res.Status, Stdout: res.Stdout, Stderr: res.Stderr}), nil
}

func registerRunResultMethods(ip *interp.Interp) {
	m := func(name string, fn interp.MethodFunc) { ip.RegisterMethod(arena.KindRunResult, name, fn) }
	m("returncode", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		r, _ := ip.A.RunResult(recv)
		return ip.A.NewNumber(int64(r.Status)), nil
	})
	m("stdout", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		r, _ := ip.A.RunResult(recv)
		return ip.A.NewString(r.Stdout), nil
	})
	m("stderr", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		r, _ := ip.A.RunResult(recv)
		return ip.A.NewString(r.Stderr), nil
	})
}

package builtin

import (
	"path"

	"github.com/standardbeagle/mbs/internal/arena"
	"github.com/standardbeagle/mbs/internal/argmatch"
	"github.com/standardbeagle/mbs/internal/interp"
	"github.com/standardbeagle/mbs/internal/merrors"
)

// targetSignature is shared by executable()/static_library()/shared_library():
// a required name, a variadic glob of sources (strings become files
// relative to the current source dir; file, custom_target, generated_list,
// and build_target pass through; arrays flatten), and the three keyword
// arguments every target kind accepts.
func targetSignature(name string) argmatch.Signature {
	return argmatch.Signature{
		Name:       name,
		Positional: []argmatch.PosSpec{{Name: "name", Types: []arena.Kind{arena.KindString}}},
		Glob: &argmatch.GlobSpec{Types: []arena.Kind{
			arena.KindString, arena.KindFile, arena.KindCustomTarget,
			arena.KindGeneratedList, arena.KindBuildTarget, arena.KindArray,
		}},
		Keywords: []argmatch.KeySpec{
			{Name: "include_directories", Types: []arena.Kind{arena.KindFile, arena.KindArray}},
			{Name: "dependencies", Types: []arena.Kind{arena.KindDependency, arena.KindArray}},
			{Name: "link_with", Types: []arena.Kind{arena.KindBuildTarget, arena.KindArray}},
		},
	}
}

func targetBuiltin(kind arena.TargetKind) interp.GlobalFunc {
	return func(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		m, err := argmatch.Match(ip.A, targetSignature(kind.String()), loc, pos, kw)
		if err != nil {
			return arena.NullHandle, err
		}
		name, _ := ip.A.String2(m.Get(0))
		sources, err := coerceSourceHandles(ip, ip.A.ArrayItems(m.Glob), loc)
		if err != nil {
			return arena.NullHandle, err
		}
		var includeDirs, deps, linkWith []arena.Handle
		if h, ok := m.Keyword("include_directories"); ok {
			includeDirs = ip.A.ArrayItems(ip.A.Flatten(h))
		}
		if h, ok := m.Keyword("dependencies"); ok {
			deps = ip.A.ArrayItems(ip.A.Flatten(h))
		}
		if h, ok := m.Keyword("link_with"); ok {
			linkWith = ip.A.ArrayItems(ip.A.Flatten(h))
		}

		buildDir := path.Join(ip.BuildRoot, ip.Cwd, name+".p")
		h := ip.A.NewBuildTarget(arena.BuildTargetData{
			Name:         name,
			Kind:         kind,
			BuildDir:     buildDir,
			BuildName:    targetOutputName(kind, name),
			Sources:      sources,
			IncludeDirs:  includeDirs,
			LinkWith:     linkWith,
			Dependencies: deps,
		})
		s := stateFor(ip)
		s.Targets = append(s.Targets, h)
		return h, nil
	}
}

func targetOutputName(kind arena.TargetKind, name string) string {
	switch kind {
	case arena.TargetStaticLibrary:
		return "lib" + name + ".a"
	case arena.TargetSharedLibrary:
		return "lib" + name + ".so"
	default:
		return name
	}
}

// ExecutablePath resolves a build_target or external_program handle to the
// on-disk path its linked or probed binary lives at, mirroring
// internal/ninjawriter's own build-target output path so `mbs test` runs
// the same file ninja just built.
func ExecutablePath(a *arena.Arena, h arena.Handle) (string, bool) {
	switch a.Kind(h) {
	case arena.KindBuildTarget:
		t, ok := a.BuildTarget(h)
		if !ok {
			return "", false
		}
		return path.Join(t.BuildDir, "..", t.BuildName), true
	case arena.KindExternalProgram:
		p, ok := a.ExternalProgram(h)
		if !ok || !p.Found {
			return "", false
		}
		return p.FullPath, true
	default:
		return "", false
	}
}

func kwHandle(kw map[string]argmatch.Value, name string) (arena.Handle, bool) {
	v, ok := kw[name]
	if !ok {
		return arena.NullHandle, false
	}
	return v.H, true
}

// coerceSources applies the uniform source-argument rule to a
// variadic list of already-evaluated positional arguments.
func coerceSources(ip *interp.Interp, vals []argmatch.Value) ([]arena.Handle, error) {
	var out []arena.Handle
	for _, v := range vals {
		h, err := coerceOneSource(ip, v.H, v.Loc)
		if err != nil {
			return nil, err
		}
		out = append(out, h...)
	}
	return out, nil
}

// coerceSourceHandles applies the same rule as coerceSources to handles
// that have already passed an argmatch.Match (so their kinds are known
// good; loc only matters for the array-flatten recursion's error path,
// which Match's own kind check makes unreachable in practice).
func coerceSourceHandles(ip *interp.Interp, handles []arena.Handle, loc merrors.Location) ([]arena.Handle, error) {
	var out []arena.Handle
	for _, h := range handles {
		sub, err := coerceOneSource(ip, h, loc)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	return out, nil
}

func coerceOneSource(ip *interp.Interp, h arena.Handle, loc merrors.Location) ([]arena.Handle, error) {
	switch ip.A.Kind(h) {
	case arena.KindString:
		s, _ := ip.A.String2(h)
		return []arena.Handle{ip.A.NewFile(path.Join(ip.SourceRoot, ip.Cwd, s))}, nil
	case arena.KindFile, arena.KindCustomTarget, arena.KindGeneratedList, arena.KindBuildTarget:
		return []arena.Handle{h}, nil
	case arena.KindArray:
		var out []arena.Handle
		for _, item := range ip.A.ArrayItems(ip.A.Flatten(h)) {
			sub, err := coerceOneSource(ip, item, loc)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	default:
		return nil, merrors.Type(loc, "unsupported source argument of kind %s", ip.A.Kind(h))
	}
}

func biLibrary(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	// `library()` defaults to static unless default_library says otherwise;
	// the workspace-level default_library option isn't modeled per-call
	// here, so this mirrors static_library() and lets the project override
	// via explicit static_library()/shared_library() when it matters.
	return targetBuiltin(arena.TargetStaticLibrary)(ip, pos, kw, loc)
}

func biBothLibraries(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	st, err := targetBuiltin(arena.TargetStaticLibrary)(ip, pos, kw, loc)
	if err != nil {
		return arena.NullHandle, err
	}
	sh, err := targetBuiltin(arena.TargetSharedLibrary)(ip, pos, kw, loc)
	if err != nil {
		return arena.NullHandle, err
	}
	return ip.A.NewBothLibs(st, sh), nil
}

func registerTargetMethods(ip *interp.Interp) {
	ip.RegisterMethod(arena.KindBuildTarget, "full_path", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		t, _ := ip.A.BuildTarget(recv)
		return ip.A.NewString(path.Join(t.BuildDir, t.BuildName)), nil
	})
	ip.RegisterMethod(arena.KindBuildTarget, "name", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		t, _ := ip.A.BuildTarget(recv)
		return ip.A.NewString(t.Name), nil
	})
	ip.RegisterMethod(arena.KindBuildTarget, "private_dir_include", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		t, _ := ip.A.BuildTarget(recv)
		return ip.A.NewFile(t.BuildDir), nil
	})

	ip.RegisterMethod(arena.KindBothLibs, "get_static_lib", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		bl, _ := ip.A.BothLibs(recv)
		return bl.Static, nil
	})
	ip.RegisterMethod(arena.KindBothLibs, "get_shared_lib", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		bl, _ := ip.A.BothLibs(recv)
		return bl.Shared, nil
	})

	ip.RegisterMethod(arena.KindCustomTarget, "full_path", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		ct, _ := ip.A.CustomTarget(recv)
		if len(ct.Outputs) == 0 {
			return ip.A.NewString(""), nil
		}
		return ip.A.NewString(path.Join(ct.BuildDir, ct.Outputs[0])), nil
	})
	ip.RegisterMethod(arena.KindCustomTarget, "to_list", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		ct, _ := ip.A.CustomTarget(recv)
		items := make([]arena.Handle, len(ct.Outputs))
		for i, o := range ct.Outputs {
			items[i] = ip.A.NewFile(path.Join(ct.BuildDir, o))
		}
		return ip.A.NewArray(items...), nil
	})
}

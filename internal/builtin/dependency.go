package builtin

import (
	"github.com/standardbeagle/mbs/internal/arena"
	"github.com/standardbeagle/mbs/internal/argmatch"
	"github.com/standardbeagle/mbs/internal/interp"
	"github.com/standardbeagle/mbs/internal/merrors"
)

func biDeclareDependency(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	sig := argmatch.Signature{
		Name: "declare_dependency",
		Keywords: []argmatch.KeySpec{
			{Name: "version", Types: []arena.Kind{arena.KindString}},
			{Name: "include_directories", Types: []arena.Kind{arena.KindFile, arena.KindArray}},
			{Name: "link_args", Types: []arena.Kind{arena.KindString, arena.KindArray}},
			{Name: "variables", Types: []arena.Kind{arena.KindDict}},
		},
	}
	m, err := argmatch.Match(ip.A, sig, loc, pos, kw)
	if err != nil {
		return arena.NullHandle, err
	}
	d := arena.DependencyData{Found: true, Variables: ip.A.NewDict()}
	if h, ok := m.Keyword("version"); ok {
		d.Version, _ = ip.A.String2(h)
	}
	if h, ok := m.Keyword("include_directories"); ok {
		d.IncludeDirs = ip.A.ArrayItems(ip.A.Flatten(h))
	}
	if h, ok := m.Keyword("link_args"); ok {
		d.LinkArgs = stringList(ip, ip.A.Flatten(h))
	}
	if h, ok := m.Keyword("variables"); ok {
		d.Variables = h
	}
	return ip.A.NewDependency(d), nil
}

// biDependency implements dependency(), backed by a pkg-config probe
// through the installed runner. required defaults to true: a dependency
// that cannot be found aborts evaluation unless required: false is set,
// in which case it is returned as a not-found value.
func biDependency(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	sig := argmatch.Signature{
		Name:       "dependency",
		Positional: []argmatch.PosSpec{{Name: "name", Types: []arena.Kind{arena.KindString}}},
		Keywords: []argmatch.KeySpec{
			{Name: "required", Types: []arena.Kind{arena.KindBool}},
		},
	}
	m, err := argmatch.Match(ip.A, sig, loc, pos, kw)
	if err != nil {
		return arena.NullHandle, err
	}
	name, _ := ip.A.String2(m.Get(0))
	required := true
	if h, ok := m.Keyword("required"); ok {
		required = ip.A.Bool(h)
	}

	runner := stateFor(ip).Runner
	if runner == nil {
		runner = defaultRunner()
	}
	res, err := runner.Run(contextBackground(), []string{"pkg-config", "--modversion", name}, emptyRunOpts())
	found := err == nil && res.Status == 0
	d := arena.DependencyData{Name: name, Found: found, Variables: ip.A.NewDict()}
	if found {
		d.Version = trimNewline(res.Stdout)
		d.FromPkgConfig = true
		if flagsRes, ferr := runner.Run(contextBackground(), []string{"pkg-config", "--libs", name}, emptyRunOpts()); ferr == nil && flagsRes.Status == 0 {
			d.LinkArgs = splitFields(trimNewline(flagsRes.Stdout))
		}
	} else if required {
		status := 1
		stderr := ""
		if err == nil {
			status = res.Status
			stderr = res.Stderr
		}
		return arena.NullHandle, merrors.External(loc, []string{"pkg-config", "--modversion", name}, status, stderr)
	}
	return ip.A.NewDependency(d), nil
}

func registerDependencyMethods(ip *interp.Interp) {
	m := func(name string, fn interp.MethodFunc) { ip.RegisterMethod(arena.KindDependency, name, fn) }

	m("found", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		d, _ := ip.A.Dependency(recv)
		return ip.A.NewBool(d.Found), nil
	})
	m("version", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		d, _ := ip.A.Dependency(recv)
		return ip.A.NewString(d.Version), nil
	})
	// get_variable resolves positional pkgconfig-style names first, falling
	// back to pkg-config --variable when the dependency came from there and
	// no declared variable matched.
	m("get_variable", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		d, _ := ip.A.Dependency(recv)
		sig := argmatch.Signature{
			Name:       "get_variable",
			Positional: []argmatch.PosSpec{{Name: "name", Types: []arena.Kind{arena.KindString}, Optional: true}},
			Keywords: []argmatch.KeySpec{
				{Name: "pkgconfig", Types: []arena.Kind{arena.KindString}},
				{Name: "internal", Types: []arena.Kind{arena.KindString}},
				{Name: "default_value", Types: nil},
			},
		}
		m, err := argmatch.Match(ip.A, sig, loc, pos, kw)
		if err != nil {
			return arena.NullHandle, err
		}
		var varName string
		if m.PosSet[0] {
			varName, _ = ip.A.String2(m.Get(0))
		} else if h, ok := m.Keyword("pkgconfig"); ok {
			varName, _ = ip.A.String2(h)
		} else if h, ok := m.Keyword("internal"); ok {
			varName, _ = ip.A.String2(h)
		}
		if varName == "" {
			return arena.NullHandle, merrors.Type(loc, "get_variable() requires a variable name")
		}
		if v, ok := ip.A.DictGet(d.Variables, varName); ok {
			return v, nil
		}
		if d.FromPkgConfig {
			runner := stateFor(ip).Runner
			if runner == nil {
				runner = defaultRunner()
			}
			res, err := runner.Run(contextBackground(), []string{"pkg-config", "--variable=" + varName, d.Name}, emptyRunOpts())
			if err == nil && res.Status == 0 {
				return ip.A.NewString(trimNewline(res.Stdout)), nil
			}
		}
		if h, ok := m.Keyword("default_value"); ok {
			return h, nil
		}
		return arena.NullHandle, merrors.Value(loc, "unknown dependency variable %q", varName)
	})
	m("get_pkgconfig_variable", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		d, _ := ip.A.Dependency(recv)
		sig := argmatch.Signature{
			Name:       "get_pkgconfig_variable",
			Positional: []argmatch.PosSpec{{Name: "variable_name", Types: []arena.Kind{arena.KindString}}},
		}
		m, err := argmatch.Match(ip.A, sig, loc, pos, kw)
		if err != nil {
			return arena.NullHandle, err
		}
		varName, _ := ip.A.String2(m.Get(0))
		runner := stateFor(ip).Runner
		if runner == nil {
			runner = defaultRunner()
		}
		res, err := runner.Run(contextBackground(), []string{"pkg-config", "--variable=" + varName, d.Name}, emptyRunOpts())
		if err == nil && res.Status == 0 {
			return ip.A.NewString(trimNewline(res.Stdout)), nil
		}
		return arena.NullHandle, merrors.Value(loc, "pkg-config variable %q not found for %q", varName, d.Name)
	})
}

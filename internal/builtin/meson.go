package builtin

import (
	"github.com/standardbeagle/mbs/internal/arena"
	"github.com/standardbeagle/mbs/internal/argmatch"
	"github.com/standardbeagle/mbs/internal/interp"
	"github.com/standardbeagle/mbs/internal/merrors"
)

// BuildVersion is the Meson language version reported by meson.version();
// it is independent of mbs's own release number in internal/version.
var BuildVersion = "0.1.0"

func registerMesonMethods(ip *interp.Interp) {
	m := func(name string, fn interp.MethodFunc) { ip.RegisterMethod(arena.KindMeson, name, fn) }

	m("source_root", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		return ip.A.NewString(ip.SourceRoot), nil
	})
	m("build_root", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		return ip.A.NewString(ip.BuildRoot), nil
	})
	m("current_source_dir", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		return ip.A.NewString(joinRoot(ip.SourceRoot, ip.Cwd)), nil
	})
	m("current_build_dir", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		return ip.A.NewString(joinRoot(ip.BuildRoot, ip.Cwd)), nil
	})
	m("project_name", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		cfg := Config(ip)
		if cfg == nil {
			return arena.NullHandle, merrors.Internal(loc, "project_name() called before project()")
		}
		return ip.A.NewString(cfg.Name), nil
	})
	m("project_version", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		cfg := Config(ip)
		if cfg == nil {
			return arena.NullHandle, merrors.Internal(loc, "project_version() called before project()")
		}
		return ip.A.NewString(cfg.Version), nil
	})
	m("version", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		return ip.A.NewString(BuildVersion), nil
	})
	m("override_dependency", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		if len(pos) < 2 {
			return arena.NullHandle, merrors.Type(loc, "override_dependency() requires a name and a dependency")
		}
		name, _ := ip.A.String2(pos[0].H)
		stateFor(ip).Overrides[name] = pos[1].H
		return arena.NullHandle, nil
	})
	m("add_install_script", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		var argv []string
		for _, v := range pos {
			argv = append(argv, Stringify(ip, v.H))
		}
		stateFor(ip).InstallScripts = append(stateFor(ip).InstallScripts, argv)
		return arena.NullHandle, nil
	})
}

func joinRoot(root, cwd string) string {
	if cwd == "" || cwd == "." {
		return root
	}
	return root + "/" + cwd
}

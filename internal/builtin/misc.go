package builtin

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/mbs/internal/arena"
	"github.com/standardbeagle/mbs/internal/argmatch"
	"github.com/standardbeagle/mbs/internal/interp"
	"github.com/standardbeagle/mbs/internal/merrors"
)

// biFiles resolves each argument relative to the current source directory.
// An argument containing glob metacharacters (*, ?, [, {) is matched
// against every regular file under that directory with doublestar.Match,
// in sorted order; a plain path is wrapped as a single file whether or
// not it currently exists, matching how every other source-accepting
// builtin treats its arguments.
func biFiles(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	var items []arena.Handle
	for _, v := range pos {
		s, ok := ip.A.String2(v.H)
		if !ok {
			return arena.NullHandle, merrors.Type(v.Loc, "files() arguments must be strings")
		}
		if !hasGlobMeta(s) {
			items = append(items, ip.A.NewFile(path.Join(ip.SourceRoot, ip.Cwd, s)))
			continue
		}
		base := path.Join(ip.SourceRoot, ip.Cwd)
		matches, err := globFiles(base, s)
		if err != nil {
			return arena.NullHandle, merrors.Value(v.Loc, "files(): invalid glob %q: %v", s, err)
		}
		for _, m := range matches {
			items = append(items, ip.A.NewFile(m))
		}
	}
	return ip.A.NewArray(items...), nil
}

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

func globFiles(base, pattern string) ([]string, error) {
	var matches []string
	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return nil
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			matches = append(matches, p)
		}
		return nil
	})
	sort.Strings(matches)
	return matches, err
}

func biIncludeDirectories(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	var items []arena.Handle
	for _, v := range pos {
		s, ok := ip.A.String2(v.H)
		if !ok {
			return arena.NullHandle, merrors.Type(v.Loc, "include_directories() arguments must be strings")
		}
		items = append(items, ip.A.NewFile(path.Join(ip.SourceRoot, ip.Cwd, s)))
	}
	return ip.A.NewArray(items...), nil
}

func biInstallData(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	sources, err := coerceSources(ip, pos)
	if err != nil {
		return arena.NullHandle, err
	}
	subdir := ""
	if h, ok := kwHandle(kw, "install_dir"); ok {
		subdir, _ = ip.A.String2(h)
	}
	s := stateFor(ip)
	s.Installs = append(s.Installs, InstallEntry{Kind: "data", Sources: sources, Subdir: subdir})
	return arena.NullHandle, nil
}

func biInstallHeaders(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	sources, err := coerceSources(ip, pos)
	if err != nil {
		return arena.NullHandle, err
	}
	subdir := ""
	if h, ok := kwHandle(kw, "subdir"); ok {
		subdir, _ = ip.A.String2(h)
	}
	s := stateFor(ip)
	s.Installs = append(s.Installs, InstallEntry{Kind: "headers", Sources: sources, Subdir: subdir})
	return arena.NullHandle, nil
}

// biTest records a test declaration: the name, the executable or
// external_program to run, its arguments, suite tags, and whether it may
// run alongside other tests. Running it is the `mbs test` command's job,
// not this interpreter's; this builtin only builds the manifest entry.
func biTest(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	if len(pos) < 2 {
		return arena.NullHandle, merrors.Type(loc, "test(): requires a name and an executable")
	}
	name, ok := ip.A.String2(pos[0].H)
	if !ok {
		return arena.NullHandle, merrors.Type(pos[0].Loc, "test(): name must be a string")
	}
	switch ip.A.Kind(pos[1].H) {
	case arena.KindBuildTarget, arena.KindExternalProgram:
	default:
		return arena.NullHandle, merrors.Type(pos[1].Loc, "test(): second argument must be an executable or external program")
	}

	var args []string
	if h, ok := kwHandle(kw, "args"); ok {
		args = stringListExported(ip, ip.A.Flatten(h))
	}
	var suites []string
	if h, ok := kwHandle(kw, "suite"); ok {
		suites = stringListExported(ip, ip.A.Flatten(h))
	}
	isParallel := true
	if h, ok := kwHandle(kw, "is_parallel"); ok {
		isParallel = ip.A.Bool(h)
	}
	var timeout int64
	if h, ok := kwHandle(kw, "timeout"); ok {
		timeout = ip.A.Number(h)
	}

	s := stateFor(ip)
	s.Tests = append(s.Tests, TestEntry{
		Name:       name,
		Exe:        pos[1].H,
		Args:       args,
		Suites:     suites,
		IsParallel: isParallel,
		Timeout:    timeout,
	})
	return arena.NullHandle, nil
}

// biConfigureFile implements the simple substitution mode: every @key@ in
// the input file is replaced by that key's value from the configuration:
// dict, and the result is written to output: in the current build
// directory. input/output/configuration are all keyword arguments;
// #mesondefine lines are not processed.
func biConfigureFile(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	inputH, ok := kwHandle(kw, "input")
	if !ok {
		return arena.NullHandle, merrors.Type(loc, "configure_file() requires input:")
	}
	inStr, ok := ip.A.String2(inputH)
	if !ok {
		return arena.NullHandle, merrors.Type(loc, "configure_file() input must be a string")
	}
	outH, ok := kwHandle(kw, "output")
	if !ok {
		return arena.NullHandle, merrors.Type(loc, "configure_file() requires output:")
	}
	outStr, _ := ip.A.String2(outH)

	inPath := path.Join(ip.SourceRoot, ip.Cwd, inStr)
	outDir := path.Join(ip.BuildRoot, ip.Cwd)
	outPath := path.Join(outDir, outStr)

	contents, err := readConfigureInput(inPath)
	if err != nil {
		return arena.NullHandle, merrors.IO(loc, "read", inPath, err)
	}
	if h, ok := kwHandle(kw, "configuration"); ok && ip.A.Kind(h) == arena.KindDict {
		for _, key := range ip.A.DictKeys(h) {
			v, _ := ip.A.DictGet(h, key)
			contents = strings.ReplaceAll(contents, "@"+key+"@", Stringify(ip, v))
		}
	}
	if err := writeConfiguredOutput(outPath, contents); err != nil {
		return arena.NullHandle, merrors.IO(loc, "write", outPath, err)
	}
	return ip.A.NewFile(outPath), nil
}

func biAddProjectArguments(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	args := stringList(ip, ip.A.NewArray(valuesToHandles(pos)...))
	s := stateFor(ip)
	for _, lang := range keywordLanguages(ip, kw) {
		s.ArgsByLang[lang] = append(s.ArgsByLang[lang], args...)
	}
	return arena.NullHandle, nil
}

func biAddProjectLinkArguments(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	args := stringList(ip, ip.A.NewArray(valuesToHandles(pos)...))
	s := stateFor(ip)
	for _, lang := range keywordLanguages(ip, kw) {
		s.LinkArgs[lang] = append(s.LinkArgs[lang], args...)
	}
	return arena.NullHandle, nil
}

func valuesToHandles(vals []argmatch.Value) []arena.Handle {
	out := make([]arena.Handle, len(vals))
	for i, v := range vals {
		out[i] = v.H
	}
	return out
}

func keywordLanguages(ip *interp.Interp, kw map[string]argmatch.Value) []string {
	if h, ok := kwHandle(kw, "language"); ok {
		return stringList(ip, h)
	}
	cfg := Config(ip)
	if cfg == nil {
		return nil
	}
	return cfg.Languages
}

// biSubdir delegates to the workspace-supplied hook: interp stays ignorant
// of how "evaluate meson.build in a child directory" actually works, since
// that requires reading and parsing another file.
func biSubdir(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	if len(pos) != 1 {
		return arena.NullHandle, merrors.Type(loc, "subdir() requires exactly one argument")
	}
	name, ok := ip.A.String2(pos[0].H)
	if !ok {
		return arena.NullHandle, merrors.Type(pos[0].Loc, "subdir() argument must be a string")
	}
	if ip.OnSubdir == nil {
		return arena.NullHandle, merrors.Internal(loc, "subdir() is not available in this evaluation context")
	}
	if err := ip.OnSubdir(ip, name); err != nil {
		return arena.NullHandle, err
	}
	return arena.NullHandle, nil
}

func biSubproject(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	if len(pos) != 1 {
		return arena.NullHandle, merrors.Type(loc, "subproject() requires exactly one argument")
	}
	name, ok := ip.A.String2(pos[0].H)
	if !ok {
		return arena.NullHandle, merrors.Type(pos[0].Loc, "subproject() argument must be a string")
	}
	if ip.OnSubproject == nil {
		return arena.NullHandle, merrors.Internal(loc, "subproject() is not available in this evaluation context")
	}
	return ip.OnSubproject(ip, name)
}

func registerSubprojectMethods(ip *interp.Interp) {
	ip.RegisterMethod(arena.KindSubproject, "found", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		sp, _ := ip.A.Subproject(recv)
		return ip.A.NewBool(sp.Found), nil
	})
}

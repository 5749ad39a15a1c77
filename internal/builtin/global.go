// Package builtin registers every global function and per-kind method
// table into an internal/interp.Interp. It depends on interp,
// never the reverse, so there is no import cycle.
package builtin

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/standardbeagle/mbs/internal/arena"
	"github.com/standardbeagle/mbs/internal/argmatch"
	"github.com/standardbeagle/mbs/internal/interp"
	"github.com/standardbeagle/mbs/internal/machinefile"
	"github.com/standardbeagle/mbs/internal/merrors"
	"github.com/standardbeagle/mbs/internal/runcmd"
)

// ProjectConfig is populated by project() and read back by the workspace
// once evaluation of the root file completes.
type ProjectConfig struct {
	Name           string
	Languages      []string
	Version        string
	License        []string
	DefaultOptions []string
	SubprojectDir  string
}

// state carries per-project data that doesn't belong on interp.Interp
// itself (interp is domain-agnostic; this is meson-domain state).
type state struct {
	Config         *ProjectConfig
	Options        map[string]string // get_option() source, set by the workspace before evaluation
	Targets        []arena.Handle
	Runner         runcmd.Runner
	Machine        *machinefile.Machine
	ArgsByLang     map[string][]string
	LinkArgs       map[string][]string
	Overrides      map[string]arena.Handle
	InstallScripts [][]string
	Installs       []InstallEntry
	Tests          []TestEntry
}

// InstallEntry records one install_data()/install_headers() request for
// the workspace to act on after evaluation.
type InstallEntry struct {
	Kind    string // "data" or "headers"
	Sources []arena.Handle
	Subdir  string
}

// TestEntry records one test() declaration for the `mbs test` command to
// read and run after evaluation; test() itself (see
// internal/builtin/misc.go's biTest) executes nothing.
type TestEntry struct {
	Name       string
	Exe        arena.Handle // build_target or external_program
	Args       []string
	Suites     []string
	IsParallel bool
	Timeout    int64 // seconds, 0 means the caller's default
}

var states = map[*interp.Interp]*state{}

func stateFor(ip *interp.Interp) *state {
	s, ok := states[ip]
	if !ok {
		s = &state{
			Options:    map[string]string{},
			ArgsByLang: map[string][]string{},
			LinkArgs:   map[string][]string{},
			Overrides:  map[string]arena.Handle{},
		}
		states[ip] = s
	}
	return s
}

// Targets exposes the project's declared build targets to the workspace
// once evaluation finishes (used by the Ninja emitter).
func Targets(ip *interp.Interp) []arena.Handle { return stateFor(ip).Targets }

// Tests exposes every test() declaration to the `mbs test` command.
func Tests(ip *interp.Interp) []TestEntry { return stateFor(ip).Tests }

// Installs exposes every install_data()/install_headers() declaration to
// the `mbs install` command.
func Installs(ip *interp.Interp) []InstallEntry { return stateFor(ip).Installs }

// Config exposes the resolved project() configuration, or nil if project()
// hasn't run yet.
func Config(ip *interp.Interp) *ProjectConfig { return stateFor(ip).Config }

// ProjectArgsByLang exposes every add_project_arguments() call's flags,
// keyed by language, for the Ninja emitter to fold into each compile edge.
func ProjectArgsByLang(ip *interp.Interp) map[string][]string { return stateFor(ip).ArgsByLang }

// ProjectLinkArgsByLang exposes every add_project_link_arguments() call's
// flags, keyed by language, for the Ninja emitter to fold into each link edge.
func ProjectLinkArgsByLang(ip *interp.Interp) map[string][]string { return stateFor(ip).LinkArgs }

// SetOptions seeds get_option()'s backing store before evaluation starts
// (from -D flags, native/cross machine files, or default_options).
func SetOptions(ip *interp.Interp, opts map[string]string) {
	stateFor(ip).Options = opts
}

// SetRunner installs the child-process collaborator used by
// run_command()/find_program()/compiler probes.
func SetRunner(ip *interp.Interp, r runcmd.Runner) {
	stateFor(ip).Runner = r
}

// SetMachine installs the native or cross machine file project()'s
// compiler-detection step consults before falling back to environment
// variables and candidate binary names.
func SetMachine(ip *interp.Interp, m *machinefile.Machine) {
	stateFor(ip).Machine = m
}

// Register installs every global builtin and method table into ip.
func Register(ip *interp.Interp) {
	registerGlobals(ip)
	registerStringMethods(ip)
	registerArrayMethods(ip)
	registerDictMethods(ip)
	registerDependencyMethods(ip)
	registerTargetMethods(ip)
	registerGeneratorMethods(ip)
	registerExternalProgramMethods(ip)
	registerCompilerMethods(ip)
	registerEnvironmentMethods(ip)
	registerMesonMethods(ip)
	registerRunResultMethods(ip)
	registerSubprojectMethods(ip)
}

func registerGlobals(ip *interp.Interp) {
	ip.RegisterGlobal("project", biProject)
	ip.RegisterGlobal("executable", targetBuiltin(arena.TargetExecutable))
	ip.RegisterGlobal("static_library", targetBuiltin(arena.TargetStaticLibrary))
	ip.RegisterGlobal("shared_library", targetBuiltin(arena.TargetSharedLibrary))
	ip.RegisterGlobal("library", biLibrary)
	ip.RegisterGlobal("both_libraries", biBothLibraries)
	ip.RegisterGlobal("custom_target", biCustomTarget)
	ip.RegisterGlobal("generator", biGenerator)
	ip.RegisterGlobal("files", biFiles)
	ip.RegisterGlobal("include_directories", biIncludeDirectories)
	ip.RegisterGlobal("declare_dependency", biDeclareDependency)
	ip.RegisterGlobal("dependency", biDependency)
	ip.RegisterGlobal("subproject", biSubproject)
	ip.RegisterGlobal("subdir", biSubdir)
	ip.RegisterGlobal("install_data", biInstallData)
	ip.RegisterGlobal("install_headers", biInstallHeaders)
	ip.RegisterGlobal("configure_file", biConfigureFile)
	ip.RegisterGlobal("find_program", biFindProgram)
	ip.RegisterGlobal("run_command", biRunCommand)
	ip.RegisterGlobal("add_project_arguments", biAddProjectArguments)
	ip.RegisterGlobal("add_project_link_arguments", biAddProjectLinkArguments)
	ip.RegisterGlobal("environment", biEnvironment)
	ip.RegisterGlobal("message", biMessage)
	ip.RegisterGlobal("warning", biWarning)
	ip.RegisterGlobal("error", biError)
	ip.RegisterGlobal("assert", biAssert)
	ip.RegisterGlobal("get_option", biGetOption)
	ip.RegisterGlobal("test", biTest)
}

// --- project() ---------------------------------------------------------

func biProject(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	sig := argmatch.Signature{
		Name:       "project",
		Positional: []argmatch.PosSpec{{Name: "name", Types: []arena.Kind{arena.KindString}}},
		Glob:       &argmatch.GlobSpec{Types: []arena.Kind{arena.KindString}},
		Keywords: []argmatch.KeySpec{
			{Name: "version", Types: []arena.Kind{arena.KindString}},
			{Name: "license", Types: []arena.Kind{arena.KindString, arena.KindArray}},
			{Name: "default_options", Types: []arena.Kind{arena.KindString, arena.KindArray}},
			{Name: "meson_version", Types: []arena.Kind{arena.KindString}},
			{Name: "subproject_dir", Types: []arena.Kind{arena.KindString}},
		},
	}
	m, err := argmatch.Match(ip.A, sig, loc, pos, kw)
	if err != nil {
		return arena.NullHandle, err
	}
	name, _ := ip.A.String2(m.Get(0))
	var langs []string
	for _, h := range ip.A.ArrayItems(m.Glob) {
		s, _ := ip.A.String2(h)
		langs = append(langs, s)
	}
	cfg := &ProjectConfig{Name: name, Languages: langs, SubprojectDir: "subprojects"}
	if h, ok := m.Keyword("version"); ok {
		cfg.Version, _ = ip.A.String2(h)
	}
	if h, ok := m.Keyword("subproject_dir"); ok {
		cfg.SubprojectDir, _ = ip.A.String2(h)
	}
	if h, ok := m.Keyword("license"); ok {
		cfg.License = stringList(ip, h)
	}
	if h, ok := m.Keyword("default_options"); ok {
		cfg.DefaultOptions = stringList(ip, h)
	}
	stateFor(ip).Config = cfg

	runner := stateFor(ip).Runner
	if runner == nil {
		runner = runcmd.Default()
	}
	machine := stateFor(ip).Machine
	for _, lang := range langs {
		probed := probeCompiler(ip, runner, machine, lang)
		ip.Assign("__compiler_"+lang, probed)
	}
	return arena.NullHandle, nil
}

func stringList(ip *interp.Interp, h arena.Handle) []string {
	var out []string
	if ip.A.Kind(h) == arena.KindArray {
		for _, item := range ip.A.ArrayItems(h) {
			if s, ok := ip.A.String2(item); ok {
				out = append(out, s)
			}
		}
		return out
	}
	if s, ok := ip.A.String2(h); ok {
		out = append(out, s)
	}
	return out
}

// probeCompiler picks a compiler for lang in priority order: the machine
// file's [binaries] table (native or cross file passed to `mbs setup -m`),
// then the CC/CXX environment variables, then the usual candidate names
// probed concurrently with `--version`.
func probeCompiler(ip *interp.Interp, r runcmd.Runner, machine *machinefile.Machine, lang string) arena.Handle {
	if bin, ok := machine.Binary(binariesKey(lang)); ok {
		return probeOne(ip, r, lang, bin)
	}
	if env, ok := compilerEnvVar(lang); ok {
		if bin := os.Getenv(env); bin != "" {
			return probeOne(ip, r, lang, bin)
		}
	}

	names := compilerCandidates(lang)
	argvs := make([][]string, len(names))
	for i, n := range names {
		argvs[i] = []string{n, "--version"}
	}
	probes := runcmd.ProbeConcurrently(context.Background(), r, argvs, runcmd.Options{})
	for _, p := range probes {
		if p.Err != nil || p.Result.Status != 0 {
			continue
		}
		kind, deps := classifyCompiler(p.Result.Stdout)
		return ip.A.NewCompiler(arena.CompilerData{Language: lang, Argv: []string{p.Argv[0]}, Detected: kind, Deps: deps})
	}
	return ip.A.NewCompiler(arena.CompilerData{Language: lang, Argv: names[:1], Detected: arena.CompilerUnknown, Deps: arena.DepsNone})
}

// probeOne runs a single forced compiler binary (from a machine file or an
// environment variable override) and trusts it rather than falling back,
// the way a configured toolchain is meant to be honored unconditionally.
func probeOne(ip *interp.Interp, r runcmd.Runner, lang, bin string) arena.Handle {
	res, err := r.Run(context.Background(), []string{bin, "--version"}, runcmd.Options{})
	if err != nil || res.Status != 0 {
		return ip.A.NewCompiler(arena.CompilerData{Language: lang, Argv: []string{bin}, Detected: arena.CompilerUnknown, Deps: arena.DepsNone})
	}
	kind, deps := classifyCompiler(res.Stdout)
	return ip.A.NewCompiler(arena.CompilerData{Language: lang, Argv: []string{bin}, Detected: kind, Deps: deps})
}

func binariesKey(lang string) string {
	switch lang {
	case "cpp", "c++":
		return "cpp"
	default:
		return lang
	}
}

func compilerEnvVar(lang string) (string, bool) {
	switch lang {
	case "c":
		return "CC", true
	case "cpp", "c++":
		return "CXX", true
	default:
		return "", false
	}
}

func compilerCandidates(lang string) []string {
	switch lang {
	case "c":
		return []string{"cc", "gcc", "clang"}
	case "cpp", "c++":
		return []string{"c++", "g++", "clang++"}
	default:
		return []string{lang}
	}
}

func classifyCompiler(versionOutput string) (arena.CompilerKind, arena.DepsFlavour) {
	switch {
	case strings.Contains(versionOutput, "clang"):
		return arena.CompilerClang, arena.DepsGCC
	case strings.Contains(versionOutput, "Free Software Foundation") || strings.Contains(versionOutput, "gcc"):
		return arena.CompilerGCC, arena.DepsGCC
	case strings.Contains(versionOutput, "Microsoft"):
		return arena.CompilerMSVC, arena.DepsMSVC
	default:
		return arena.CompilerUnknown, arena.DepsNone
	}
}

// message/warning/error/assert -------------------------------------------

func biMessage(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	ip.Messages = append(ip.Messages, "MESSAGE: "+joinStringify(ip, pos))
	return arena.NullHandle, nil
}

func biWarning(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	ip.Messages = append(ip.Messages, "WARNING: "+joinStringify(ip, pos))
	return arena.NullHandle, nil
}

func biError(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	return arena.NullHandle, merrors.Value(loc, "%s", joinStringify(ip, pos))
}

func biAssert(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	if len(pos) == 0 || ip.A.Kind(pos[0].H) != arena.KindBool {
		return arena.NullHandle, merrors.Type(loc, "assert() requires a bool as its first argument")
	}
	if !ip.A.Bool(pos[0].H) {
		msg := "assertion failed"
		if len(pos) > 1 {
			if s, ok := ip.A.String2(pos[1].H); ok {
				msg = s
			}
		}
		return arena.NullHandle, merrors.Value(loc, "%s", msg)
	}
	return arena.NullHandle, nil
}

func biGetOption(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	if len(pos) != 1 {
		return arena.NullHandle, merrors.Type(loc, "get_option() requires exactly one argument")
	}
	name, ok := ip.A.String2(pos[0].H)
	if !ok {
		return arena.NullHandle, merrors.Type(loc, "get_option() requires a string argument")
	}
	s := stateFor(ip)
	v, ok := s.Options[name]
	if !ok {
		return arena.NullHandle, merrors.Value(loc, "unknown option %q", name)
	}
	switch v {
	case "true":
		return ip.A.NewBool(true), nil
	case "false":
		return ip.A.NewBool(false), nil
	default:
		return ip.A.NewString(v), nil
	}
}

func joinStringify(ip *interp.Interp, vals []argmatch.Value) string {
	out := ""
	for i, v := range vals {
		if i > 0 {
			out += " "
		}
		out += Stringify(ip, v.H)
	}
	return out
}

// Stringify renders a handle the way message()/str() do: plain text for
// scalars, an angle-bracketed kind tag for everything composite.
func Stringify(ip *interp.Interp, h arena.Handle) string {
	switch ip.A.Kind(h) {
	case arena.KindString, arena.KindFile:
		s, _ := ip.A.String2(h)
		return s
	case arena.KindBool:
		if ip.A.Bool(h) {
			return "true"
		}
		return "false"
	case arena.KindNumber:
		return fmt.Sprintf("%d", ip.A.Number(h))
	default:
		return fmt.Sprintf("<%s>", ip.A.Kind(h))
	}
}

// Package workspace threads projects, subprojects, and compiler
// definitions through evaluation. It owns the single
// arena and global scope shared by every project's interpreter and wires
// the subdir()/subproject() hooks that keep interp ignorant of how
// a child meson.build file gets read and parsed.
package workspace

import (
	"os"
	"path"

	"github.com/standardbeagle/mbs/internal/arena"
	"github.com/standardbeagle/mbs/internal/builtin"
	"github.com/standardbeagle/mbs/internal/interp"
	"github.com/standardbeagle/mbs/internal/lexer"
	"github.com/standardbeagle/mbs/internal/machinefile"
	"github.com/standardbeagle/mbs/internal/merrors"
	"github.com/standardbeagle/mbs/internal/parser"
)

// Project is one unit of DSL evaluation: its own interpreter, scope, and
// declared targets, rooted at a source directory.
type Project struct {
	Name       string
	SourceRoot string
	BuildRoot  string
	Interp     *interp.Interp
	Found      bool
}

// Workspace owns the object arena, the global scope, and the list of
// projects created during evaluation (the root project plus any
// subprojects). Constructed once per invocation; torn down when the
// caller is done with it.
type Workspace struct {
	A      *arena.Arena
	Global *interp.Scope

	SourceRoot string
	BuildRoot  string
	Mode       lexer.Mode
	Options    map[string]string
	Machine    *machinefile.Machine

	Root            *Project
	Subprojects     map[string]*Project
	subprojectOrder []string

	// Regenerate lists every source file read during evaluation, in read
	// order, so the caller can wire `ninja` regeneration against them.
	Regenerate []string
}

// New constructs a workspace rooted at sourceRoot/buildRoot with a fresh
// arena and global scope. No project exists yet; `meson` is bound by
// newProject when each project's interpreter is created.
func New(sourceRoot, buildRoot string, mode lexer.Mode, options map[string]string) *Workspace {
	a := arena.New()
	global := interp.NewScope()
	ws := &Workspace{
		A:           a,
		Global:      global,
		SourceRoot:  sourceRoot,
		BuildRoot:   buildRoot,
		Mode:        mode,
		Options:     options,
		Subprojects: map[string]*Project{},
	}
	return ws
}

// newProject allocates a fresh interpreter sharing the workspace's arena
// and global scope, registers every builtin into it, and binds `meson`.
func (ws *Workspace) newProject(name, sourceRoot, buildRoot string) *Project {
	ip := interp.New(ws.A, ws.Global, sourceRoot, buildRoot)
	builtin.Register(ip)
	builtin.SetOptions(ip, ws.Options)
	builtin.SetMachine(ip, ws.Machine)
	ip.DefineGlobal("meson", ws.A.NewMeson())
	ip.OnSubdir = ws.onSubdir
	ip.OnSubproject = ws.onSubproject
	return &Project{Name: name, SourceRoot: sourceRoot, BuildRoot: buildRoot, Interp: ip, Found: true}
}

// EvaluateRoot reads, parses, and evaluates the workspace's root
// meson.build. Its first statement must be a call to project().
func (ws *Workspace) EvaluateRoot() error {
	proj := ws.newProject("", ws.SourceRoot, ws.BuildRoot)
	ws.Root = proj
	return ws.evaluateFile(proj.Interp, ws.SourceRoot, "meson.build", true)
}

func (ws *Workspace) evaluateFile(ip *interp.Interp, root, relPath string, requireProject bool) error {
	fullPath := path.Join(root, relPath)
	src, err := os.ReadFile(fullPath)
	if err != nil {
		return merrors.IO(merrors.Location{File: fullPath}, "read", fullPath, err)
	}
	ws.Regenerate = append(ws.Regenerate, fullPath)

	lx := lexer.New(fullPath, string(src), ws.Mode)
	toks, err := lx.Scan()
	if err != nil {
		return err
	}
	p := parser.New(fullPath, toks, ws.Mode)
	if requireProject {
		p.RequireLeadingProject()
	}
	file, err := p.Parse()
	if err != nil {
		return err
	}
	return ip.EvalFile(file)
}

// onSubdir implements subdir(): evaluate <cwd>/<name>/meson.build in the
// same project scope, with Cwd pushed for the duration. Subdirs share the
// project scope; they do not get their own interpreter.
func (ws *Workspace) onSubdir(ip *interp.Interp, name string) error {
	prevCwd := ip.Cwd
	ip.Cwd = path.Join(prevCwd, name)
	defer func() { ip.Cwd = prevCwd }()
	return ws.evaluateFile(ip, ip.SourceRoot, path.Join(ip.Cwd, "meson.build"), false)
}

// onSubproject implements subproject(): load (or reuse) a fresh project
// rooted at <sourceRoot>/<subprojectDir>/<name>, with its own interpreter,
// scope, and target list, and return a handle wrapping the outcome.
func (ws *Workspace) onSubproject(ip *interp.Interp, name string) (arena.Handle, error) {
	if existing, ok := ws.Subprojects[name]; ok {
		return ws.A.NewSubproject(arena.SubprojectData{ProjectIndex: ws.projectIndex(name), Found: existing.Found}), nil
	}

	subDir := "subprojects"
	if cfg := builtin.Config(ip); cfg != nil && cfg.SubprojectDir != "" {
		subDir = cfg.SubprojectDir
	}
	subRoot := path.Join(ws.SourceRoot, subDir, name)
	if _, err := os.Stat(path.Join(subRoot, "meson.build")); err != nil {
		ws.registerSubproject(name, &Project{Name: name, Found: false})
		return ws.A.NewSubproject(arena.SubprojectData{ProjectIndex: -1, Found: false}), nil
	}

	proj := ws.newProject(name, subRoot, path.Join(ws.BuildRoot, "subprojects", name))
	ws.registerSubproject(name, proj)
	if err := ws.evaluateFile(proj.Interp, subRoot, "meson.build", true); err != nil {
		return arena.NullHandle, err
	}
	return ws.A.NewSubproject(arena.SubprojectData{ProjectIndex: ws.projectIndex(name), Found: true}), nil
}

func (ws *Workspace) registerSubproject(name string, p *Project) {
	ws.Subprojects[name] = p
	ws.subprojectOrder = append(ws.subprojectOrder, name)
}

func (ws *Workspace) projectIndex(name string) int {
	for i, n := range ws.subprojectOrder {
		if n == name {
			return i
		}
	}
	return -1
}

// Projects returns the root project plus every evaluated subproject, for
// the Ninja emitter to walk.
func (ws *Workspace) Projects() []*Project {
	out := []*Project{ws.Root}
	for _, name := range ws.subprojectOrder {
		if p := ws.Subprojects[name]; p.Found {
			out = append(out, p)
		}
	}
	return out
}

// Messages collects message()/warning() output across every evaluated
// project, root first.
func (ws *Workspace) Messages() []string {
	var out []string
	for _, p := range ws.Projects() {
		out = append(out, p.Interp.Messages...)
	}
	return out
}

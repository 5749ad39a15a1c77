package ninjawriter

import (
	"context"
	"strings"
	"testing"

	"github.com/standardbeagle/mbs/internal/arena"
	"github.com/standardbeagle/mbs/internal/argmatch"
	"github.com/standardbeagle/mbs/internal/builtin"
	"github.com/standardbeagle/mbs/internal/interp"
	"github.com/standardbeagle/mbs/internal/merrors"
	"github.com/standardbeagle/mbs/internal/runcmd"
	"github.com/standardbeagle/mbs/internal/workspace"
)

// fakeCCRunner answers any "<cc> --version" probe as if gcc were installed,
// so project() resolves a compiler without touching the real toolchain.
type fakeCCRunner struct{}

func (fakeCCRunner) Run(ctx context.Context, argv []string, opts runcmd.Options) (runcmd.Result, error) {
	return runcmd.Result{Status: 0, Stdout: "cc (Ubuntu) 13.2.0 Free Software Foundation, Inc."}, nil
}

func call(ip *interp.Interp, name string, pos []argmatch.Value, kw map[string]argmatch.Value) arena.Handle {
	h, err := ip.Globals[name](ip, pos, kw, merrors.Location{})
	if err != nil {
		panic(err)
	}
	return h
}

func TestWriteBuildTargetEdgesEmitsArgsAndLinkArgs(t *testing.T) {
	a := arena.New()
	ip := interp.New(a, interp.NewScope(), "/src", "/build")
	builtin.Register(ip)
	builtin.SetRunner(ip, fakeCCRunner{})

	call(ip, "project", []argmatch.Value{{H: a.NewString("t")}, {H: a.NewString("c")}}, nil)

	inc := call(ip, "include_directories", []argmatch.Value{{H: a.NewString("inc")}}, nil)
	depInc := call(ip, "include_directories", []argmatch.Value{{H: a.NewString("dep-inc")}}, nil)

	dep := call(ip, "declare_dependency", nil, map[string]argmatch.Value{
		"include_directories": {H: depInc},
		"link_args":           {H: a.NewArray(a.NewString("-ldepA"))},
	})

	call(ip, "add_project_arguments", []argmatch.Value{{H: a.NewString("-DFOO")}}, map[string]argmatch.Value{
		"language": {H: a.NewString("c")},
	})
	call(ip, "add_project_link_arguments", []argmatch.Value{{H: a.NewString("-lbar")}}, map[string]argmatch.Value{
		"language": {H: a.NewString("c")},
	})

	call(ip, "executable", []argmatch.Value{{H: a.NewString("prog")}, {H: a.NewString("main.c")}}, map[string]argmatch.Value{
		"include_directories": {H: inc},
		"dependencies":        {H: dep},
	})

	ws := &workspace.Workspace{A: a, Root: &workspace.Project{Interp: ip, Found: true}}

	var buf strings.Builder
	if err := Write(&buf, ws, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	compileBlock := extractBlock(out, "build /build/prog.p/main.c.o:")
	if !strings.Contains(compileBlock, "-DFOO") {
		t.Errorf("compile edge ARGS missing project argument:\n%s", compileBlock)
	}
	if !strings.Contains(compileBlock, "-I/src/inc") {
		t.Errorf("compile edge ARGS missing own include dir:\n%s", compileBlock)
	}
	if !strings.Contains(compileBlock, "-I/src/dep-inc") {
		t.Errorf("compile edge ARGS missing dependency include dir:\n%s", compileBlock)
	}

	linkBlock := extractBlock(out, "build /build/prog:")
	if !strings.Contains(linkBlock, "LINK_ARGS = -lbar -ldepA") {
		t.Errorf("link edge LINK_ARGS missing project/dependency link args:\n%s", linkBlock)
	}
}

// extractBlock returns every line starting at the first line with the given
// prefix up to (not including) the next blank line.
func extractBlock(out, prefix string) string {
	lines := strings.Split(out, "\n")
	for i, l := range lines {
		if strings.HasPrefix(l, prefix) {
			var block []string
			for _, l2 := range lines[i:] {
				if l2 == "" {
					break
				}
				block = append(block, l2)
			}
			return strings.Join(block, "\n")
		}
	}
	return ""
}

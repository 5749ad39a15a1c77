package builtin

import (
	"path"
	"strings"

	"github.com/standardbeagle/mbs/internal/arena"
	"github.com/standardbeagle/mbs/internal/argmatch"
	"github.com/standardbeagle/mbs/internal/interp"
	"github.com/standardbeagle/mbs/internal/merrors"
)

var sourceKinds = []arena.Kind{
	arena.KindString, arena.KindFile, arena.KindCustomTarget,
	arena.KindGeneratedList, arena.KindBuildTarget, arena.KindArray,
}

func biCustomTarget(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	sig := argmatch.Signature{
		Name:       "custom_target",
		Positional: []argmatch.PosSpec{{Name: "name", Types: []arena.Kind{arena.KindString}, Optional: true}},
		Keywords: []argmatch.KeySpec{
			{Name: "input", Types: sourceKinds},
			{Name: "output", Types: []arena.Kind{arena.KindString, arena.KindArray}},
			{Name: "command", Types: []arena.Kind{arena.KindString, arena.KindArray}},
			{Name: "capture", Types: []arena.Kind{arena.KindBool}},
		},
	}
	m, err := argmatch.Match(ip.A, sig, loc, pos, kw)
	if err != nil {
		return arena.NullHandle, err
	}
	name := ""
	if m.PosSet[0] {
		name, _ = ip.A.String2(m.Get(0))
	}
	var inputs []arena.Handle
	if h, ok := m.Keyword("input"); ok {
		inputs, _ = coerceOneSource(ip, h, loc)
	}
	var outputs []string
	if h, ok := m.Keyword("output"); ok {
		outputs = stringListExported(ip, ip.A.Flatten(h))
	}
	var command []string
	if h, ok := m.Keyword("command"); ok {
		command = stringListExported(ip, ip.A.Flatten(h))
	}
	capture := false
	if h, ok := m.Keyword("capture"); ok {
		capture = ip.A.Bool(h)
	}
	buildDir := path.Join(ip.BuildRoot, ip.Cwd)
	h := ip.A.NewCustomTarget(arena.CustomTargetData{
		Name:     name,
		Inputs:   inputs,
		Outputs:  outputs,
		Command:  command,
		Capture:  capture,
		BuildDir: buildDir,
	})
	stateFor(ip).Targets = append(stateFor(ip).Targets, h)
	return h, nil
}

func biGenerator(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	sig := argmatch.Signature{
		Name:       "generator",
		Positional: []argmatch.PosSpec{{Name: "exe", Types: []arena.Kind{arena.KindString}}},
		Keywords: []argmatch.KeySpec{
			{Name: "arguments", Types: []arena.Kind{arena.KindString, arena.KindArray}},
			{Name: "output", Types: []arena.Kind{arena.KindString, arena.KindArray}},
			{Name: "capture", Types: []arena.Kind{arena.KindBool}},
		},
	}
	m, err := argmatch.Match(ip.A, sig, loc, pos, kw)
	if err != nil {
		return arena.NullHandle, err
	}
	var command []string
	if s, ok := ip.A.String2(m.Get(0)); ok {
		command = append(command, s)
	}
	if h, ok := m.Keyword("arguments"); ok {
		command = append(command, stringListExported(ip, ip.A.Flatten(h))...)
	}
	var outTmpl []string
	if h, ok := m.Keyword("output"); ok {
		outTmpl = stringListExported(ip, ip.A.Flatten(h))
	}
	capture := false
	if h, ok := m.Keyword("capture"); ok {
		capture = ip.A.Bool(h)
	}
	return ip.A.NewGenerator(arena.GeneratorData{Command: command, OutputTemplate: outTmpl, Capture: capture}), nil
}

func registerGeneratorMethods(ip *interp.Interp) {
	ip.RegisterMethod(arena.KindGenerator, "process", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		sig := argmatch.Signature{
			Name: "generator.process",
			Glob: &argmatch.GlobSpec{Types: sourceKinds},
			Keywords: []argmatch.KeySpec{
				{Name: "extra_args", Types: []arena.Kind{arena.KindString, arena.KindArray}},
			},
		}
		m, err := argmatch.Match(ip.A, sig, loc, pos, kw)
		if err != nil {
			return arena.NullHandle, err
		}
		inputs, err := coerceSourceHandles(ip, ip.A.ArrayItems(m.Glob), loc)
		if err != nil {
			return arena.NullHandle, err
		}
		var extra []string
		if h, ok := m.Keyword("extra_args"); ok {
			extra = stringListExported(ip, ip.A.Flatten(h))
		}
		return ip.A.NewGeneratedList(arena.GeneratedListData{Generator: recv, Inputs: inputs, ExtraArguments: extra}), nil
	})
}

// ProcessForTarget runs a generator against a target: for every input of the
// generated_list, synthesize a custom_target whose outputs are computed by
// substituting @BASENAME@/@PLAINNAME@/@OUTDIR@ against that input, and flag
// the owning target when any output looks like a header.
func ProcessForTarget(ip *interp.Interp, genList, target arena.Handle) ([]arena.Handle, error) {
	gl, ok := ip.A.GeneratedList(genList)
	if !ok {
		return nil, merrors.Type(merrors.Location{}, "expected generated_list")
	}
	gen, ok := ip.A.Generator(gl.Generator)
	if !ok {
		return nil, merrors.Internal(merrors.Location{}, "generated_list references a non-generator handle")
	}
	tgt, ok := ip.A.BuildTarget(target)
	if !ok {
		return nil, merrors.Type(merrors.Location{}, "process_for_target requires a build_target")
	}
	outDir := tgt.BuildDir

	var outputs []arena.Handle
	for _, input := range gl.Inputs {
		inPath, _ := ip.A.String2(input)
		base := path.Base(inPath)
		ext := path.Ext(base)
		basename := strings.TrimSuffix(base, ext)

		var outs []string
		for _, tmpl := range gen.OutputTemplate {
			name := strings.NewReplacer(
				"@BASENAME@", basename,
				"@PLAINNAME@", base,
				"@OUTDIR@", outDir,
			).Replace(tmpl)
			outs = append(outs, name)
			if isHeaderExt(path.Ext(name)) {
				tgt.HasGeneratedInclude = true
			}
		}

		ct := ip.A.NewCustomTarget(arena.CustomTargetData{
			Name:     basename,
			Inputs:   []arena.Handle{input},
			Outputs:  outs,
			Command:  append(append([]string{}, gen.Command...), gl.ExtraArguments...),
			Capture:  gen.Capture,
			BuildDir: outDir,
		})
		stateFor(ip).Targets = append(stateFor(ip).Targets, ct)
		for _, o := range outs {
			outputs = append(outputs, ip.A.NewFile(path.Join(outDir, o)))
		}
	}
	return outputs, nil
}

func isHeaderExt(ext string) bool {
	switch ext {
	case ".h", ".hpp", ".hh", ".hxx":
		return true
	default:
		return false
	}
}

func stringListExported(ip *interp.Interp, h arena.Handle) []string {
	return stringList(ip, h)
}

package arena

// This file holds the allocator/accessor pairs for every composite kind
// beyond array/dict, which live in collections.go.

func (a *Arena) NewCompiler(d CompilerData) Handle {
	idx := int32(len(a.compilers))
	a.compilers = append(a.compilers, d)
	return a.alloc(Object{Kind: KindCompiler, Ref: idx})
}

func (a *Arena) Compiler(h Handle) (*CompilerData, bool) {
	if a.Kind(h) != KindCompiler {
		return nil, false
	}
	obj, _ := a.Get(h)
	return &a.compilers[obj.Ref], true
}

func (a *Arena) NewDependency(d DependencyData) Handle {
	idx := int32(len(a.dependencies))
	a.dependencies = append(a.dependencies, d)
	return a.alloc(Object{Kind: KindDependency, Ref: idx})
}

func (a *Arena) Dependency(h Handle) (*DependencyData, bool) {
	if a.Kind(h) != KindDependency {
		return nil, false
	}
	obj, _ := a.Get(h)
	return &a.dependencies[obj.Ref], true
}

func (a *Arena) NewExternalProgram(d ExternalProgramData) Handle {
	idx := int32(len(a.externals))
	a.externals = append(a.externals, d)
	return a.alloc(Object{Kind: KindExternalProgram, Ref: idx})
}

func (a *Arena) ExternalProgram(h Handle) (*ExternalProgramData, bool) {
	if a.Kind(h) != KindExternalProgram {
		return nil, false
	}
	obj, _ := a.Get(h)
	return &a.externals[obj.Ref], true
}

func (a *Arena) NewBuildTarget(d BuildTargetData) Handle {
	if d.PerLanguageArgs == nil {
		d.PerLanguageArgs = map[string][]string{}
	}
	idx := int32(len(a.targets))
	a.targets = append(a.targets, d)
	return a.alloc(Object{Kind: KindBuildTarget, Ref: idx})
}

func (a *Arena) BuildTarget(h Handle) (*BuildTargetData, bool) {
	if a.Kind(h) != KindBuildTarget {
		return nil, false
	}
	obj, _ := a.Get(h)
	return &a.targets[obj.Ref], true
}

func (a *Arena) NewCustomTarget(d CustomTargetData) Handle {
	idx := int32(len(a.customs))
	a.customs = append(a.customs, d)
	return a.alloc(Object{Kind: KindCustomTarget, Ref: idx})
}

func (a *Arena) CustomTarget(h Handle) (*CustomTargetData, bool) {
	if a.Kind(h) != KindCustomTarget {
		return nil, false
	}
	obj, _ := a.Get(h)
	return &a.customs[obj.Ref], true
}

func (a *Arena) NewBothLibs(static, shared Handle) Handle {
	idx := int32(len(a.bothLibs))
	a.bothLibs = append(a.bothLibs, BothLibsData{Static: static, Shared: shared})
	return a.alloc(Object{Kind: KindBothLibs, Ref: idx})
}

func (a *Arena) BothLibs(h Handle) (*BothLibsData, bool) {
	if a.Kind(h) != KindBothLibs {
		return nil, false
	}
	obj, _ := a.Get(h)
	return &a.bothLibs[obj.Ref], true
}

func (a *Arena) NewGenerator(d GeneratorData) Handle {
	idx := int32(len(a.generators))
	a.generators = append(a.generators, d)
	return a.alloc(Object{Kind: KindGenerator, Ref: idx})
}

func (a *Arena) Generator(h Handle) (*GeneratorData, bool) {
	if a.Kind(h) != KindGenerator {
		return nil, false
	}
	obj, _ := a.Get(h)
	return &a.generators[obj.Ref], true
}

func (a *Arena) NewGeneratedList(d GeneratedListData) Handle {
	idx := int32(len(a.genLists))
	a.genLists = append(a.genLists, d)
	return a.alloc(Object{Kind: KindGeneratedList, Ref: idx})
}

func (a *Arena) GeneratedList(h Handle) (*GeneratedListData, bool) {
	if a.Kind(h) != KindGeneratedList {
		return nil, false
	}
	obj, _ := a.Get(h)
	return &a.genLists[obj.Ref], true
}

func (a *Arena) NewEnvironment() Handle {
	idx := int32(len(a.environments))
	a.environments = append(a.environments, EnvironmentData{})
	return a.alloc(Object{Kind: KindEnvironment, Ref: idx})
}

func (a *Arena) Environment(h Handle) (*EnvironmentData, bool) {
	if a.Kind(h) != KindEnvironment {
		return nil, false
	}
	obj, _ := a.Get(h)
	return &a.environments[obj.Ref], true
}

// EnvApply performs set/append/prepend of key=value per policy.
func (a *Arena) EnvApply(h Handle, key, value string, policy EnvMergePolicy) error {
	ed, ok := a.Environment(h)
	if !ok {
		return errOutOfRange(0, 0)
	}
	for i, k := range ed.Keys {
		if k == key {
			switch policy {
			case EnvMergeAppend:
				ed.Values[i] = ed.Values[i] + value
			case EnvMergePrepend:
				ed.Values[i] = value + ed.Values[i]
			default:
				ed.Values[i] = value
			}
			return nil
		}
	}
	ed.Keys = append(ed.Keys, key)
	ed.Values = append(ed.Values, value)
	return nil
}

func (a *Arena) NewRunResult(d RunResultData) Handle {
	idx := int32(len(a.runResults))
	a.runResults = append(a.runResults, d)
	return a.alloc(Object{Kind: KindRunResult, Ref: idx})
}

func (a *Arena) RunResult(h Handle) (*RunResultData, bool) {
	if a.Kind(h) != KindRunResult {
		return nil, false
	}
	obj, _ := a.Get(h)
	return &a.runResults[obj.Ref], true
}

func (a *Arena) NewFeatureOption(state FeatureState) Handle {
	idx := int32(len(a.features))
	a.features = append(a.features, FeatureOptionData{State: state})
	return a.alloc(Object{Kind: KindFeatureOption, Ref: idx})
}

func (a *Arena) FeatureOption(h Handle) (*FeatureOptionData, bool) {
	if a.Kind(h) != KindFeatureOption {
		return nil, false
	}
	obj, _ := a.Get(h)
	return &a.features[obj.Ref], true
}

// NewMeson allocates the singleton meson reflection object. Calling it a
// second time is a programmer error; the workspace calls it exactly once
// during initialization.
func (a *Arena) NewMeson() Handle {
	h := a.alloc(Object{Kind: KindMeson, Ref: -1})
	a.mesonHandle = h
	return h
}

func (a *Arena) NewSubproject(d SubprojectData) Handle {
	idx := int32(len(a.subprojects))
	a.subprojects = append(a.subprojects, d)
	return a.alloc(Object{Kind: KindSubproject, Ref: idx})
}

func (a *Arena) Subproject(h Handle) (*SubprojectData, bool) {
	if a.Kind(h) != KindSubproject {
		return nil, false
	}
	obj, _ := a.Get(h)
	return &a.subprojects[obj.Ref], true
}

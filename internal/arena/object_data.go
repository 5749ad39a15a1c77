package arena

// CompilerKind identifies the detected compiler family.
type CompilerKind uint8

const (
	CompilerUnknown CompilerKind = iota
	CompilerGCC
	CompilerClang
	CompilerMSVC
)

func (k CompilerKind) String() string {
	switch k {
	case CompilerGCC:
		return "gcc"
	case CompilerClang:
		return "clang"
	case CompilerMSVC:
		return "msvc"
	default:
		return "unknown"
	}
}

// DepsFlavour names the dependency-tracking style a compiler emits,
// consumed directly by the Ninja `deps =` rule attribute.
type DepsFlavour uint8

const (
	DepsNone DepsFlavour = iota
	DepsGCC
	DepsMSVC
)

type CompilerData struct {
	Language string
	Argv     []string
	Detected CompilerKind
	Deps     DepsFlavour
}

type DependencyData struct {
	Name          string
	Version       string
	Found         bool
	FromPkgConfig bool
	IncludeDirs   []Handle
	LinkArgs      []string
	Variables     Handle // KindDict handle, NullHandle if none
}

type ExternalProgramData struct {
	Found    bool
	FullPath string
}

// TargetKind distinguishes the artifact a build_target produces.
type TargetKind uint8

const (
	TargetExecutable TargetKind = iota
	TargetStaticLibrary
	TargetSharedLibrary
	TargetBoth
)

func (k TargetKind) String() string {
	switch k {
	case TargetExecutable:
		return "executable"
	case TargetStaticLibrary:
		return "static_library"
	case TargetSharedLibrary:
		return "shared_library"
	case TargetBoth:
		return "both_libraries"
	default:
		return "unknown"
	}
}

type BuildTargetData struct {
	Name                string
	Kind                TargetKind
	BuildDir            string
	BuildName           string
	Sources             []Handle
	IncludeDirs         []Handle
	LinkWith            []Handle
	Dependencies        []Handle
	HasGeneratedInclude bool
	PerLanguageArgs     map[string][]string
}

type CustomTargetData struct {
	Name     string
	Inputs   []Handle
	Outputs  []string
	Command  []string
	Depfile  string
	Capture  bool
	Depends  []Handle
	BuildDir string
}

type BothLibsData struct {
	Static Handle
	Shared Handle
}

type GeneratorData struct {
	Command          []string
	OutputTemplate   []string
	DepfileTemplate  string
	Capture          bool
	Depends          []Handle
}

type GeneratedListData struct {
	Generator        Handle
	Inputs           []Handle
	ExtraArguments   []string
	PreservePathFrom string
}

// EnvMergePolicy controls how Environment.Set/Append/Prepend combine with
// an existing value for the same key.
type EnvMergePolicy uint8

const (
	EnvMergeSet EnvMergePolicy = iota
	EnvMergeAppend
	EnvMergePrepend
)

type EnvironmentData struct {
	Keys   []string
	Values []string
}

type RunResultData struct {
	Status int
	Stdout string
	Stderr string
}

// FeatureState is the tri-state value of a feature_option.
type FeatureState uint8

const (
	FeatureAuto FeatureState = iota
	FeatureEnabled
	FeatureDisabled
)

func (s FeatureState) String() string {
	switch s {
	case FeatureEnabled:
		return "enabled"
	case FeatureDisabled:
		return "disabled"
	default:
		return "auto"
	}
}

type FeatureOptionData struct {
	State FeatureState
}

type SubprojectData struct {
	ProjectIndex int
	Found        bool
}

type ArrayData struct {
	Items []Handle
}

type DictData struct {
	Keys  []string
	Vals  []Handle
	Index map[string]int
}

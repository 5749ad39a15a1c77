package arena

// Kind discriminates the single variant an Object carries. Every DSL value
// is exactly one of these; there is no kind that is also another kind.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindFile
	KindArray
	KindDict
	KindCompiler
	KindDependency
	KindExternalProgram
	KindBuildTarget
	KindCustomTarget
	KindBothLibs
	KindGenerator
	KindGeneratedList
	KindEnvironment
	KindRunResult
	KindFeatureOption
	KindMeson
	KindSubproject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "int"
	case KindString:
		return "str"
	case KindFile:
		return "file"
	case KindArray:
		return "array"
	case KindDict:
		return "dict"
	case KindCompiler:
		return "compiler"
	case KindDependency:
		return "dependency"
	case KindExternalProgram:
		return "external_program"
	case KindBuildTarget:
		return "build_target"
	case KindCustomTarget:
		return "custom_target"
	case KindBothLibs:
		return "both_libs"
	case KindGenerator:
		return "generator"
	case KindGeneratedList:
		return "generated_list"
	case KindEnvironment:
		return "environment"
	case KindRunResult:
		return "run_result"
	case KindFeatureOption:
		return "feature_option"
	case KindMeson:
		return "meson"
	case KindSubproject:
		return "subproject"
	default:
		return "unknown"
	}
}

// Handle is an index into the arena's object table. Handle 0 is always the
// singleton null. Handles are never invalidated by arena growth.
type Handle uint32

const NullHandle Handle = 0

// Object is the fixed-size record every handle addresses. Scalars (bool,
// number, the string/file byte-pool span) live inline; composite kinds
// (array, dict, compiler, ...) store an index into a kind-specific side
// table in Ref. There are no raw pointers between objects anywhere in the
// arena: every reference is a Handle, so the DSL's inability to construct
// cycles is preserved by construction.
type Object struct {
	Kind Kind
	Bool bool
	Num  int64
	Str  StringSpan // valid when Kind == KindString || Kind == KindFile
	Ref  int32      // index into the side table for Kind, -1 if none
}

package artisan

// Kind is the semantic type of a property or handler parameter.
type Kind int

const (
	// KindUnsupported marks values the engine does not convert. Properties
	// of this kind register no option; parameters fall through to service
	// resolution.
	KindUnsupported Kind = iota
	KindBool
	KindString
	KindInt
	KindFloat
	KindStrings
	KindInts
	KindFloats

	// KindContext parameters receive the invocation's shared cancellable
	// context.
	KindContext

	// KindService parameters are resolved through the instance's
	// ServiceResolver, keyed by Parameter.Service.
	KindService
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStrings:
		return "strings"
	case KindInts:
		return "ints"
	case KindFloats:
		return "floats"
	case KindContext:
		return "context"
	case KindService:
		return "service"
	default:
		return "unsupported"
	}
}

// single reports whether k carries exactly one value.
func (k Kind) single() bool {
	switch k {
	case KindString, KindInt, KindFloat:
		return true
	}
	return false
}

// multi reports whether k is a list kind.
func (k Kind) multi() bool {
	switch k {
	case KindStrings, KindInts, KindFloats:
		return true
	}
	return false
}

// OptionKind describes how many values an option carries.
type OptionKind int

const (
	// Flag options carry no value; presence means true.
	Flag OptionKind = iota + 1
	// Single options carry exactly one value.
	Single
	// Multi options may be repeated, collecting every value.
	Multi
)

func (k OptionKind) String() string {
	switch k {
	case Flag:
		return "flag"
	case Single:
		return "single"
	case Multi:
		return "multi"
	}
	return "unknown"
}

// optionKind maps a semantic kind onto the option kind that can carry it.
// The second return value is false for kinds that cannot be options.
func (k Kind) optionKind() (OptionKind, bool) {
	switch {
	case k == KindBool:
		return Flag, true
	case k.single():
		return Single, true
	case k.multi():
		return Multi, true
	}
	return 0, false
}

package artisan

import "reflect"

// HandlePrefix is the prefix every handler name starts with. The rest of
// the name, kebab-cased, names the handler's subcommand; an empty rest
// makes the handler the command's own action.
const HandlePrefix = "Handle"

// Command describes a type whose shape becomes a command tree.
type Command[T any] struct {
	// Description is shown in help output for the bound command.
	Description string

	// New returns a fresh instance for each invocation.
	New func() T

	// Properties become options visible to the bound command and every
	// subcommand derived from it.
	Properties []Property[T]

	// Handlers are the command's actions, keyed by name.
	Handlers []Handler[T]
}

// Property is a settable field of a command instance.
type Property[T any] struct {
	Name        string
	Kind        Kind
	Description string
	Ignore      bool
	Required    bool

	// Set assigns a converted value to inst. The dynamic type of v matches
	// Kind: bool, string, int, float64, []string, []int or []float64.
	Set func(inst T, v interface{})
}

// Describe returns a copy of p with the given description.
func (p Property[T]) Describe(text string) Property[T] {
	p.Description = text
	return p
}

// MarkIgnored returns a copy of p that is excluded from option
// registration and hydration.
func (p Property[T]) MarkIgnored() Property[T] {
	p.Ignore = true
	return p
}

// MarkRequired returns a copy of p whose option must be supplied.
func (p Property[T]) MarkRequired() Property[T] {
	p.Required = true
	return p
}

func property[T any, V any](name string, kind Kind, set func(T, V)) Property[T] {
	return Property[T]{
		Name: name,
		Kind: kind,
		Set:  func(inst T, v interface{}) { set(inst, v.(V)) },
	}
}

// BoolProperty declares a property of type bool, assigned with set.
func BoolProperty[T any](name string, set func(T, bool)) Property[T] {
	return property(name, KindBool, set)
}

// StringProperty declares a property of type string, assigned with set.
func StringProperty[T any](name string, set func(T, string)) Property[T] {
	return property(name, KindString, set)
}

// IntProperty declares a property of type int, assigned with set.
func IntProperty[T any](name string, set func(T, int)) Property[T] {
	return property(name, KindInt, set)
}

// FloatProperty declares a property of type float64, assigned with set.
func FloatProperty[T any](name string, set func(T, float64)) Property[T] {
	return property(name, KindFloat, set)
}

// StringsProperty declares a property of type []string, assigned with set.
func StringsProperty[T any](name string, set func(T, []string)) Property[T] {
	return property(name, KindStrings, set)
}

// IntsProperty declares a property of type []int, assigned with set.
func IntsProperty[T any](name string, set func(T, []int)) Property[T] {
	return property(name, KindInts, set)
}

// FloatsProperty declares a property of type []float64, assigned with set.
func FloatsProperty[T any](name string, set func(T, []float64)) Property[T] {
	return property(name, KindFloats, set)
}

// OtherProperty declares a property the engine cannot convert. It
// registers no option and is never set.
func OtherProperty[T any](name string) Property[T] {
	return Property[T]{Name: name, Kind: KindUnsupported}
}

// Parameter describes one parameter of a handler.
type Parameter struct {
	Name        string
	Kind        Kind
	Description string
	Required    bool

	// Option forces the parameter to be registered as an option named
	// after Kebab(Name) instead of a positional argument.
	Option bool

	// Default is used when an argument or option receives no value. A nil
	// Default means there is none.
	Default interface{}

	// Service is the lookup key for KindService parameters.
	Service reflect.Type
}

// Param declares a handler parameter of the given kind.
func Param(name string, kind Kind) Parameter {
	return Parameter{Name: name, Kind: kind}
}

// ContextParam declares a parameter receiving the invocation's
// cancellable context.
func ContextParam(name string) Parameter {
	return Parameter{Name: name, Kind: KindContext}
}

// ServiceParam declares a parameter resolved from the instance's services
// by the type S.
func ServiceParam[S any](name string) Parameter {
	return Parameter{Name: name, Kind: KindService, Service: TypeOf[S]()}
}

// Describe returns a copy of p with the given description.
func (p Parameter) Describe(text string) Parameter {
	p.Description = text
	return p
}

// MarkRequired returns a copy of p that must receive a value.
func (p Parameter) MarkRequired() Parameter {
	p.Required = true
	return p
}

// AsOption returns a copy of p bound to an option instead of an argument.
func (p Parameter) AsOption() Parameter {
	p.Option = true
	return p
}

// WithDefault returns a copy of p using v when no value is given.
func (p Parameter) WithDefault(v interface{}) Parameter {
	p.Default = v
	return p
}

// HandlerFunc is the body of a handler. It receives a freshly built
// instance and the resolved parameters.
type HandlerFunc[T any] func(inst T, p *Params) (Result, error)

// Handler binds a handler name to its parameters and body.
type Handler[T any] struct {
	Name        string
	Description string
	Params      []Parameter
	Func        HandlerFunc[T]
}

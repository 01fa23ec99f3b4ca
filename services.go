package artisan

import "reflect"

// Initializer is implemented by command instances that need setup after
// their properties are set and before handler parameters are resolved.
type Initializer interface {
	Initialize() error
}

// ServiceResolver is implemented by command instances that can supply
// handler parameters not bound to the command line.
type ServiceResolver interface {
	ResolveService(t reflect.Type) (interface{}, bool)
}

// TypeOf returns the reflect.Type used as the service key for T. It works
// for interface types as well as concrete ones.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Services is a per-instance service registry. Embed it in a command type
// and fill it from Initialize to satisfy ServiceResolver.
type Services struct {
	providers map[reflect.Type]func() interface{}
}

// Provide registers a constructor for services of type S. Each resolution
// calls fn again.
func Provide[S any](s *Services, fn func() S) {
	if s.providers == nil {
		s.providers = make(map[reflect.Type]func() interface{})
	}
	s.providers[TypeOf[S]()] = func() interface{} { return fn() }
}

// ProvideValue registers v as the service of type S.
func ProvideValue[S any](s *Services, v S) {
	Provide(s, func() S { return v })
}

// ResolveService implements ServiceResolver.
func (s *Services) ResolveService(t reflect.Type) (interface{}, bool) {
	fn, ok := s.providers[t]
	if !ok {
		return nil, false
	}
	v := fn()
	if v == nil {
		return nil, false
	}
	return v, true
}

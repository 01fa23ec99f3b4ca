package artisan

import (
	"strconv"

	"github.com/pkg/errors"
)

// ArgumentDef describes a positional argument.
type ArgumentDef struct {
	Name string

	// Variadic arguments collect every remaining positional value. Only
	// the last argument of a command may be variadic.
	Variadic bool

	// Type is the semantic type of the argument's values.
	Type Kind

	Description string
}

// AddArgument appends a to c's positional arguments.
func (c *Cmd) AddArgument(a *ArgumentDef) error {
	for _, prev := range c.Arguments {
		if prev.Variadic {
			return errors.Wrapf(ErrVariadicNotLast, "%s: %q follows %q", c.Path(), a.Name, prev.Name)
		}
		if prev.Name == a.Name {
			return errors.Errorf("%s: duplicate argument %q", c.Path(), a.Name)
		}
	}
	c.Arguments = append(c.Arguments, a)
	return nil
}

// bindArguments registers every parameter that is not an option and can
// be carried positionally, in declaration order.
func bindArguments(c *Cmd, params []Parameter) error {
	for _, p := range params {
		if p.Option || !(p.Kind.single() || p.Kind.multi()) {
			continue
		}
		err := c.AddArgument(&ArgumentDef{
			Name:        p.Name,
			Variadic:    p.Kind.multi(),
			Type:        p.Kind,
			Description: p.Description,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Cmd) lookupArgument(name string) *ArgumentDef {
	for _, a := range c.Arguments {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// assignArguments distributes positional values over c's arguments.
// Arguments without values are left out of the result.
func (c *Cmd) assignArguments(values []string) (map[string][]string, error) {
	args := make(map[string][]string, len(c.Arguments))
	for _, a := range c.Arguments {
		if len(values) == 0 {
			break
		}
		if a.Variadic {
			args[a.Name] = values
			values = nil
			break
		}
		args[a.Name] = values[:1]
		values = values[1:]
	}
	if len(values) > 0 {
		return nil, usagef("%s: unexpected argument %q", c.Path(), values[0])
	}
	return args, nil
}

// parseScalar converts a single command-line value to kind.
func parseScalar(kind Kind, s string) (interface{}, error) {
	switch kind {
	case KindString, KindStrings:
		return s, nil
	case KindInt, KindInts:
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, usageError{errors.Wrapf(err, "invalid integer %q", s)}
		}
		return n, nil
	case KindFloat, KindFloats:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, usageError{errors.Wrapf(err, "invalid number %q", s)}
		}
		return f, nil
	}
	return nil, errors.Errorf("cannot convert %q to %s", s, kind)
}

// parseList converts command-line values to the list kind.
func parseList(kind Kind, ss []string) (interface{}, error) {
	switch kind {
	case KindStrings:
		out := make([]string, len(ss))
		copy(out, ss)
		return out, nil
	case KindInts:
		out := make([]int, 0, len(ss))
		for _, s := range ss {
			v, err := parseScalar(kind, s)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(int))
		}
		return out, nil
	case KindFloats:
		out := make([]float64, 0, len(ss))
		for _, s := range ss {
			v, err := parseScalar(kind, s)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(float64))
		}
		return out, nil
	}
	return nil, errors.Errorf("cannot convert %q to %s", ss, kind)
}

package artisan

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

const (
	helpFlag      = "help"
	helpShorthand = "h"
)

// OptionDef describes an option accepted by a command and all of its
// subcommands.
type OptionDef struct {
	// Name is used as --Name on the command line.
	Name string

	Kind OptionKind

	// Type is the semantic type of the option's values.
	Type Kind

	// Required options must be given on the command line. Ignored for
	// Flag options.
	Required bool

	Description string
}

// AddOption registers o on c. It is an error for another option with the
// same name to be visible from c, its parents or its subcommands.
func (c *Cmd) AddOption(o *OptionDef) error {
	if o.Name == helpFlag || o.Name == helpShorthand {
		return errors.Wrapf(ErrDuplicateOption, "%s: --%s is reserved", c.Path(), o.Name)
	}
	if c.lookupOption(o.Name) != nil || c.descendantOption(o.Name) {
		return errors.Wrapf(ErrDuplicateOption, "%s: --%s", c.Path(), o.Name)
	}
	if o.Kind == Flag {
		o.Required = false
	}
	c.Options = append(c.Options, o)
	return nil
}

// registerOption maps kind onto an option kind and registers it on c.
// Kinds that cannot be carried by an option are skipped without error.
func registerOption(c *Cmd, kind Kind, name, description string, required bool) error {
	ok, supported := kind.optionKind()
	if !supported {
		c.logger().WithFields(logrus.Fields{
			"command": c.Path(),
			"option":  name,
			"kind":    kind.String(),
		}).Debug("skipping option of unsupported kind")
		return nil
	}
	return c.AddOption(&OptionDef{
		Name:        name,
		Kind:        ok,
		Type:        kind,
		Required:    required,
		Description: description,
	})
}

// lookupOption finds the option visible from c with the given name.
func (c *Cmd) lookupOption(name string) *OptionDef {
	for n := c; n != nil; n = n.parent {
		for _, o := range n.Options {
			if o.Name == name {
				return o
			}
		}
	}
	return nil
}

func (c *Cmd) descendantOption(name string) bool {
	for _, sub := range c.Commands {
		for _, o := range sub.Options {
			if o.Name == name {
				return true
			}
		}
		if sub.descendantOption(name) {
			return true
		}
	}
	return false
}

// visibleOptions returns c's options followed by those of its parents.
func (c *Cmd) visibleOptions() []*OptionDef {
	var opts []*OptionDef
	for n := c; n != nil; n = n.parent {
		opts = append(opts, n.Options...)
	}
	return opts
}

// flagSet builds a fresh flag set holding every option visible from c.
// A new set is built for every parse so no value outlives an invocation.
func (c *Cmd) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(c.Name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolP(helpFlag, helpShorthand, false, "Show help information")
	for _, o := range c.visibleOptions() {
		o.define(fs)
	}
	return fs
}

func (o *OptionDef) define(fs *pflag.FlagSet) {
	usage := o.Description
	if o.Required {
		usage += " (required)"
	}
	switch o.Type {
	case KindBool:
		fs.Bool(o.Name, false, usage)
	case KindString:
		fs.String(o.Name, "", usage)
	case KindInt:
		fs.Int(o.Name, 0, usage)
	case KindFloat:
		fs.Float64(o.Name, 0, usage)
	case KindStrings:
		fs.StringArray(o.Name, nil, usage)
	case KindInts:
		fs.IntSlice(o.Name, nil, usage)
	case KindFloats:
		fs.Float64Slice(o.Name, nil, usage)
	}
}

// checkRequired fails for the first required option that was not given.
func (c *Cmd) checkRequired(fs *pflag.FlagSet) error {
	for _, o := range c.visibleOptions() {
		if o.Required && o.Kind != Flag && !fs.Changed(o.Name) {
			return errors.Wrapf(ErrRequired, "%s: option --%s", c.Path(), o.Name)
		}
	}
	return nil
}

// optionValue reads the parsed value of the named option as kind. Flag
// options always have a value; other options have none unless they were
// given on the command line.
func optionValue(fs *pflag.FlagSet, name string, kind Kind) (interface{}, bool, error) {
	if kind != KindBool && !fs.Changed(name) {
		return nil, false, nil
	}
	var (
		v   interface{}
		err error
	)
	switch kind {
	case KindBool:
		v, err = fs.GetBool(name)
	case KindString:
		v, err = fs.GetString(name)
	case KindInt:
		v, err = fs.GetInt(name)
	case KindFloat:
		v, err = fs.GetFloat64(name)
	case KindStrings:
		v, err = fs.GetStringArray(name)
	case KindInts:
		v, err = fs.GetIntSlice(name)
	case KindFloats:
		v, err = fs.GetFloat64Slice(name)
	default:
		return nil, false, errors.Errorf("option --%s: unsupported kind %s", name, kind)
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "option --%s", name)
	}
	return v, true, nil
}

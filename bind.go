package artisan

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Bind turns cmd into commands under root.
//
// If name is empty, cmd is bound to root itself; otherwise a subcommand
// called name is added to root (replacing any subcommand of that name).
// Every property that is not ignored becomes an option on that command,
// inherited by all of its subcommands. Each handler named "Handle" becomes
// the command's own action; each handler named "Handle<Suffix>" becomes a
// subcommand named Kebab(Suffix).
//
// Handler parameters become positional arguments, or options when marked
// AsOption. Parameters of other kinds are resolved when the handler runs.
func Bind[T any](root *Cmd, name string, cmd Command[T]) (err error) {
	if cmd.New == nil {
		return errors.Wrapf(ErrNoFactory, "binding %q", name)
	}
	path := root.Path()
	if name != "" {
		path += " " + name
	}
	if err := checkHandlers(path, cmd.Handlers); err != nil {
		return err
	}

	saved := snapshot(root)
	defer func() {
		if err != nil {
			saved.restore(root)
		}
	}()

	node := root
	if name != "" {
		node = &Cmd{Name: name}
		root.AddCmd(node)
	}
	if cmd.Description != "" {
		node.Description = cmd.Description
	}

	for _, p := range cmd.Properties {
		if p.Ignore {
			continue
		}
		if err := registerOption(node, p.Kind, Kebab(p.Name), p.Description, p.Required); err != nil {
			return err
		}
	}

	for _, h := range cmd.Handlers {
		target := node
		if sub := handlerCommand(h.Name); sub != "" {
			target = &Cmd{Name: sub, Description: h.Description}
			node.AddCmd(target)
		}
		if err := bindHandler(target, cmd, h); err != nil {
			return err
		}
		node.logger().WithFields(logrus.Fields{
			"command": target.Path(),
			"handler": h.Name,
		}).Debug("bound handler")
	}
	return nil
}

// handlerCommand returns the subcommand name a handler binds to; "" for
// the command's own action.
func handlerCommand(name string) string {
	return Kebab(strings.TrimPrefix(name, HandlePrefix))
}

// checkHandlers validates handler names and functions before anything is
// added to the tree.
func checkHandlers[T any](path string, handlers []Handler[T]) error {
	seen := make(map[string]string, len(handlers))
	for _, h := range handlers {
		if !strings.HasPrefix(h.Name, HandlePrefix) {
			return errors.Wrapf(ErrInvalidHandler, "%s: %q does not start with %q", path, h.Name, HandlePrefix)
		}
		if h.Func == nil {
			return errors.Wrapf(ErrInvalidHandler, "%s: %q has no function", path, h.Name)
		}
		sub := handlerCommand(h.Name)
		if prev, ok := seen[sub]; ok {
			return errors.Wrapf(ErrDuplicateHandler, "%s: %q and %q both bind %q", path, prev, h.Name, sub)
		}
		seen[sub] = h.Name
	}
	return nil
}

// rootState is what Bind may change on the command it is given.
type rootState struct {
	description string
	options     []*OptionDef
	arguments   []*ArgumentDef
	commands    map[string]*Cmd
	run         RunFunc
}

func snapshot(c *Cmd) rootState {
	s := rootState{
		description: c.Description,
		options:     c.Options,
		arguments:   c.Arguments,
		run:         c.Run,
	}
	if c.Commands != nil {
		s.commands = make(map[string]*Cmd, len(c.Commands))
		for name, sub := range c.Commands {
			s.commands[name] = sub
		}
	}
	return s
}

// restore puts c back the way it was when s was taken.
func (s rootState) restore(c *Cmd) {
	c.Description = s.description
	c.Options = s.options
	c.Arguments = s.arguments
	c.Commands = s.commands
	c.Run = s.run
}

// bindHandler registers h's parameters on c and makes h c's action.
func bindHandler[T any](c *Cmd, cmd Command[T], h Handler[T]) error {
	if err := bindArguments(c, h.Params); err != nil {
		return err
	}
	for _, p := range h.Params {
		if !p.Option {
			continue
		}
		if err := registerOption(c, p.Kind, Kebab(p.Name), p.Description, p.Required); err != nil {
			return err
		}
	}
	c.Run = newInvoker(c, cmd, h)
	return nil
}

package artisan

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Params holds the resolved parameters of one handler call, keyed by
// parameter name. Parameters that resolved to no value are absent; the
// typed accessors return the zero value for them.
type Params struct {
	values map[string]interface{}
}

// Value returns the named parameter and whether it has a value.
func (p *Params) Value(name string) (interface{}, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Bool returns the named bool parameter, or false.
func (p *Params) Bool(name string) bool {
	v, _ := p.values[name].(bool)
	return v
}

// String returns the named string parameter, or "".
func (p *Params) String(name string) string {
	v, _ := p.values[name].(string)
	return v
}

// Int returns the named int parameter, or 0.
func (p *Params) Int(name string) int {
	v, _ := p.values[name].(int)
	return v
}

// Float returns the named float parameter, or 0.
func (p *Params) Float(name string) float64 {
	v, _ := p.values[name].(float64)
	return v
}

// Strings returns the named string list parameter, or nil.
func (p *Params) Strings(name string) []string {
	v, _ := p.values[name].([]string)
	return v
}

// Ints returns the named int list parameter, or nil.
func (p *Params) Ints(name string) []int {
	v, _ := p.values[name].([]int)
	return v
}

// Floats returns the named float list parameter, or nil.
func (p *Params) Floats(name string) []float64 {
	v, _ := p.values[name].([]float64)
	return v
}

// Context returns the invocation's cancellable context. It is the same
// context for every context parameter of the handler.
func (p *Params) Context(name string) context.Context {
	if ctx, ok := p.values[name].(context.Context); ok {
		return ctx
	}
	return context.Background()
}

// Service returns the named service parameter.
func (p *Params) Service(name string) interface{} {
	return p.values[name]
}

// cancelSource is the single cancellation source of one invocation.
type cancelSource struct {
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
	log    logrus.FieldLogger
}

// Cancel cancels the source's context. Only the first call has an effect.
func (s *cancelSource) Cancel(reason string) {
	s.once.Do(func() {
		s.log.WithField("signal", reason).Info("cancellation requested")
		s.cancel()
	})
}

// invocation is the state of one run of a bound handler.
type invocation struct {
	cmd    *Cmd
	in     *Input
	source *cancelSource
}

// token returns the invocation's context, creating the source on first
// use.
func (inv *invocation) token() context.Context {
	if inv.source == nil {
		ctx, cancel := context.WithCancel(context.Background())
		inv.source = &cancelSource{
			ctx:    ctx,
			cancel: cancel,
			log:    inv.cmd.logger().WithField("command", inv.cmd.Path()),
		}
	}
	return inv.source.ctx
}

func (inv *invocation) cancel(reason string) {
	if inv.source != nil {
		inv.source.Cancel(reason)
	}
}

func (inv *invocation) release() {
	if inv.source != nil {
		inv.source.cancel()
	}
}

// newInvoker returns the RunFunc executing h on a fresh instance of cmd.
func newInvoker[T any](c *Cmd, cmd Command[T], h Handler[T]) RunFunc {
	return func(in *Input) (int, error) {
		if in.HelpRequested() {
			return 0, nil
		}

		inst := cmd.New()
		if err := hydrate(c, inst, cmd.Properties, in); err != nil {
			return 1, err
		}
		if i, ok := interface{}(inst).(Initializer); ok {
			if err := i.Initialize(); err != nil {
				return 1, errors.Wrapf(err, "%s: initialize", c.Path())
			}
		}

		inv := &invocation{cmd: c, in: in}
		defer inv.release()

		params, err := inv.resolve(inst, h.Params)
		if errors.Is(err, ErrUsage) {
			return 2, err
		} else if err != nil {
			return 1, err
		}

		res, err := h.Func(inst, params)
		if err != nil {
			return 1, err
		}
		return inv.complete(res)
	}
}

// hydrate sets every property whose option was given on the command line.
func hydrate[T any](c *Cmd, inst T, props []Property[T], in *Input) error {
	for _, p := range props {
		if p.Ignore || p.Set == nil {
			continue
		}
		o := c.lookupOption(Kebab(p.Name))
		if o == nil || o.Type != p.Kind || !in.Flags.Changed(o.Name) {
			continue
		}
		v, _, err := optionValue(in.Flags, o.Name, o.Type)
		if err != nil {
			return err
		}
		p.Set(inst, v)
	}
	return nil
}

// resolve resolves every parameter in order and then checks that the
// required ones have values.
func (inv *invocation) resolve(inst interface{}, params []Parameter) (*Params, error) {
	out := &Params{values: make(map[string]interface{}, len(params))}
	for _, p := range params {
		v, ok, err := inv.value(inst, p)
		if err != nil {
			return nil, err
		}
		if ok {
			out.values[p.Name] = v
		}
	}

	for _, p := range params {
		if _, ok := out.values[p.Name]; p.Required && !ok {
			return nil, errors.Wrapf(ErrRequired, "%s: parameter %s", inv.cmd.Path(), p.Name)
		}
	}
	return out, nil
}

// value resolves p from, in order: a positional argument, an option, the
// invocation's context, or the instance's services.
func (inv *invocation) value(inst interface{}, p Parameter) (interface{}, bool, error) {
	c := inv.cmd

	if a := c.lookupArgument(p.Name); a != nil && !p.Option {
		vals, given := inv.in.Arg(a.Name)
		switch {
		case !given && p.Default != nil && !a.Variadic:
			return p.Default, true, nil
		case !given:
			return nil, false, nil
		case a.Variadic:
			v, err := parseList(p.Kind, vals)
			return v, err == nil, errors.Wrapf(err, "%s: argument %s", c.Path(), a.Name)
		default:
			v, err := parseScalar(p.Kind, vals[0])
			return v, err == nil, errors.Wrapf(err, "%s: argument %s", c.Path(), a.Name)
		}
	}

	if o := c.lookupOption(Kebab(p.Name)); o != nil && o.Type == p.Kind {
		if !inv.in.Flags.Changed(o.Name) && p.Default != nil {
			return p.Default, true, nil
		}
		return optionValue(inv.in.Flags, o.Name, o.Type)
	}

	if p.Kind == KindContext {
		return inv.token(), true, nil
	}

	r, ok := inst.(ServiceResolver)
	if !ok || p.Service == nil {
		return nil, false, errors.Wrapf(ErrUnresolvedParameter, "%s: parameter %s (%s)", c.Path(), p.Name, p.Kind)
	}
	v, ok := r.ResolveService(p.Service)
	if !ok {
		return nil, false, errors.Wrapf(ErrUnresolvedParameter, "%s: parameter %s (%s)", c.Path(), p.Name, p.Service)
	}
	return v, true, nil
}

// complete turns a handler result into an exit code, waiting for
// asynchronous results.
func (inv *invocation) complete(res Result) (int, error) {
	switch r := res.(type) {
	case Code:
		return int(r), nil
	case *Task:
		if r == nil {
			break
		}
		return inv.await(r)
	}
	return 1, errors.Wrapf(ErrInvalidHandler, "%s: handler returned no result", inv.cmd.Path())
}

// await blocks until t finishes. An interrupt or exit signal cancels the
// invocation's context and gives t the grace period to finish; if it does
// not, await gives up with ErrGracePeriodExpired.
func (inv *invocation) await(t *Task) (int, error) {
	if err := t.Failed(); err != nil {
		return t.Wait()
	}

	unwatch := inv.in.Signals.watch()
	defer unwatch()

	var (
		grace       = inv.cmd.gracePeriod()
		log         = inv.cmd.logger().WithField("command", inv.cmd.Path())
		abandon     = make(chan struct{})
		abandonOnce sync.Once
	)
	watch := func(trigger <-chan struct{}, name string) {
		select {
		case <-t.Done():
			return
		case <-trigger:
		}
		inv.cancel(name)
		if !t.WaitTimeout(grace) {
			log.WithFields(logrus.Fields{
				"signal":       name,
				"grace_period": grace,
			}).Warn("handler did not finish within grace period")
			abandonOnce.Do(func() { close(abandon) })
		}
	}
	go watch(inv.in.Signals.Interrupt, "interrupt")
	go watch(inv.in.Signals.Exit, "exit")

	select {
	case <-t.Done():
		return t.Wait()
	case <-abandon:
		return 1, errors.Wrapf(ErrGracePeriodExpired, "%s: after %s", inv.cmd.Path(), grace)
	}
}

package artisan

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// DefaultGracePeriod is how long a cancelled handler is given to finish
// after an interrupt or exit signal.
const DefaultGracePeriod = 10 * time.Second

// RunFunc defines the arity and return signatures of a function that a Cmd
// will run. The returned int is the exit code.
type RunFunc func(in *Input) (int, error)

// Cmd defines the structure of a command that can be run.
type Cmd struct {
	// The name of the command.
	Name string

	// A brief, single line description of the command.
	Description string

	// Options registered on this command. They are also accepted by
	// every subcommand.
	Options []*OptionDef

	// Positional arguments, in order.
	Arguments []*ArgumentDef

	// Will be nil unless subcommands are registered with the AddCmd()
	// method.
	Commands map[string]*Cmd

	// The function to run.
	Run RunFunc

	// Where usage messages are written. Only consulted on the root
	// command; defaults to os.Stderr.
	Output io.Writer

	// Logger used by the command tree. Only consulted on the root command;
	// defaults to logrus.StandardLogger().
	Log logrus.FieldLogger

	// How long a cancelled handler may take to finish. Only consulted on
	// the root command; defaults to DefaultGracePeriod.
	GracePeriod time.Duration

	parent *Cmd
	isHelp bool
}

// Input is the parsed command line handed to a RunFunc.
type Input struct {
	// The command selected by the command line.
	Cmd *Cmd

	// Parsed options, including those inherited from parent commands.
	Flags *pflag.FlagSet

	// Cancellation triggers from the host.
	Signals Signals

	args map[string][]string
	help bool
}

// Arg returns the values given for the named positional argument, and
// whether any were given.
func (in *Input) Arg(name string) ([]string, bool) {
	v, ok := in.args[name]
	return v, ok && len(v) > 0
}

// Changed reports whether the named option was set on the command line.
func (in *Input) Changed(name string) bool {
	return in.Flags.Changed(name)
}

// HelpRequested reports whether -h or --help was given.
func (in *Input) HelpRequested() bool {
	return in.help
}

func (c *Cmd) root() *Cmd {
	r := c
	for r.parent != nil {
		r = r.parent
	}
	return r
}

func (c *Cmd) output() io.Writer {
	if w := c.root().Output; w != nil {
		return w
	}
	return os.Stderr
}

func (c *Cmd) logger() logrus.FieldLogger {
	if l := c.root().Log; l != nil {
		return l
	}
	return logrus.StandardLogger()
}

func (c *Cmd) gracePeriod() time.Duration {
	if d := c.root().GracePeriod; d > 0 {
		return d
	}
	return DefaultGracePeriod
}

// Path returns the space separated names from the root to c.
func (c *Cmd) Path() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.Path() + " " + c.Name
}

func (c *Cmd) usage() {
	w := c.output()
	fmt.Fprintf(w, "%s - %s\n", c.Path(), c.Description)
	printArguments(w, c)
	printSubcommands(w, c)
	fmt.Fprintln(w, "\nFlags")
	fmt.Fprint(w, c.flagSet().FlagUsages())
}

// newHelpCmd is called by New() to add a "help" subcommand to parent.
func newHelpCmd(parent *Cmd) *Cmd {
	descr := fmt.Sprintf("Print the help message for %s or a subcommand", parent.Name)
	return &Cmd{
		Name:        "help",
		Description: descr,
		isHelp:      true,
		Arguments: []*ArgumentDef{
			{Name: "command", Variadic: true, Type: KindStrings, Description: "Subcommand path"},
		},
		Run: func(in *Input) (int, error) {
			// The command to print the help message for.
			pp := parent

			// Walk down the path given to us, e.g.
			//
			//	$ cmd help foo bar
			//
			names, _ := in.Arg("command")
			for _, name := range names {
				sub, ok := pp.Commands[name]
				if !ok {
					return 1, usagef("no such command: %q", name)
				}
				pp = sub
			}

			pp.usage()
			return 0, nil
		},
	}
}

// printSubcommands is a helper function, used when printing usage; it
// prints all of the registered subcommands of c, if any.
func printSubcommands(w io.Writer, c *Cmd) {
	if len(c.Commands) == 0 {
		return
	}

	fmt.Fprintln(w, "\nCommands")

	// Gather a list of all subcommand names, and sort them (for
	// consistent output).
	var subNames []string
	for name := range c.Commands {
		subNames = append(subNames, name)
	}
	sort.Strings(subNames)

	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	defer tw.Flush()
	for _, name := range subNames {
		fmt.Fprintf(tw, "\t\t%s\t%s\n", name, c.Commands[name].Description)
	}
}

func printArguments(w io.Writer, c *Cmd) {
	if len(c.Arguments) == 0 {
		return
	}

	fmt.Fprintln(w, "\nArguments")
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	defer tw.Flush()
	for _, a := range c.Arguments {
		name := a.Name
		if a.Variadic {
			name += "..."
		}
		fmt.Fprintf(tw, "\t\t%s\t%s\n", name, a.Description)
	}
}

// New is a convenience function for creating and returning a new *Cmd.
//
// New will automatically add a "help" subcommand that, when called with no
// arguments, will print the help message for its parent command. If any
// arguments are provided to the "help" subcommand, they are treated as a
// path of subcommand names, and the help message of the last one is
// printed.
//
// Note, that the following two command-line calls are effectively the same:
//
//	$ my-command help <subcommand>
//	$ my-command <subcommand> --help
//
func New(name string, run RunFunc) *Cmd {
	c := &Cmd{
		Name: name,
		Run:  run,
	}
	c.AddCmd(newHelpCmd(c))
	return c
}

// AddCmd registers a subcommand.
//
// AddCmd will panic if the given cmd's Name field is an empty string.
// If there is a subcommand already registered with the same name, it will be
// replaced.
func (c *Cmd) AddCmd(cmd *Cmd) {
	if c.Commands == nil {
		c.Commands = make(map[string]*Cmd)
	}
	if cmd.Name == "" {
		panic("cannot add nameless subcommand")
	}
	cmd.parent = c
	c.Commands[cmd.Name] = cmd
}

// Exec parses the arguments provided on the command line, runs the
// selected command and exits the process with its exit code. This is the
// method that should be called from the outer-most command (e.g. the
// "root" command).
//
// While a handler's Task is awaited, interrupts and SIGTERM are relayed to
// it as Signals. At any other time they terminate the process as usual.
func (c *Cmd) Exec() {
	sig, stop := NotifySignals()
	code, err := c.ExecArgs(sig, os.Args[1:])
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if code == 0 {
			code = 1
		}
	}
	os.Exit(code)
}

// ExecArgs selects the command named by args, parses the remaining
// options and positional arguments, and calls its Run function.
//
// If -h or --help is given, the usage message of the selected command is
// printed and 0 is returned without running it. If the selected command
// has no Run function, its usage message is printed and 1 is returned.
// Errors in the command line itself match ErrUsage and come with exit
// code 2.
func (c *Cmd) ExecArgs(sig Signals, args []string) (int, error) {
	cmd, rest := c.find(args)

	fs := cmd.flagSet()
	if err := fs.Parse(rest); err != nil {
		return 2, usageError{errors.Wrapf(err, "%s", cmd.Path())}
	}

	in := &Input{
		Cmd:     cmd,
		Flags:   fs,
		Signals: sig,
	}
	in.help, _ = fs.GetBool(helpFlag)
	if in.help {
		cmd.usage()
		return 0, nil
	}

	if !cmd.isHelp {
		if err := cmd.checkRequired(fs); err != nil {
			return 1, err
		}
	}
	var err error
	if in.args, err = cmd.assignArguments(fs.Args()); err != nil {
		return 2, err
	}

	// No subcommand was provided, and our main RunFunc is nil. Print a
	// usage message.
	if cmd.Run == nil {
		cmd.usage()
		return 1, nil
	}

	return cmd.Run(in)
}

// find walks args down the command tree. Subcommand names are consumed
// until the first positional argument that is not one; the options seen
// on the way are kept for parsing by the selected command.
func (c *Cmd) find(args []string) (*Cmd, []string) {
	cur := c
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			return cur, append(rest, args[i:]...)
		}
		if strings.HasPrefix(a, "-") && len(a) > 1 {
			rest = append(rest, a)
			if cur.takesValue(a) && i+1 < len(args) {
				i++
				rest = append(rest, args[i])
			}
			continue
		}
		sub, ok := cur.Commands[a]
		if !ok {
			return cur, append(rest, args[i:]...)
		}
		cur = sub
	}
	return cur, rest
}

// takesValue reports whether the option token tok consumes the token that
// follows it.
func (c *Cmd) takesValue(tok string) bool {
	if strings.Contains(tok, "=") || !strings.HasPrefix(tok, "--") {
		return false
	}
	o := c.lookupOption(strings.TrimPrefix(tok, "--"))
	return o != nil && o.Kind != Flag
}

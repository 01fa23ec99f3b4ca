// Package artisan builds command-line interfaces from the shape of a
// command type.
//
// A Command describes a type by its properties and handlers. Bind derives
// the command tree from it by convention:
//
//   - every property that is not ignored becomes an option named after the
//     kebab-cased property name (QueueName becomes --queue-name), accepted
//     by the bound command and all of its subcommands;
//   - a handler named "Handle" is the command's own action;
//   - a handler named "Handle<Suffix>" becomes a subcommand named after the
//     kebab-cased suffix (HandleDeleteJob becomes delete-job);
//   - handler parameters become positional arguments (list kinds are
//     variadic), or options when marked AsOption.
//
// When a command runs, a fresh instance is built with Command.New, the
// options given on the command line are assigned to its properties, and
// each handler parameter is resolved from an argument, an option, the
// invocation's cancellable context, or the instance's services, in that
// order. A handler returns either a Code, or a Task started with Async
// whose produced value becomes the exit code. Interrupt and exit Signals
// cancel the context shared by the handler's context parameters.
//
//	root := artisan.New("hello", nil)
//	err := artisan.Bind(root, "queue", artisan.Command[*Queue]{
//		New: func() *Queue { return &Queue{} },
//		Properties: []artisan.Property[*Queue]{
//			artisan.StringProperty("QueueName", func(q *Queue, v string) { q.Name = v }).MarkRequired(),
//		},
//		Handlers: []artisan.Handler[*Queue]{
//			{
//				Name: "HandleList",
//				Func: func(q *Queue, _ *artisan.Params) (artisan.Result, error) {
//					return artisan.Code(0), nil
//				},
//			},
//		},
//	})
//
// The option and argument primitives come from github.com/spf13/pflag.
package artisan

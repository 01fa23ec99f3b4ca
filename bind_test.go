package artisan

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop[T any](T, *Params) (Result, error) { return Code(0), nil }

func TestBind_HandlerTree(t *testing.T) {
	root, _, _ := newTestRoot(t)
	require.NoError(t, Bind(root, "", jobCommand(&recorder{})))

	assert.NotNil(t, root.Run, "Handle should be the root's own action")
	assert.Equal(t, "Manage jobs", root.Description)
	require.Len(t, root.Commands, 2)

	list := root.Commands["list"]
	require.NotNil(t, list)
	assert.Equal(t, "List all jobs", list.Description)
	assert.NotNil(t, list.Run)

	del := root.Commands["delete-job"]
	require.NotNil(t, del)
	assert.Equal(t, "Delete a job", del.Description)
	assert.NotNil(t, del.Run)
}

func TestBind_NamedSubcommand(t *testing.T) {
	root := New("app", nil)
	require.NoError(t, Bind(root, "queue", jobCommand(&recorder{})))

	queue := root.Commands["queue"]
	require.NotNil(t, queue)
	assert.Equal(t, "app queue", queue.Path())
	assert.Equal(t, "Manage jobs", queue.Description)
	assert.NotNil(t, queue.Run)
	assert.Contains(t, queue.Commands, "list")
	assert.Contains(t, queue.Commands, "delete-job")
	assert.Contains(t, root.Commands, "help")
	assert.Nil(t, root.Run)
	assert.Empty(t, root.Options, "properties belong to the bound subcommand")
}

func TestBind_PropertyOptions(t *testing.T) {
	root, _, _ := newTestRoot(t)
	require.NoError(t, Bind(root, "", jobCommand(&recorder{})))

	expected := map[string]struct {
		kind     OptionKind
		typ      Kind
		required bool
	}{
		"verbose":    {Flag, KindBool, false},
		"queue-name": {Single, KindString, true},
		"tags":       {Multi, KindStrings, false},
		"retries":    {Single, KindInt, false},
		"ratio":      {Single, KindFloat, false},
		"user-id":    {Single, KindInt, false},
	}

	got := make(map[string]*OptionDef)
	for _, o := range root.Options {
		got[o.Name] = o
	}
	assert.Len(t, got, len(expected))
	for name, want := range expected {
		o, ok := got[name]
		if !assert.True(t, ok, "missing option --%s", name) {
			continue
		}
		assert.Equal(t, want.kind, o.Kind, name)
		assert.Equal(t, want.typ, o.Type, name)
		assert.Equal(t, want.required, o.Required, name)
	}
	assert.Equal(t, "Queue to read from", got["queue-name"].Description)

	assert.NotContains(t, got, "secret", "ignored properties register no option")
	assert.NotContains(t, got, "extra", "unsupported kinds register no option")
}

func TestBind_OptionsAreInherited(t *testing.T) {
	root, _, _ := newTestRoot(t)
	require.NoError(t, Bind(root, "", jobCommand(&recorder{})))

	del := root.Commands["delete-job"]
	require.NotNil(t, del)
	for _, name := range []string{"verbose", "queue-name", "tags", "job-id"} {
		assert.NotNil(t, del.lookupOption(name), "--%s should be visible from delete-job", name)
	}
	assert.Nil(t, root.lookupOption("job-id"), "handler options stay on their subcommand")

	fs := del.flagSet()
	assert.NotNil(t, fs.Lookup("queue-name"))
	assert.NotNil(t, fs.Lookup("help"))
}

func TestBind_RequiredFlagIsIgnored(t *testing.T) {
	root, _, _ := newTestRoot(t)
	err := Bind(root, "", Command[*job]{
		New: func() *job { return &job{} },
		Properties: []Property[*job]{
			BoolProperty("Verbose", func(j *job, v bool) { j.Verbose = v }).MarkRequired(),
		},
	})
	require.NoError(t, err)
	require.Len(t, root.Options, 1)
	assert.False(t, root.Options[0].Required)
}

func TestBind_Arguments(t *testing.T) {
	root, _, _ := newTestRoot(t)
	err := Bind(root, "", Command[*job]{
		New: func() *job { return &job{} },
		Handlers: []Handler[*job]{
			{
				Name: "Handle",
				Params: []Parameter{
					Param("name", KindString).Describe("Job name"),
					Param("count", KindInt).AsOption(),
					ContextParam("ctx"),
					ServiceParam[error]("svc"),
					Param("force", KindBool),
					Param("ids", KindInts),
				},
				Func: noop[*job],
			},
		},
	})
	require.NoError(t, err)

	require.Len(t, root.Arguments, 2)
	assert.Equal(t, "name", root.Arguments[0].Name)
	assert.False(t, root.Arguments[0].Variadic)
	assert.Equal(t, "Job name", root.Arguments[0].Description)
	assert.Equal(t, "ids", root.Arguments[1].Name)
	assert.True(t, root.Arguments[1].Variadic)

	require.Len(t, root.Options, 1)
	assert.Equal(t, "count", root.Options[0].Name)
}

func TestBind_Errors(t *testing.T) {
	newJob := func() *job { return &job{} }

	tests := []struct {
		name     string
		cmd      Command[*job]
		expected error
	}{
		{
			name:     "no factory",
			cmd:      Command[*job]{},
			expected: ErrNoFactory,
		},
		{
			name: "same raw handler name",
			cmd: Command[*job]{New: newJob, Handlers: []Handler[*job]{
				{Name: "HandleList", Func: noop[*job]},
				{Name: "HandleList", Func: noop[*job]},
			}},
			expected: ErrDuplicateHandler,
		},
		{
			name: "different raw names with the same command name",
			cmd: Command[*job]{New: newJob, Handlers: []Handler[*job]{
				{Name: "HandleDeleteJob", Func: noop[*job]},
				{Name: "Handledelete-job", Func: noop[*job]},
			}},
			expected: ErrDuplicateHandler,
		},
		{
			name: "missing prefix",
			cmd: Command[*job]{New: newJob, Handlers: []Handler[*job]{
				{Name: "Run", Func: noop[*job]},
			}},
			expected: ErrInvalidHandler,
		},
		{
			name: "missing function",
			cmd: Command[*job]{New: newJob, Handlers: []Handler[*job]{
				{Name: "Handle"},
			}},
			expected: ErrInvalidHandler,
		},
		{
			name: "property and parameter share an option name",
			cmd: Command[*job]{
				New: newJob,
				Properties: []Property[*job]{
					IntProperty("UserId", func(*job, int) {}),
				},
				Handlers: []Handler[*job]{
					{Name: "HandleList", Params: []Parameter{Param("userId", KindInt).AsOption()}, Func: noop[*job]},
				},
			},
			expected: ErrDuplicateOption,
		},
		{
			name: "default action option clashes with a subcommand option",
			cmd: Command[*job]{New: newJob, Handlers: []Handler[*job]{
				{Name: "HandleList", Params: []Parameter{Param("limit", KindInt).AsOption()}, Func: noop[*job]},
				{Name: "Handle", Params: []Parameter{Param("limit", KindInt).AsOption()}, Func: noop[*job]},
			}},
			expected: ErrDuplicateOption,
		},
		{
			name: "reserved help option",
			cmd: Command[*job]{New: newJob, Properties: []Property[*job]{
				BoolProperty("Help", func(*job, bool) {}),
			}},
			expected: ErrDuplicateOption,
		},
		{
			name: "variadic argument before another argument",
			cmd: Command[*job]{New: newJob, Handlers: []Handler[*job]{
				{Name: "Handle", Params: []Parameter{
					Param("jobs", KindStrings),
					Param("name", KindString),
				}, Func: noop[*job]},
			}},
			expected: ErrVariadicNotLast,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, _, _ := newTestRoot(t)
			err := Bind(root, "", tt.cmd)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.expected), "got %v", err)
		})
	}
}

func TestBind_UnsupportedKindIsLogged(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	root := &Cmd{Name: "app", Log: logger}

	require.NoError(t, Bind(root, "", Command[*job]{
		New:        func() *job { return &job{} },
		Properties: []Property[*job]{OtherProperty[*job]("Extra")},
	}))
	assert.Empty(t, root.Options)

	var skipped []string
	for _, e := range hook.AllEntries() {
		if e.Message == "skipping option of unsupported kind" {
			skipped = append(skipped, e.Data["option"].(string))
		}
	}
	assert.Equal(t, []string{"extra"}, skipped)
}

func TestBind_FailureLeavesTreeUnchanged(t *testing.T) {
	newJob := func() *job { return &job{} }

	tests := []struct {
		name    string
		cmdName string
		cmd     Command[*job]
	}{
		{
			name:    "invalid handler on a named command",
			cmdName: "queue",
			cmd: Command[*job]{New: newJob,
				Properties: []Property[*job]{StringProperty("QueueName", func(*job, string) {})},
				Handlers:   []Handler[*job]{{Name: "Run", Func: noop[*job]}},
			},
		},
		{
			name:    "duplicate handler on the root",
			cmdName: "",
			cmd: Command[*job]{New: newJob,
				Properties: []Property[*job]{StringProperty("QueueName", func(*job, string) {})},
				Handlers: []Handler[*job]{
					{Name: "HandleList", Func: noop[*job]},
					{Name: "HandleList", Func: noop[*job]},
				},
			},
		},
		{
			name:    "option clash found while binding handlers",
			cmdName: "",
			cmd: Command[*job]{New: newJob,
				Description: "Changed",
				Properties:  []Property[*job]{IntProperty("UserId", func(*job, int) {})},
				Handlers: []Handler[*job]{
					{Name: "Handle", Params: []Parameter{Param("name", KindString)}, Func: noop[*job]},
					{Name: "HandleList", Params: []Parameter{Param("userId", KindInt).AsOption()}, Func: noop[*job]},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := New("app", nil)
			root.Description = "Original"
			existing := &Cmd{Name: "queue", Description: "Existing"}
			root.AddCmd(existing)

			require.Error(t, Bind(root, tt.cmdName, tt.cmd))

			assert.Equal(t, "Original", root.Description)
			assert.Empty(t, root.Options)
			assert.Empty(t, root.Arguments)
			assert.Nil(t, root.Run)
			require.Len(t, root.Commands, 2)
			assert.Contains(t, root.Commands, "help")
			assert.Same(t, existing, root.Commands["queue"])
		})
	}
}

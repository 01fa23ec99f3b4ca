package artisan

import (
	"bytes"
	"sync"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type job struct {
	Verbose   bool
	QueueName string
	Tags      []string
	Retries   int
	Ratio     float64
	Secret    string
}

// recorder tracks what the job command did during a test.
type recorder struct {
	mu     sync.Mutex
	built  []*job
	calls  []string
	params []*Params
}

func (r *recorder) newJob() *job {
	r.mu.Lock()
	defer r.mu.Unlock()
	j := &job{}
	r.built = append(r.built, j)
	return j
}

func (r *recorder) record(handler string, p *Params) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, handler)
	r.params = append(r.params, p)
}

func jobCommand(r *recorder) Command[*job] {
	return Command[*job]{
		Description: "Manage jobs",
		New:         r.newJob,
		Properties: []Property[*job]{
			BoolProperty("Verbose", func(j *job, v bool) { j.Verbose = v }),
			StringProperty("QueueName", func(j *job, v string) { j.QueueName = v }).
				Describe("Queue to read from").
				MarkRequired(),
			StringsProperty("Tags", func(j *job, v []string) { j.Tags = v }),
			IntProperty("Retries", func(j *job, v int) { j.Retries = v }),
			FloatProperty("Ratio", func(j *job, v float64) { j.Ratio = v }),
			StringProperty("Secret", func(j *job, v string) { j.Secret = v }).MarkIgnored(),
			OtherProperty[*job]("Extra"),
		},
		Handlers: []Handler[*job]{
			{
				Name: "Handle",
				Params: []Parameter{
					Param("jobs", KindStrings),
					Param("userId", KindInt).AsOption(),
					ContextParam("token"),
				},
				Func: func(_ *job, p *Params) (Result, error) {
					r.record("Handle", p)
					ctx := p.Context("token")
					return Async(func() (int, error) {
						select {
						case <-ctx.Done():
						case <-time.After(10 * time.Millisecond):
						}
						return 0, nil
					}), nil
				},
			},
			{
				Name:        "HandleList",
				Description: "List all jobs",
				Func: func(_ *job, p *Params) (Result, error) {
					r.record("HandleList", p)
					return Code(3), nil
				},
			},
			{
				Name:        "HandleDeleteJob",
				Description: "Delete a job",
				Params: []Parameter{
					Param("jobId", KindInt).AsOption().MarkRequired(),
				},
				Func: func(_ *job, p *Params) (Result, error) {
					r.record("HandleDeleteJob", p)
					return Code(0), nil
				},
			},
		},
	}
}

// newTestRoot returns a root command writing its usage to the returned
// buffer and logging to a discarding logger with a hook.
func newTestRoot(t *testing.T) (*Cmd, *bytes.Buffer, *logtest.Hook) {
	t.Helper()
	var out bytes.Buffer
	logger, hook := logtest.NewNullLogger()
	return &Cmd{Name: "app", Output: &out, Log: logger}, &out, hook
}

func newJobApp(t *testing.T, r *recorder) (*Cmd, *bytes.Buffer) {
	t.Helper()
	root, out, _ := newTestRoot(t)
	require.NoError(t, Bind(root, "", jobCommand(r)))
	return root, out
}

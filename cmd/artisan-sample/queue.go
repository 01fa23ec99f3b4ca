package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nesv/artisan"
)

// jobDelay is how long the default queue action pretends to work.
var jobDelay = 10 * time.Second

type queueProcessor struct {
	ShouldRunContinuously bool
	QueueName             string
	SomeRandomProperty    string

	out io.Writer
}

func queueProperties[T interface{ queue() *queueProcessor }]() []artisan.Property[T] {
	return []artisan.Property[T]{
		artisan.BoolProperty("ShouldRunContinuously", func(c T, v bool) { c.queue().ShouldRunContinuously = v }),
		artisan.StringProperty("QueueName", func(c T, v string) { c.queue().QueueName = v }).MarkRequired(),
		artisan.StringProperty("SomeRandomProperty", func(c T, v string) { c.queue().SomeRandomProperty = v }).MarkIgnored(),
	}
}

func (q *queueProcessor) queue() *queueProcessor { return q }

func queueCommand(out io.Writer) artisan.Command[*queueProcessor] {
	return artisan.Command[*queueProcessor]{
		Description: "Process jobs from a queue",
		New:         func() *queueProcessor { return &queueProcessor{out: out} },
		Properties:  queueProperties[*queueProcessor](),
		Handlers: []artisan.Handler[*queueProcessor]{
			{
				Name: "Handle",
				Params: []artisan.Parameter{
					artisan.Param("jobs", artisan.KindStrings),
					artisan.Param("userId", artisan.KindInt).AsOption(),
					artisan.ContextParam("token"),
				},
				Func: (*queueProcessor).handle,
			},
			{
				Name:        "HandleList",
				Description: "sub command to list all jobs",
				Func: func(q *queueProcessor, _ *artisan.Params) (artisan.Result, error) {
					fmt.Fprintln(q.out, "showing list..")
					return artisan.Code(0), nil
				},
			},
			{
				Name:        "HandleDeleteJob",
				Description: "sub command to delete a job",
				Params: []artisan.Parameter{
					artisan.Param("jobId", artisan.KindInt).AsOption().MarkRequired(),
				},
				Func: func(q *queueProcessor, p *artisan.Params) (artisan.Result, error) {
					fmt.Fprintf(q.out, "deleted job %d\n", p.Int("jobId"))
					return artisan.Code(0), nil
				},
			},
		},
	}
}

func (q *queueProcessor) handle(p *artisan.Params) (artisan.Result, error) {
	jobs, userID, ctx := p.Strings("jobs"), p.Int("userId"), p.Context("token")
	return artisan.Async(func() (int, error) {
		if jobs != nil {
			fmt.Fprintln(q.out, strings.Join(jobs, ", "))
		}
		fmt.Fprintf(q.out, "user id: %d\n", userID)
		if err := sleep(ctx, jobDelay); err != nil {
			fmt.Fprintln(q.out, "process cancelled abruptly")
		}
		fmt.Fprintln(q.out, "closing")
		return 0, nil
	}), nil
}

// sleep waits for d, or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

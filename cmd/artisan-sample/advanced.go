package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/nesv/artisan"
	"github.com/sirupsen/logrus"
)

// advancedQueueProcessor is queueProcessor with its logger supplied as a
// service instead of writing to out directly.
type advancedQueueProcessor struct {
	queueProcessor
	artisan.Services

	level logrus.Level
}

// Initialize implements artisan.Initializer.
func (a *advancedQueueProcessor) Initialize() error {
	artisan.Provide(&a.Services, func() logrus.FieldLogger {
		l := logrus.New()
		l.SetOutput(a.out)
		l.SetLevel(a.level)
		return l.WithField("queue", a.QueueName)
	})
	return nil
}

func advancedQueueCommand(out io.Writer, level logrus.Level) artisan.Command[*advancedQueueProcessor] {
	return artisan.Command[*advancedQueueProcessor]{
		Description: "Process jobs from a queue, logging through a resolved logger",
		New: func() *advancedQueueProcessor {
			return &advancedQueueProcessor{queueProcessor: queueProcessor{out: out}, level: level}
		},
		Properties: queueProperties[*advancedQueueProcessor](),
		Handlers: []artisan.Handler[*advancedQueueProcessor]{
			{
				Name: "Handle",
				Params: []artisan.Parameter{
					artisan.Param("jobs", artisan.KindStrings),
					artisan.Param("userId", artisan.KindInt).AsOption(),
					artisan.ContextParam("token"),
					artisan.ServiceParam[logrus.FieldLogger]("logger"),
				},
				Func: (*advancedQueueProcessor).handle,
			},
			{
				Name:        "HandleList",
				Description: "sub command to list all jobs",
				Func: func(a *advancedQueueProcessor, _ *artisan.Params) (artisan.Result, error) {
					fmt.Fprintln(a.out, "showing list..")
					return artisan.Code(0), nil
				},
			},
			{
				Name:        "HandleDeleteJob",
				Description: "sub command to delete a job",
				Params: []artisan.Parameter{
					artisan.Param("jobId", artisan.KindInt).AsOption().MarkRequired(),
				},
				Func: func(a *advancedQueueProcessor, p *artisan.Params) (artisan.Result, error) {
					fmt.Fprintf(a.out, "deleted job %d\n", p.Int("jobId"))
					return artisan.Code(0), nil
				},
			},
		},
	}
}

func (a *advancedQueueProcessor) handle(p *artisan.Params) (artisan.Result, error) {
	jobs, userID, ctx := p.Strings("jobs"), p.Int("userId"), p.Context("token")
	log := p.Service("logger").(logrus.FieldLogger)
	return artisan.Async(func() (int, error) {
		if jobs != nil {
			log.Info(strings.Join(jobs, ", "))
		}
		log.Infof("user id: %d", userID)
		if err := sleep(ctx, jobDelay); err != nil {
			log.Warn("process cancelled abruptly")
		}
		log.Info("closing")
		return 0, nil
	}), nil
}

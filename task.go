package artisan

import (
	"runtime/debug"
	"time"

	"github.com/pkg/errors"
)

// Result is what a handler produces: either a Code, available at once, or
// a *Task that completes later.
type Result interface {
	result()
}

// Code is an exit code returned synchronously by a handler.
type Code int

func (Code) result() {}

// Task is an asynchronous handler body. The exit code is the value its
// function produces.
type Task struct {
	done chan struct{}
	code int
	err  error
}

func (*Task) result() {}

// Async starts fn on a new goroutine and returns a Task tracking it. A
// panic in fn is recovered and reported as the task's error.
func Async(fn func() (int, error)) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.code = 1
				t.err = errors.Errorf("panic in handler: %v\n%s", r, debug.Stack())
			}
		}()
		t.code, t.err = fn()
	}()
	return t
}

// Done is closed once the task has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Failed returns the task's error if it has already finished with one. It
// never blocks.
func (t *Task) Failed() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the task finishes.
func (t *Task) Wait() (int, error) {
	<-t.done
	return t.code, t.err
}

// WaitTimeout waits up to d for the task to finish and reports whether it
// did.
func (t *Task) WaitTimeout(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-t.done:
		return true
	case <-timer.C:
		return false
	}
}

package artisan

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Signals are the host events that ask a running handler to stop. A
// channel is considered fired once it is closed (or receives a value);
// nil channels never fire.
type Signals struct {
	// Interrupt is an interactive interrupt, such as Ctrl-C.
	Interrupt <-chan struct{}

	// Exit announces that the process is about to exit.
	Exit <-chan struct{}

	// Watch, if set, is called when a handler starts waiting on a Task.
	// Host events are only delivered to the channels between that call
	// and a call of the function it returns. Outside of it the host
	// handles them as usual.
	Watch func() (unwatch func())
}

// watch calls s.Watch if it is set and returns the function undoing it.
func (s Signals) watch() func() {
	if s.Watch == nil {
		return func() {}
	}
	if unwatch := s.Watch(); unwatch != nil {
		return unwatch
	}
	return func() {}
}

// relay forwards os.Interrupt and SIGTERM to a Signals value while at
// least one watch is active.
type relay struct {
	interrupt chan struct{}
	exit      chan struct{}
	intC      chan os.Signal
	termC     chan os.Signal
	done      chan struct{}

	mu          sync.Mutex
	watchers    int
	interrupted bool
	exited      bool
	stopped     bool
}

// NotifySignals relays os.Interrupt to Signals.Interrupt and SIGTERM to
// Signals.Exit, but only while a handler is waiting on a Task. At any
// other time, and on a second interrupt, the default behaviour applies
// and the process is terminated. Call the returned function to stop
// relaying.
func NotifySignals() (Signals, func()) {
	r := &relay{
		interrupt: make(chan struct{}),
		exit:      make(chan struct{}),
		intC:      make(chan os.Signal, 1),
		termC:     make(chan os.Signal, 1),
		done:      make(chan struct{}),
	}
	go r.run()
	return Signals{Interrupt: r.interrupt, Exit: r.exit, Watch: r.watch}, r.stop
}

func (r *relay) run() {
	for {
		select {
		case <-r.intC:
			r.mu.Lock()
			if !r.interrupted {
				r.interrupted = true
				close(r.interrupt)
				// Let the next interrupt terminate the process.
				signal.Stop(r.intC)
			}
			r.mu.Unlock()
		case <-r.termC:
			r.mu.Lock()
			if !r.exited {
				r.exited = true
				close(r.exit)
			}
			r.mu.Unlock()
		case <-r.done:
			return
		}
	}
}

func (r *relay) watch() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return func() {}
	}
	r.watchers++
	if r.watchers == 1 {
		if !r.interrupted {
			signal.Notify(r.intC, os.Interrupt)
		}
		signal.Notify(r.termC, syscall.SIGTERM)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.watchers--
			if r.watchers == 0 {
				signal.Stop(r.intC)
				signal.Stop(r.termC)
			}
		})
	}
}

func (r *relay) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.stopped = true
	signal.Stop(r.intC)
	signal.Stop(r.termC)
	close(r.done)
}

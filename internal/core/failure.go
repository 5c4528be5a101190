package core

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// Failure is the outcome of CaptureFailure.
type Failure struct {
	mu         sync.Mutex
	failed     bool
	message    string
	err        error
	panicked   bool
	panicValue any
	logs       []string
}

// CaptureFailure runs body with a recording TestReporter and waits for it to finish.
// A Fatalf call records the failure and stops body the way testing.T does; a panic raised
// by body (typically by the subject itself) is recorded separately, so harness failures
// and application errors stay distinguishable.
func CaptureFailure(body func(t TestReporter)) *Failure {
	failure := &Failure{}
	reporter := &recordingReporter{failure: failure}

	var waitgroup sync.WaitGroup

	waitgroup.Add(1)

	go func() {
		defer waitgroup.Done()
		defer func() {
			if r := recover(); r != nil {
				failure.mu.Lock()
				failure.panicked = true
				failure.panicValue = r
				failure.mu.Unlock()
			}
		}()

		body(reporter)
	}()

	waitgroup.Wait()
	reporter.cleanup()

	return failure
}

// Failed reports whether Fatalf was called.
func (f *Failure) Failed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.failed
}

// Message is the formatted Fatalf message.
func (f *Failure) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.message
}

// Err is the first error passed to Fatalf, or nil.
func (f *Failure) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.err
}

// Is reports whether the recorded error matches target.
func (f *Failure) Is(target error) bool {
	return errors.Is(f.Err(), target)
}

// Panicked reports whether body panicked instead of failing.
func (f *Failure) Panicked() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.panicked
}

// PanicValue is the value body panicked with.
func (f *Failure) PanicValue() any {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.panicValue
}

// Logs returns the lines logged through the recording reporter.
func (f *Failure) Logs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.logs...)
}

type recordingReporter struct {
	failure *Failure

	mu       sync.Mutex
	cleanups []func()
}

// Cleanup lets HarnessFor drop the harness of a captured body once it finishes.
func (r *recordingReporter) Cleanup(fn func()) {
	r.mu.Lock()
	r.cleanups = append(r.cleanups, fn)
	r.mu.Unlock()
}

func (r *recordingReporter) cleanup() {
	r.mu.Lock()
	cleanups := r.cleanups
	r.cleanups = nil
	r.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

func (r *recordingReporter) Helper() {}

func (r *recordingReporter) Fatalf(format string, args ...any) {
	f := r.failure

	f.mu.Lock()
	if !f.failed {
		f.failed = true
		f.message = fmt.Sprintf(format, args...)

		for _, arg := range args {
			if err, ok := arg.(error); ok {
				f.err = err

				break
			}
		}
	}
	f.mu.Unlock()

	// kill off the current goroutine, as testing.T.FailNow does
	runtime.Goexit()
}

func (r *recordingReporter) Logf(format string, args ...any) {
	f := r.failure

	f.mu.Lock()
	f.logs = append(f.logs, fmt.Sprintf(format, args...))
	f.mu.Unlock()
}

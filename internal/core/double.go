package core

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
)

// Mode selects what a double does for calls no stub matches.
type Mode int

const (
	// ModeMock returns zero values.
	ModeMock Mode = iota
	// ModeSpy runs the real implementation.
	ModeSpy
)

func (m Mode) String() string {
	switch m {
	case ModeMock:
		return "mock"
	case ModeSpy:
		return "spy"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// OrderPolicy decides how a stub installed after a matching real execution is reported.
type OrderPolicy int

const (
	// OrderFail fails the test with a *ConfigurationOrderError.
	OrderFail OrderPolicy = iota
	// OrderWarn logs a warning and keeps going.
	OrderWarn
)

// Double stands in for a subject. Implementations of the subject's interface, usually
// written by doublegen, forward every method to Invoke:
//
//	func (d CalculatorDouble) Add(i int, j int) int {
//		results := d.Double.Invoke("Add", i, j)
//
//		return doubles.Result[int](results, 0)
//	}
type Double struct {
	t       TestReporter
	id      int
	name    string
	subject string
	key     string // subject with its full package path
	mode    Mode
	methods map[string]reflect.Type  // func types, without receiver
	impl    map[string]reflect.Value // bound real methods, absent for pure mocks

	recorder Recorder

	mu       sync.Mutex
	router   *Router
	log      logrus.FieldLogger
	order    OrderPolicy
	stubs    []*Stub
	realRuns []Invocation
}

// Invoke records a call to method, resolves its results and notifies the router.
// Arguments of a variadic method are forwarded with the variadic part as one slice.
func (d *Double) Invoke(method string, args ...any) []any {
	d.t.Helper()

	fn, ok := d.signature(method)
	if !ok {
		return nil
	}

	if len(args) != fn.NumIn() {
		d.t.Fatalf("%v.%s: %v", d, method,
			fmt.Errorf("%w: %v takes %d, invoked with %d", ErrMatcherArity, fn, fn.NumIn(), len(args)))

		return nil
	}

	inv := d.recorder.Record(method, args)
	results, outcome := d.resolve(fn, inv)

	router, log, _ := d.links()

	log.WithFields(logrus.Fields{
		"double":  d.String(),
		"method":  method,
		"args":    inv.Args,
		"seq":     inv.Seq,
		"outcome": outcome,
		"results": results,
	}).Debug("invoked")

	if router != nil {
		router.Notify(d.Key(method), inv.Args...)
	}

	return results
}

// When starts configuring a stub for calls to method whose arguments match args.
// Each arg is a Matcher or a plain value compared with reflect.DeepEqual.
func (d *Double) When(method string, args ...any) *Stub {
	d.t.Helper()

	matcher, ok := d.matcherFor(method, args)
	if !ok {
		return newStub(d, method, matcher)
	}

	d.checkOrder(method, matcher)

	return d.install(method, matcher)
}

// DoReturn configures results before naming the call, so a spy never runs the real method
// while being stubbed: d.DoReturn(3).When("Add", 1, 1).
func (d *Double) DoReturn(values ...any) *PendingReturn {
	return &PendingReturn{double: d, values: values}
}

// WhenReal runs the real method once with args as a validation step, then returns a stub
// for exactly those args. The validation run is not recorded. Args must be plain values of
// the parameter types (ErrArgumentValue otherwise). A panic from the real method fails the
// test with ErrConfigurationOrder: use DoReturn for methods that cannot run yet.
func (d *Double) WhenReal(method string, args ...any) *Stub {
	d.t.Helper()

	matcher, ok := d.matcherFor(method, args)
	if !ok {
		return newStub(d, method, matcher)
	}

	if err := concreteArgs(d.methods[method], args); err != nil {
		d.t.Fatalf("%v.%s: %v", d, method, err)

		return newStub(d, method, matcher)
	}

	impl := d.realMethod(method)
	if impl == nil {
		d.t.Fatalf("%v.%s: %v", d, method, ErrNoRealImplementation)

		return newStub(d, method, matcher)
	}

	if panicValue, panicked := runGuarded(impl, args); panicked {
		d.t.Fatalf("%v.%s: %v", d, method,
			fmt.Errorf("%w: real method panicked while configuring: %v", ErrConfigurationOrder, panicValue))

		return newStub(d, method, matcher)
	}

	d.checkOrder(method, matcher)

	return d.install(method, matcher)
}

// Verify starts a call-count verification.
func (d *Double) Verify(times Times) *Verification {
	return &Verification{double: d, times: times}
}

// CountMatching returns how many recorded calls to method match args.
func (d *Double) CountMatching(method string, args ...any) int {
	return d.recorder.CountMatching(method, ArgsMatcher(args))
}

// Invocations returns the recorded calls in order.
func (d *Double) Invocations() []Invocation {
	return d.recorder.Invocations()
}

// ID distinguishes doubles created by the same harness.
func (d *Double) ID() int {
	return d.id
}

// Mode reports whether unstubbed calls return zero values or run real logic.
func (d *Double) Mode() Mode {
	return d.mode
}

// Key returns the router key calls to method are notified under.
func (d *Double) Key(method string) Key {
	return Key{Subject: d.key, Method: method}
}

func (d *Double) String() string {
	return fmt.Sprintf("%v#%d(%s)", d.mode, d.id, d.name)
}

// links returns the router, logger and order policy of the harness that owns d.
func (d *Double) links() (*Router, logrus.FieldLogger, OrderPolicy) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.router, d.log, d.order
}

// rebind moves d into h, keeping its ID and recorded calls.
func (d *Double) rebind(h *Harness) {
	d.mu.Lock()
	d.router, d.log, d.order = h.router, h.log, h.order
	d.mu.Unlock()
}

func (d *Double) signature(method string) (reflect.Type, bool) {
	d.t.Helper()

	fn, ok := d.methods[method]
	if !ok {
		d.t.Fatalf("%v: %v %q", d, ErrUnknownMethod, method)

		return nil, false
	}

	return fn, true
}

func (d *Double) realMethod(method string) *reflect.Value {
	impl, ok := d.impl[method]
	if !ok {
		return nil
	}

	return &impl
}

func (d *Double) matcherFor(method string, args []any) (ArgsMatcher, bool) {
	d.t.Helper()

	matcher := ArgsMatcher(args)

	fn, ok := d.signature(method)
	if !ok {
		return matcher, false
	}

	if len(args) != fn.NumIn() {
		d.t.Fatalf("%v.%s: %v", d, method,
			fmt.Errorf("%w: %v takes %d, got %d matcher(s)", ErrMatcherArity, fn, fn.NumIn(), len(args)))

		return matcher, false
	}

	return matcher, true
}

func (d *Double) install(method string, matcher ArgsMatcher) *Stub {
	stub := newStub(d, method, matcher)

	d.mu.Lock()
	d.stubs = append(d.stubs, stub)
	d.mu.Unlock()

	return stub
}

// checkOrder reports stubs that would have answered calls which already ran the real method.
func (d *Double) checkOrder(method string, matcher ArgsMatcher) {
	d.t.Helper()

	d.mu.Lock()

	var ran []Invocation

	for _, inv := range d.realRuns {
		if inv.Method == method && matcher.check(inv.Args) == nil {
			ran = append(ran, inv)
		}
	}
	d.mu.Unlock()

	if len(ran) == 0 {
		return
	}

	err := &ConfigurationOrderError{Double: d.String(), Method: method, Ran: ran}

	if _, log, order := d.links(); order == OrderWarn {
		log.WithField("double", d.String()).Warn(err.Error())

		return
	}

	d.t.Fatalf("%v", err)
}

// matchStub returns the newest configured stub matching inv.
func (d *Double) matchStub(inv Invocation) *Stub {
	d.mu.Lock()
	stubs := make([]*Stub, len(d.stubs))
	copy(stubs, d.stubs)
	d.mu.Unlock()

	for i := len(stubs) - 1; i >= 0; i-- {
		stub := stubs[i]
		if stub.method != inv.Method || !stub.configured() {
			continue
		}

		if stub.matcher.Matches(inv.Args) {
			return stub
		}
	}

	return nil
}

func (d *Double) resolve(fn reflect.Type, inv Invocation) ([]any, string) {
	d.t.Helper()

	if stub := d.matchStub(inv); stub != nil {
		b := stub.take()

		switch b.kind {
		case behaveReturn:
			return append([]any(nil), b.results...), b.kind.String()
		case behaveAnswer:
			results := b.answer(inv.Args)
			if err := checkResults(fn, results); err != nil {
				d.t.Fatalf("%v.%s: answer: %v", d, inv.Method, err)

				return zeroResults(fn), b.kind.String()
			}

			return results, b.kind.String()
		case behavePanic:
			panic(b.panic)
		case behaveCallReal:
			return callReal(*d.realMethod(inv.Method), inv.Args), b.kind.String()
		}
	}

	if d.mode == ModeMock {
		return zeroResults(fn), "zero"
	}

	impl := d.realMethod(inv.Method)
	if impl == nil {
		d.t.Fatalf("%v.%s: %v", d, inv.Method, ErrNoRealImplementation)

		return zeroResults(fn), "zero"
	}

	d.mu.Lock()
	d.realRuns = append(d.realRuns, inv)
	d.mu.Unlock()

	return callReal(*impl, inv.Args), "real"
}

// runGuarded calls impl and reports whether it panicked.
func runGuarded(impl *reflect.Value, args []any) (panicValue any, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			panicValue, panicked = r, true
		}
	}()

	callReal(*impl, args)

	return nil, false
}

// Verification checks recorded calls against a Times bound.
type Verification struct {
	double *Double
	times  Times
}

// Called fails the test unless the number of calls to method matching args satisfies the
// bound.
func (v *Verification) Called(method string, args ...any) {
	v.double.t.Helper()

	if err := v.Check(method, args...); err != nil {
		v.double.t.Fatalf("%v", err)
	}
}

// Check is Called without failing the test. It returns a *VerificationError, or an
// ErrMatcherArity error when args do not fit the method.
func (v *Verification) Check(method string, args ...any) error {
	d := v.double
	d.t.Helper()

	fn, ok := d.signature(method)
	if !ok {
		return fmt.Errorf("%v: %w %q", d, ErrUnknownMethod, method)
	}

	if len(args) != fn.NumIn() {
		return fmt.Errorf("%v.%s: %w: %v takes %d, got %d matcher(s)",
			d, method, ErrMatcherArity, fn, fn.NumIn(), len(args))
	}

	return d.recorder.VerifyCount(d.String(), method, ArgsMatcher(args), v.times)
}

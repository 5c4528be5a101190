// Package doubles provides test doubles for Go: mocks and spies that record their
// invocations, stubs that return canned, sequenced or computed values, argument captors,
// call-count verification, and observers fired from replaced method implementations.
//
// A double stands in for an interface. The doublegen command writes a type implementing
// the interface whose every method forwards to Invoke:
//
//	//go:generate go run github.com/junittest/doubles/doublegen mobutils.Calculator
//
// generates CalculatorDouble with MockCalculator and SpyCalculator constructors.
// Tests then configure and verify by method name:
//
//	calc := MockCalculator(t)
//	calc.When("Add", doubles.Any(), doubles.Any()).ThenReturn(10, 12)
//	calc.Verify(doubles.Exactly(2)).Called("Add", 1, 1)
//
// This is the public API entry point. Implementation lives in internal/core.
package doubles

import (
	"github.com/junittest/doubles/internal/core"
	"github.com/sirupsen/logrus"
)

// Double stands in for a subject interface or function.
type Double = core.Double

// Mode selects what a double does for calls no stub matches.
type Mode = core.Mode

// Double modes.
const (
	ModeMock = core.ModeMock
	ModeSpy  = core.ModeSpy
)

// Stub is a configured behaviour for matching calls.
type Stub = core.Stub

// PendingReturn is the first half of DoReturn(...).When(...).
type PendingReturn = core.PendingReturn

// Answer computes a call's results from its arguments.
type Answer = core.Answer

// Invocation is one recorded call.
type Invocation = core.Invocation

// Verification checks recorded calls against a Times bound.
type Verification = core.Verification

// Times is a bound on the number of matching calls.
type Times = core.Times

// Matcher defines the interface for flexible value matching.
type Matcher = core.Matcher

// ArgsMatcher matches a whole argument list.
type ArgsMatcher = core.ArgsMatcher

// ArgumentCaptor records the values seen at one argument position.
type ArgumentCaptor[T any] = core.ArgumentCaptor[T]

// Harness is the per-test context owning the router, the logger and the doubles.
type Harness = core.Harness

// Option configures a Harness.
type Option = core.Option

// DoubleOption configures a double.
type DoubleOption = core.DoubleOption

// Router maps keys to observers.
type Router = core.Router

// Key identifies a method of a subject type.
type Key = core.Key

// Observer is notified with the arguments of an intercepted call.
type Observer = core.Observer

// CollisionPolicy decides what happens when an observer key is registered twice.
type CollisionPolicy = core.CollisionPolicy

// Collision policies.
const (
	KeepFirst       = core.KeepFirst
	ReplaceExisting = core.ReplaceExisting
)

// OrderPolicy decides how stubs configured after a real execution are reported.
type OrderPolicy = core.OrderPolicy

// Order policies.
const (
	OrderFail = core.OrderFail
	OrderWarn = core.OrderWarn
)

// TestReporter is the minimal interface doubles needs from test frameworks.
type TestReporter = core.TestReporter

// Failure is the outcome of CaptureFailure.
type Failure = core.Failure

// VerificationError describes a call-count verification that did not hold.
type VerificationError = core.VerificationError

// ConfigurationOrderError is raised for stubs installed on a spy after the real method ran.
type ConfigurationOrderError = core.ConfigurationOrderError

// Errors re-exported from internal/core.
var (
	ErrVerification         = core.ErrVerification
	ErrConfigurationOrder   = core.ErrConfigurationOrder
	ErrObserverCollision    = core.ErrObserverCollision
	ErrNilObserver          = core.ErrNilObserver
	ErrMatcherArity         = core.ErrMatcherArity
	ErrReturnArity          = core.ErrReturnArity
	ErrReturnType           = core.ErrReturnType
	ErrUnknownMethod        = core.ErrUnknownMethod
	ErrNoRealImplementation = core.ErrNoRealImplementation
	ErrNotInterface         = core.ErrNotInterface
	ErrArgumentValue        = core.ErrArgumentValue
)

// NewHarness creates and registers the harness for t.
func NewHarness(t TestReporter, opts ...Option) *Harness {
	return core.NewHarness(t, opts...)
}

// NewRouter creates a standalone observer router logging to log.
func NewRouter(policy CollisionPolicy, log logrus.FieldLogger) *Router {
	return core.NewRouter(policy, log)
}

// KeyFor builds the key for method on subject type T.
func KeyFor[T any](method string) Key {
	return core.KeyFor[T](method)
}

// MockFunc wraps fn in a double whose unstubbed calls return zero values.
func MockFunc[F any](t TestReporter, name string, fn F) (F, *Double) {
	t.Helper()

	return core.MockFunc(t, name, fn)
}

// SpyFunc wraps fn in a double whose unstubbed calls run fn.
func SpyFunc[F any](t TestReporter, name string, fn F) (F, *Double) {
	t.Helper()

	return core.SpyFunc(t, name, fn)
}

// Result unpacks results[index] as T, yielding the zero value for nil or missing slots.
func Result[T any](results []any, index int) T {
	return core.Result[T](results, index)
}

// CaptureFailure runs body with a recording reporter. See Failure.
func CaptureFailure(body func(t TestReporter)) *Failure {
	return core.CaptureFailure(body)
}

// Harness options.

// WithLogger sends harness logs to logger instead of the test log.
func WithLogger(logger *logrus.Logger) Option {
	return core.WithLogger(logger)
}

// WithTrace logs every invocation at debug level.
func WithTrace() Option {
	return core.WithTrace()
}

// WithCollisionPolicy sets the observer collision policy.
func WithCollisionPolicy(policy CollisionPolicy) Option {
	return core.WithCollisionPolicy(policy)
}

// WithOrderPolicy sets how late stubs on spies are reported.
func WithOrderPolicy(policy OrderPolicy) Option {
	return core.WithOrderPolicy(policy)
}

// WithName overrides the display name of a double.
func WithName(name string) DoubleOption {
	return core.WithName(name)
}

// WithReal gives a mock a real implementation for ThenCallReal and WhenReal.
func WithReal(impl any) DoubleOption {
	return core.WithReal(impl)
}

// Matchers.

// Any returns a matcher that matches any value.
func Any() Matcher {
	return core.Any()
}

// AnyOf returns a matcher that matches any value of type T.
func AnyOf[T any]() Matcher {
	return core.AnyOf[T]()
}

// Eq returns a matcher comparing with reflect.DeepEqual.
func Eq(expected any) Matcher {
	return core.Eq(expected)
}

// MatchValue checks if actual matches expected.
func MatchValue(actual, expected any) (bool, string) {
	return core.MatchValue(actual, expected)
}

// Satisfies returns a matcher that uses a predicate function to check for a match.
func Satisfies[T any](predicate func(T) error) Matcher {
	return core.Satisfies(predicate)
}

// NewCaptor creates an empty captor for values of type T.
func NewCaptor[T any]() *ArgumentCaptor[T] {
	return core.NewCaptor[T]()
}

// Bounds.

// Exactly accepts exactly n matching calls.
func Exactly(n int) Times { return core.Exactly(n) }

// Once accepts exactly one matching call.
func Once() Times { return core.Once() }

// Twice accepts exactly two matching calls.
func Twice() Times { return core.Twice() }

// Never accepts no matching calls.
func Never() Times { return core.Never() }

// AtLeast accepts n or more matching calls.
func AtLeast(n int) Times { return core.AtLeast(n) }

// AtMost accepts up to n matching calls.
func AtMost(n int) Times { return core.AtMost(n) }

// Between accepts between minimum and maximum matching calls, inclusive.
func Between(minimum, maximum int) Times { return core.Between(minimum, maximum) }

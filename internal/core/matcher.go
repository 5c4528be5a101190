package core

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// capturer is implemented by matchers that record the values they accept. Captures are
// only committed once every position of an ArgsMatcher has matched.
type capturer interface {
	capture(actual any)
}

// MatchValue checks if actual matches expected.
// If expected implements the Matcher interface, uses its Match method.
// Otherwise, uses reflect.DeepEqual for comparison and describes a mismatch with a diff.
// Returns (success, errorMessage). If success is true, errorMessage is empty.
func MatchValue(actual, expected any) (bool, string) {
	if matcher, ok := expected.(Matcher); ok {
		success, err := matcher.Match(actual)
		if err != nil {
			return false, err.Error()
		}

		if !success {
			return false, matcher.FailureMessage(actual)
		}

		return true, ""
	}

	if reflect.DeepEqual(actual, expected) {
		return true, ""
	}

	return false, fmt.Sprintf("mismatch (-want +got):\n%s", diffValues(expected, actual))
}

// diffValues renders a cmp diff, looking into unexported fields rather than panicking.
func diffValues(want, got any) string {
	return cmp.Diff(want, got, cmp.Exporter(func(reflect.Type) bool { return true }))
}

// Any returns a matcher that matches any value, including nil.
func Any() Matcher {
	return anyMatcher{}
}

type anyMatcher struct{}

func (anyMatcher) Match(any) (bool, error) {
	return true, nil
}

func (anyMatcher) FailureMessage(any) string {
	return ""
}

func (anyMatcher) String() string {
	return "<any>"
}

// AnyOf returns a matcher that matches any value of type T.
func AnyOf[T any]() Matcher {
	return anyOfMatcher[T]{}
}

type anyOfMatcher[T any] struct{}

func (anyOfMatcher[T]) Match(actual any) (bool, error) {
	_, ok := actual.(T)

	return ok, nil
}

func (anyOfMatcher[T]) FailureMessage(actual any) string {
	return fmt.Sprintf("expected any %s, got %T", typeName[T](), actual)
}

func (anyOfMatcher[T]) String() string {
	return fmt.Sprintf("<any %s>", typeName[T]())
}

// Eq returns a matcher comparing with reflect.DeepEqual. Plain values passed where a
// matcher is expected behave the same way; Eq exists for readability next to other matchers.
func Eq(expected any) Matcher {
	return eqMatcher{expected: expected}
}

type eqMatcher struct {
	expected any
}

func (m eqMatcher) Match(actual any) (bool, error) {
	return reflect.DeepEqual(actual, m.expected), nil
}

func (m eqMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("mismatch (-want +got):\n%s", diffValues(m.expected, actual))
}

func (m eqMatcher) String() string {
	return fmt.Sprintf("%#v", m.expected)
}

// Satisfies returns a matcher that uses a predicate function to check for a match.
// The predicate should return nil if the value matches, or an error describing
// the mismatch if it does not. FailureMessage calls the predicate again, so it must not
// depend on how often it runs.
func Satisfies[T any](predicate func(T) error) Matcher {
	return satisfiesMatcher[T]{predicate: predicate}
}

type satisfiesMatcher[T any] struct {
	predicate func(T) error
}

func (m satisfiesMatcher[T]) Match(actual any) (bool, error) {
	val, ok := actual.(T)
	if !ok {
		return false, fmt.Errorf("%w: expected %s, got %T", errTypeMismatch, typeName[T](), actual)
	}

	return m.predicate(val) == nil, nil
}

func (m satisfiesMatcher[T]) FailureMessage(actual any) string {
	if val, ok := actual.(T); ok {
		if err := m.predicate(val); err != nil {
			return fmt.Sprintf("value %v does not satisfy predicate: %v", actual, err)
		}
	}

	return fmt.Sprintf("value %v does not satisfy predicate", actual)
}

func (m satisfiesMatcher[T]) String() string {
	return fmt.Sprintf("<satisfies %s>", typeName[T]())
}

// ArgsMatcher matches a whole argument list, one expectation per position.
// Each expectation is either a Matcher or a plain value compared with reflect.DeepEqual.
type ArgsMatcher []any

// Matches reports whether args satisfy every position. Captors record the values when
// the whole list matches.
func (m ArgsMatcher) Matches(args []any) bool {
	return m.Mismatch(args) == nil
}

// Mismatch returns nil when args match, otherwise an error describing the first failing
// position. A match commits captures.
func (m ArgsMatcher) Mismatch(args []any) error {
	if err := m.check(args); err != nil {
		return err
	}

	for index, expected := range m {
		if c, ok := expected.(capturer); ok {
			c.capture(args[index])
		}
	}

	return nil
}

// check matches args without capturing.
func (m ArgsMatcher) check(args []any) error {
	if len(args) != len(m) {
		return fmt.Errorf("%w: expected %d args, got %d", ErrMatcherArity, len(m), len(args))
	}

	for index, expected := range m {
		ok, msg := MatchValue(args[index], expected)
		if !ok {
			if msg == "" {
				msg = fmt.Sprintf("matcher failed for value %#v", args[index])
			}

			//nolint:err113 // validation error with dynamic context
			return fmt.Errorf("arg %d: %s", index, msg)
		}
	}

	return nil
}

// mismatches counts the positions args fail, without capturing. A list of the wrong
// length fails every position.
func (m ArgsMatcher) mismatches(args []any) int {
	if len(args) != len(m) {
		return max(len(args), len(m))
	}

	count := 0

	for index, expected := range m {
		if ok, _ := MatchValue(args[index], expected); !ok {
			count++
		}
	}

	return count
}

// Render formats the matcher as a call to method.
func (m ArgsMatcher) Render(method string) string {
	parts := make([]string, len(m))
	for i, expected := range m {
		parts[i] = formatExpected(expected)
	}

	return fmt.Sprintf("%s(%s)", method, strings.Join(parts, ", "))
}

func formatExpected(expected any) string {
	if _, isMatcher := expected.(Matcher); isMatcher {
		if s, ok := expected.(fmt.Stringer); ok {
			return s.String()
		}

		return fmt.Sprintf("<%T>", expected)
	}

	return formatArg(expected)
}

func formatArg(arg any) string {
	if arg == nil {
		return "nil"
	}

	return fmt.Sprintf("%#v", arg)
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}

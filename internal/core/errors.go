package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/akedrou/textdiff"
)

// Sentinel errors. Failures reported through TestReporter.Fatalf carry one of these
// (possibly wrapped) as an argument, so callers can inspect them with errors.Is.
var (
	ErrVerification         = errors.New("verification failed")
	ErrConfigurationOrder   = errors.New("stub configured after the real method already ran")
	ErrObserverCollision    = errors.New("observer already registered")
	ErrNilObserver          = errors.New("nil observer")
	ErrMatcherArity         = errors.New("matcher count does not match parameter count")
	ErrReturnArity          = errors.New("return value count does not match result count")
	ErrReturnType           = errors.New("return value not assignable to result type")
	ErrUnknownMethod        = errors.New("unknown method")
	ErrNoRealImplementation = errors.New("no real implementation")
	ErrNotInterface         = errors.New("expected a pointer to a nil interface")
	ErrArgumentValue        = errors.New("argument is not a plain value of the parameter type")
)

// errTypeMismatch is a sentinel error for type assertion failures.
var errTypeMismatch = errors.New("type mismatch")

// VerificationError describes a call-count verification that did not hold.
type VerificationError struct {
	Double   string
	Wanted   string // rendered wanted call, e.g. CheckLength("1234")
	Times    Times
	Actual   int
	Recorded []Invocation
	Nearest  *Invocation // same-method call with the fewest mismatching arguments, if any
}

func (e *VerificationError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%v: wanted %s call(s) to %s.%s but got %d",
		ErrVerification, e.Times, e.Double, e.Wanted, e.Actual)

	if len(e.Recorded) == 0 {
		b.WriteString("\nno calls were recorded")

		return b.String()
	}

	b.WriteString("\nrecorded calls:")

	for _, inv := range e.Recorded {
		fmt.Fprintf(&b, "\n  #%d %s", inv.Seq, inv)
	}

	if e.Nearest != nil {
		b.WriteString("\n")
		b.WriteString(textdiff.Unified("wanted", fmt.Sprintf("call #%d", e.Nearest.Seq),
			callLines(e.Wanted), callLines(e.Nearest.String())))
	}

	return b.String()
}

func (e *VerificationError) Unwrap() error {
	return ErrVerification
}

// ConfigurationOrderError is raised when a stub is installed on a spy after a call it
// matches has already executed the real method.
type ConfigurationOrderError struct {
	Double string
	Method string
	Ran    []Invocation
}

func (e *ConfigurationOrderError) Error() string {
	calls := make([]string, len(e.Ran))
	for i, inv := range e.Ran {
		calls[i] = inv.String()
	}

	return fmt.Sprintf("%v: %s.%s already ran for %s; configure spies with DoReturn before exercising them",
		ErrConfigurationOrder, e.Double, e.Method, strings.Join(calls, ", "))
}

func (e *ConfigurationOrderError) Unwrap() error {
	return ErrConfigurationOrder
}

// callLines splits a rendered call into one line per argument so the diff points at the
// offending position.
func callLines(call string) string {
	open := strings.IndexByte(call, '(')
	if open < 0 || !strings.HasSuffix(call, ")") {
		return call + "\n"
	}

	var b strings.Builder

	b.WriteString(call[:open+1])
	b.WriteString("\n")

	for _, arg := range splitArgs(call[open+1 : len(call)-1]) {
		b.WriteString("\t")
		b.WriteString(arg)
		b.WriteString(",\n")
	}

	b.WriteString(")\n")

	return b.String()
}

// splitArgs splits a rendered argument list on top-level commas.
func splitArgs(list string) []string {
	var (
		args  []string
		depth int
		quote bool
		start int
	)

	for i := 0; i < len(list); i++ {
		switch c := list[i]; {
		case c == '\\' && quote:
			i++
		case c == '"':
			quote = !quote
		case quote:
		case c == '(' || c == '{' || c == '[':
			depth++
		case c == ')' || c == '}' || c == ']':
			depth--
		case c == ',' && depth == 0:
			args = append(args, strings.TrimSpace(list[start:i]))
			start = i + 1
		}
	}

	if rest := strings.TrimSpace(list[start:]); rest != "" {
		args = append(args, rest)
	}

	return args
}

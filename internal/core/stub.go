package core

import (
	"fmt"
	"sync"
)

// Answer computes a call's results from its arguments.
type Answer func(args []any) []any

type behaviorKind int

const (
	behaveReturn behaviorKind = iota
	behaveAnswer
	behavePanic
	behaveCallReal
)

func (k behaviorKind) String() string {
	switch k {
	case behaveReturn:
		return "return"
	case behaveAnswer:
		return "answer"
	case behavePanic:
		return "panic"
	case behaveCallReal:
		return "real"
	default:
		return fmt.Sprintf("behavior(%d)", int(k))
	}
}

type behavior struct {
	kind    behaviorKind
	results []any
	answer  Answer
	panic   any
}

// Stub is a configured behaviour for calls to one method whose arguments match.
// Each Then* call appends a behaviour; successive matching calls consume them in order
// and the last one repeats once the list is exhausted.
type Stub struct {
	double  *Double
	method  string
	matcher ArgsMatcher

	mu        sync.Mutex
	behaviors []behavior
	next      int
}

func newStub(d *Double, method string, matcher ArgsMatcher) *Stub {
	return &Stub{double: d, method: method, matcher: matcher}
}

// ThenReturn queues one call per value, for methods with a single result.
// ThenReturn(10, 12) answers 10, then 12, then 12 forever.
func (s *Stub) ThenReturn(values ...any) *Stub {
	s.double.t.Helper()

	for _, value := range values {
		s.ThenReturnResults(value)
	}

	return s
}

// ThenReturnResults queues one call returning results, for methods with zero or several
// results.
func (s *Stub) ThenReturnResults(results ...any) *Stub {
	s.double.t.Helper()

	fn, ok := s.double.signature(s.method)
	if !ok {
		return s
	}

	if err := checkResults(fn, results); err != nil {
		s.double.t.Fatalf("%v.%s: %v", s.double, s.method, err)

		return s
	}

	return s.add(behavior{kind: behaveReturn, results: results})
}

// ThenAnswer queues a computed response. The answer's results are validated when it runs.
func (s *Stub) ThenAnswer(answer Answer) *Stub {
	return s.add(behavior{kind: behaveAnswer, answer: answer})
}

// ThenPanic queues a call that panics with value.
func (s *Stub) ThenPanic(value any) *Stub {
	return s.add(behavior{kind: behavePanic, panic: value})
}

// ThenCallReal queues a call that runs the real implementation.
func (s *Stub) ThenCallReal() *Stub {
	s.double.t.Helper()

	if s.double.realMethod(s.method) == nil {
		s.double.t.Fatalf("%v.%s: %v", s.double, s.method, ErrNoRealImplementation)

		return s
	}

	return s.add(behavior{kind: behaveCallReal})
}

func (s *Stub) String() string {
	return fmt.Sprintf("%v.%s", s.double, s.matcher.Render(s.method))
}

func (s *Stub) add(b behavior) *Stub {
	s.mu.Lock()
	s.behaviors = append(s.behaviors, b)
	s.mu.Unlock()

	return s
}

// configured reports whether the stub has anything to answer with.
func (s *Stub) configured() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.behaviors) > 0
}

// take consumes the next behaviour, holding the last one.
func (s *Stub) take() behavior {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.behaviors[s.next]
	if s.next < len(s.behaviors)-1 {
		s.next++
	}

	return b
}

// PendingReturn holds values for the DoReturn(...).When(...) ordering.
type PendingReturn struct {
	double *Double
	values []any
}

// When installs a stub for method and args that returns the pending values in order.
func (p *PendingReturn) When(method string, args ...any) *Stub {
	p.double.t.Helper()

	return p.double.When(method, args...).ThenReturn(p.values...)
}

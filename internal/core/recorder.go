package core

import (
	"fmt"
	"strings"
	"sync"
)

// Invocation is one recorded call to a double.
type Invocation struct {
	Method string
	Args   []any
	Seq    int // 0-based position in the double's history
}

func (inv Invocation) String() string {
	parts := make([]string, len(inv.Args))
	for i, arg := range inv.Args {
		parts[i] = formatArg(arg)
	}

	return fmt.Sprintf("%s(%s)", inv.Method, strings.Join(parts, ", "))
}

// Recorder keeps the ordered call history of one double. Invocations are only ever
// appended.
type Recorder struct {
	mu    sync.Mutex
	calls []Invocation
}

// Record appends an invocation of method with args and returns it.
func (r *Recorder) Record(method string, args []any) Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv := Invocation{
		Method: method,
		Args:   append([]any(nil), args...),
		Seq:    len(r.calls),
	}
	r.calls = append(r.calls, inv)

	return inv.clone()
}

// Invocations returns a copy of the history in call order.
func (r *Recorder) Invocations() []Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Invocation, len(r.calls))
	for i, inv := range r.calls {
		out[i] = inv.clone()
	}

	return out
}

// CountMatching returns the number of recorded calls to method whose arguments satisfy
// matcher.
func (r *Recorder) CountMatching(method string, matcher ArgsMatcher) int {
	count := 0

	for _, inv := range r.Invocations() {
		if inv.Method == method && matcher.Matches(inv.Args) {
			count++
		}
	}

	return count
}

// VerifyCount checks the number of calls to method matching matcher against times.
// It returns a *VerificationError on violation, whose Nearest is the non-matching call to
// method that fails the fewest argument positions.
func (r *Recorder) VerifyCount(double, method string, matcher ArgsMatcher, times Times) error {
	history := r.Invocations()
	count := 0

	var nearest *Invocation

	fewest := 0

	for i := range history {
		inv := history[i]
		if inv.Method != method {
			continue
		}

		if matcher.Matches(inv.Args) {
			count++

			continue
		}

		// ties keep the earliest call
		if misses := matcher.mismatches(inv.Args); nearest == nil || misses < fewest {
			nearest, fewest = &history[i], misses
		}
	}

	if times.Met(count) {
		return nil
	}

	return &VerificationError{
		Double:   double,
		Wanted:   matcher.Render(method),
		Times:    times,
		Actual:   count,
		Recorded: history,
		Nearest:  nearest,
	}
}

func (inv Invocation) clone() Invocation {
	inv.Args = append([]any(nil), inv.Args...)

	return inv
}

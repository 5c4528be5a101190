package core

import "fmt"

// Times is a bound on the number of matching invocations a verification accepts.
type Times interface {
	Met(count int) bool
	String() string
}

type calledExactly int

func (n calledExactly) Met(count int) bool { return count == int(n) }

func (n calledExactly) String() string { return fmt.Sprintf("exactly %d", int(n)) }

type calledNever struct{}

func (calledNever) Met(count int) bool { return count == 0 }

func (calledNever) String() string { return "no" }

type calledAtLeast int

func (n calledAtLeast) Met(count int) bool { return count >= int(n) }

func (n calledAtLeast) String() string { return fmt.Sprintf("at least %d", int(n)) }

type calledBetween struct {
	atLeast int
	atMost  int
}

func (c calledBetween) Met(count int) bool {
	return count >= c.atLeast && count <= c.atMost
}

func (c calledBetween) String() string {
	if c.atLeast <= 0 {
		return fmt.Sprintf("at most %d", c.atMost)
	}

	return fmt.Sprintf("between %d and %d", c.atLeast, c.atMost)
}

// Exactly accepts exactly n matching calls.
func Exactly(n int) Times {
	return calledExactly(n)
}

// Once is shorthand for Exactly(1).
func Once() Times {
	return Exactly(1)
}

// Twice is shorthand for Exactly(2).
func Twice() Times {
	return Exactly(2)
}

// Never accepts no matching calls.
func Never() Times {
	return calledNever{}
}

// AtLeast accepts n or more matching calls.
func AtLeast(n int) Times {
	return calledAtLeast(n)
}

// AtMost accepts up to n matching calls, including none.
func AtMost(n int) Times {
	return Between(0, n)
}

// Between accepts at least minimum and at most maximum matching calls.
func Between(minimum, maximum int) Times {
	return calledBetween{atLeast: minimum, atMost: maximum}
}

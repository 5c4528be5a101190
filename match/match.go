// Package match provides argument matchers for When and Verify.
// This package is designed to be dot-imported alongside gomega matchers:
//
//	import (
//	    . "github.com/onsi/gomega"
//	    . "github.com/junittest/doubles/match"
//	)
//
//	calc.When("Add", BeNumerically(">", 0), BeAny).ThenReturn(42)
package match

import (
	"github.com/junittest/doubles/internal/core"
)

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher = core.Matcher

// BeAny is a matcher that matches any value.
// Useful when you don't care about a particular argument.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeAny Matcher = core.Any()

// BeAnyOf matches any value of type T.
func BeAnyOf[T any]() Matcher {
	return core.AnyOf[T]()
}

// Satisfy returns a matcher that uses a predicate function to check for a match.
// The predicate should return nil if the value matches, or an error describing
// the mismatch if it does not.
//
// Example:
//
//	calc.Verify(Once()).Called("Add", Satisfy(func(x int) error {
//	    if x < 0 { return fmt.Errorf("expected positive, got %d", x) }
//	    return nil
//	}), BeAny)
func Satisfy[T any](predicate func(T) error) Matcher {
	return core.Satisfies(predicate)
}

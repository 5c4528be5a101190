package match_test

import (
	"errors"
	"testing"

	"github.com/junittest/doubles/match"
	. "github.com/onsi/gomega" //nolint:revive
)

func TestBeAny(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(match.BeAny.Match(nil)).To(BeTrue())
	g.Expect(match.BeAny.Match(struct{}{})).To(BeTrue())
}

func TestBeAnyOf(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(match.BeAnyOf[error]().Match(errors.New("x"))).To(BeTrue())
	g.Expect(match.BeAnyOf[string]().Match(1)).To(BeFalse())
}

func TestSatisfy(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	short := match.Satisfy(func(s string) error {
		if len(s) > 3 {
			return errors.New("too long")
		}

		return nil
	})

	g.Expect(short.Match("abc")).To(BeTrue())
	g.Expect(short.Match("abcd")).To(BeFalse())
	g.Expect(short.FailureMessage("abcd")).To(ContainSubstring("too long"))
}

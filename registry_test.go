package doubles_test

import (
	"sync"
	"testing"

	"github.com/junittest/doubles"
	. "github.com/onsi/gomega"
	"pgregory.net/rapid"
)

// TestHarnessFor_SameT_ReturnsSameHarness verifies that calling HarnessFor
// with the same *testing.T returns the same *Harness instance.
func TestHarnessFor_SameT_ReturnsSameHarness(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	h1 := doubles.HarnessFor(t)
	h2 := doubles.HarnessFor(t)

	g.Expect(h1).To(BeIdenticalTo(h2), "same t should return same Harness")
}

// TestHarnessFor_DifferentT_ReturnsDifferentHarness verifies that different
// *testing.T values get different *Harness instances and different routers.
func TestHarnessFor_DifferentT_ReturnsDifferentHarness(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var h1, h2 *doubles.Harness

	t.Run("subtest1", func(t *testing.T) {
		h1 = doubles.HarnessFor(t)
	})

	t.Run("subtest2", func(t *testing.T) {
		h2 = doubles.HarnessFor(t)
	})

	g.Expect(h1).NotTo(BeIdenticalTo(h2), "different t should return different Harness")
	g.Expect(h1.Router()).NotTo(BeIdenticalTo(h2.Router()))
}

// TestHarnessFor_ConcurrentAccess verifies the registry is safe for
// concurrent access from multiple goroutines.
func TestHarnessFor_ConcurrentAccess(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	const numGoroutines = 100
	results := make([]*doubles.Harness, numGoroutines)

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := range numGoroutines {
		go func(idx int) {
			defer wg.Done()
			results[idx] = doubles.HarnessFor(t)
		}(i)
	}

	wg.Wait()

	for i := 1; i < numGoroutines; i++ {
		g.Expect(results[i]).To(BeIdenticalTo(results[0]),
			"concurrent calls with same t should return same Harness")
	}
}

// TestHarnessFor_ConcurrentAccess_Rapid uses property-based testing to
// verify concurrent access safety with randomized access patterns.
func TestHarnessFor_ConcurrentAccess_Rapid(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		numGoroutines := rapid.IntRange(2, 50).Draw(rt, "numGoroutines")
		results := make([]*doubles.Harness, numGoroutines)

		var wg sync.WaitGroup
		wg.Add(numGoroutines)

		for i := range numGoroutines {
			go func(idx int) {
				defer wg.Done()
				results[idx] = doubles.HarnessFor(t)
			}(i)
		}

		wg.Wait()

		for i := 1; i < numGoroutines; i++ {
			if results[i] != results[0] {
				rt.Fatalf("goroutine %d got different Harness", i)
			}
		}
	})
}

// TestNewHarness_ReplacesImplicitHarness verifies that an explicitly built
// harness becomes the one package-level constructors use.
func TestNewHarness_ReplacesImplicitHarness(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	implicit := doubles.HarnessFor(t)
	explicit := doubles.NewHarness(t, doubles.WithCollisionPolicy(doubles.ReplaceExisting))

	g.Expect(explicit).NotTo(BeIdenticalTo(implicit))
	g.Expect(doubles.HarnessFor(t)).To(BeIdenticalTo(explicit))
}

type greeter interface {
	Greet(name string) string
}

// TestNewHarness_AdoptsExistingDoubles verifies that doubles built before NewHarness
// notify the new harness's observers and keep their identity.
func TestNewHarness_AdoptsExistingDoubles(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	early := doubles.NewMock(t, (*greeter)(nil))
	h := doubles.NewHarness(t)

	var fired [][]any

	g.Expect(h.Observe(early.Key("Greet"), func(args ...any) { fired = append(fired, args) })).To(Succeed())

	early.Invoke("Greet", "ada")

	g.Expect(fired).To(Equal([][]any{{"ada"}}))
	g.Expect(h.Doubles()).To(Equal([]*doubles.Double{early}))
	g.Expect(early.ID()).To(Equal(1))
	g.Expect(doubles.NewMock(t, (*greeter)(nil)).ID()).To(Equal(2))
}

// TestNewHarness_InheritsObservers verifies that observers registered on a replaced
// harness keep firing.
func TestNewHarness_InheritsObservers(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	key := doubles.KeyFor[greeter]("Greet")
	fired := 0

	g.Expect(doubles.HarnessFor(t).Observe(key, func(...any) { fired++ })).To(Succeed())

	h := doubles.NewHarness(t)
	h.Notify(key, "ada")

	g.Expect(fired).To(Equal(1))
}

// TestCleanup_RemovesEntryAfterTestCompletes verifies that the registry
// entry is removed when the test completes via t.Cleanup.
func TestCleanup_RemovesEntryAfterTestCompletes(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var (
		captured *doubles.Harness
		subtestT *testing.T
	)

	t.Run("subtest", func(t *testing.T) {
		subtestT = t
		captured = doubles.HarnessFor(t)
		g.Expect(captured).NotTo(BeNil())
	})

	// The subtest's cleanup dropped its entry, so a fresh harness is built.
	g.Expect(doubles.HarnessFor(subtestT)).NotTo(BeIdenticalTo(captured))
}

// TestCaptureFailure_DropsHarness verifies that harnesses created for a captured body
// do not outlive it.
func TestCaptureFailure_DropsHarness(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var (
		reporter doubles.TestReporter
		inside   *doubles.Harness
	)

	failure := doubles.CaptureFailure(func(ct doubles.TestReporter) {
		reporter = ct
		inside = doubles.HarnessFor(ct)
	})

	g.Expect(failure.Failed()).To(BeFalse())
	g.Expect(doubles.HarnessFor(reporter)).NotTo(BeIdenticalTo(inside))
}

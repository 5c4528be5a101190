package doubles

import (
	"github.com/junittest/doubles/internal/core"
)

// HarnessFor returns the Harness for the given test, creating one if needed.
// Multiple calls with the same TestReporter return the same Harness instance.
// This lets doubles and observers built in different helpers of one test share a router,
// while tests running in parallel never see each other's observers.
func HarnessFor(t TestReporter) *Harness {
	return core.HarnessFor(t)
}

// NewMock creates a mock for the interface iface, given as (*Iface)(nil), in the harness
// of t. Unstubbed calls return zero values.
func NewMock(t TestReporter, iface any, opts ...DoubleOption) *Double {
	t.Helper()

	return core.NewMock(t, iface, opts...)
}

// NewSpy creates a spy for iface over impl in the harness of t. Unstubbed calls run impl.
func NewSpy(t TestReporter, iface any, impl any, opts ...DoubleOption) *Double {
	t.Helper()

	return core.NewSpy(t, iface, impl, opts...)
}

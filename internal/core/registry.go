package core

import (
	"sync"
)

// HarnessFor returns the Harness for the given test, creating one if needed.
// Multiple calls with the same TestReporter return the same Harness instance, so
// doubles and observers created in different helpers of one test share a router.
//
// If the TestReporter supports Cleanup (like *testing.T), the Harness is
// automatically removed from the registry when the test completes.
func HarnessFor(t TestReporter) *Harness {
	registryMu.Lock()

	if h, ok := registry[t]; ok {
		registryMu.Unlock()

		return h
	}

	registryMu.Unlock()

	h := newHarness(t)

	return register(t, h)
}

// NewMock creates a mock for iface in the harness of t.
func NewMock(t TestReporter, iface any, opts ...DoubleOption) *Double {
	t.Helper()

	return HarnessFor(t).Mock(iface, opts...)
}

// NewSpy creates a spy for iface over impl in the harness of t.
func NewSpy(t TestReporter, iface any, impl any, opts ...DoubleOption) *Double {
	t.Helper()

	return HarnessFor(t).Spy(iface, impl, opts...)
}

// register stores h for t and returns the harness now registered. A harness built by
// NewHarness replaces an existing one and adopts its doubles; otherwise the first stored
// harness wins.
func register(t TestReporter, h *Harness) *Harness {
	registryMu.Lock()
	defer registryMu.Unlock()

	existing, known := registry[t]
	if known && existing != h {
		if !h.explicit {
			return existing
		}

		h.adopt(existing)
	}

	registry[t] = h

	if !known {
		if cr, ok := t.(cleanupRegistrar); ok {
			cr.Cleanup(func() {
				registryMu.Lock()
				delete(registry, t)
				registryMu.Unlock()
			})
		}
	}

	return h
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Package-level registry is intentional for test coordination
	registry = make(map[TestReporter]*Harness)
	//nolint:gochecknoglobals // Mutex for registry
	registryMu sync.Mutex
)

// cleanupRegistrar is the interface needed for registering cleanup functions.
// This is satisfied by *testing.T and *testing.B.
type cleanupRegistrar interface {
	Cleanup(cleanupFunc func())
}

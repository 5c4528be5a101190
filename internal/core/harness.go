package core

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// TestReporter is the minimal interface the harness needs from test frameworks.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
}

// logfReporter is satisfied by *testing.T and *testing.B; the default logger writes to it.
type logfReporter interface {
	Logf(format string, args ...any)
}

// Option configures a Harness.
type Option func(*settings)

type settings struct {
	logger    *logrus.Logger
	trace     bool
	collision CollisionPolicy
	order     OrderPolicy
}

// WithLogger sends harness logs to logger instead of the test log.
func WithLogger(logger *logrus.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithTrace logs every invocation at debug level.
func WithTrace() Option {
	return func(s *settings) {
		s.trace = true
	}
}

// WithCollisionPolicy sets what happens when an observer key is registered twice.
func WithCollisionPolicy(policy CollisionPolicy) Option {
	return func(s *settings) {
		s.collision = policy
	}
}

// WithOrderPolicy sets how stubs configured after a real execution are reported.
func WithOrderPolicy(policy OrderPolicy) Option {
	return func(s *settings) {
		s.order = policy
	}
}

// DoubleOption configures a single double.
type DoubleOption func(*doubleSettings)

type doubleSettings struct {
	name string
	impl any
}

// WithName overrides the display name of a double.
func WithName(name string) DoubleOption {
	return func(s *doubleSettings) {
		s.name = name
	}
}

// WithReal gives a mock a real implementation for ThenCallReal and WhenReal.
func WithReal(impl any) DoubleOption {
	return func(s *doubleSettings) {
		s.impl = impl
	}
}

// Harness is the per-test context: it owns the observer router, the logger and every
// double created through it.
type Harness struct {
	t      TestReporter
	log    *logrus.Logger
	router *Router
	order  OrderPolicy

	explicit bool // built by NewHarness

	mu      sync.Mutex
	doubles []*Double
}

// NewHarness creates a harness for t and registers it, so HarnessFor(t) and the
// package-level constructors use it from now on. Doubles and observers of a harness it
// replaces move into the new one.
func NewHarness(t TestReporter, opts ...Option) *Harness {
	h := newHarness(t, opts...)
	h.explicit = true
	register(t, h)

	return h
}

func newHarness(t TestReporter, opts ...Option) *Harness {
	cfg := settings{}
	for _, opt := range opts {
		opt(&cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = newTestLogger(t)
	}

	if cfg.trace {
		logger.SetLevel(logrus.DebugLevel)
	}

	return &Harness{
		t:      t,
		log:    logger,
		router: NewRouter(cfg.collision, logger),
		order:  cfg.order,
	}
}

// Mock creates a double for the interface iface, given as (*Iface)(nil), whose unstubbed
// calls return zero values.
func (h *Harness) Mock(iface any, opts ...DoubleOption) *Double {
	h.t.Helper()

	return h.newInterfaceDouble(ModeMock, iface, nil, opts)
}

// Spy creates a double for iface whose unstubbed calls run impl.
func (h *Harness) Spy(iface any, impl any, opts ...DoubleOption) *Double {
	h.t.Helper()

	if impl == nil {
		h.t.Fatalf("spy for %v: %v", iface, ErrNoRealImplementation)

		return nil
	}

	return h.newInterfaceDouble(ModeSpy, iface, impl, opts)
}

// Observe registers observer under key. See Router.Register.
func (h *Harness) Observe(key Key, observer Observer) error {
	return h.router.Register(key, observer)
}

// Notify fires the observer registered under key, if any.
func (h *Harness) Notify(key Key, args ...any) {
	h.router.Notify(key, args...)
}

// Router returns the harness's observer router.
func (h *Harness) Router() *Router {
	return h.router
}

// Logger returns the harness's logger.
func (h *Harness) Logger() *logrus.Logger {
	return h.log
}

// Doubles returns the doubles created through h, in creation order.
func (h *Harness) Doubles() []*Double {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]*Double(nil), h.doubles...)
}

func (h *Harness) newInterfaceDouble(mode Mode, iface any, impl any, opts []DoubleOption) *Double {
	h.t.Helper()

	cfg := doubleSettings{impl: impl}
	for _, opt := range opts {
		opt(&cfg)
	}

	ifaceType, err := interfaceType(iface)
	if err != nil {
		h.t.Fatalf("%v", err)

		return nil
	}

	methods := make(map[string]reflect.Type, ifaceType.NumMethod())
	for i := range ifaceType.NumMethod() {
		m := ifaceType.Method(i)
		methods[m.Name] = m.Type
	}

	impls := map[string]reflect.Value{}

	if cfg.impl != nil {
		implValue := reflect.ValueOf(cfg.impl)
		if !implValue.Type().Implements(ifaceType) {
			h.t.Fatalf("%v: %T does not implement %v", ErrNoRealImplementation, cfg.impl, ifaceType)

			return nil
		}

		for name := range methods {
			impls[name] = implValue.MethodByName(name)
		}
	}

	if cfg.name == "" {
		cfg.name = ifaceType.String()
	}

	return h.add(&Double{
		name:    cfg.name,
		subject: ifaceType.String(),
		key:     subjectOf(ifaceType),
		mode:    mode,
		methods: methods,
		impl:    impls,
	})
}

func (h *Harness) add(d *Double) *Double {
	h.mu.Lock()
	defer h.mu.Unlock()

	d.t = h.t
	d.id = len(h.doubles) + 1
	d.router = h.router
	d.log = h.log
	d.order = h.order
	h.doubles = append(h.doubles, d)

	return d
}

// adopt takes over the doubles and observers of old, which h replaces for the same test.
// Adopted doubles keep their IDs and recorded calls; later doubles are numbered after them.
func (h *Harness) adopt(old *Harness) {
	old.mu.Lock()
	adopted := old.doubles
	old.doubles = nil
	old.mu.Unlock()

	h.router.adopt(old.router)

	for _, d := range adopted {
		d.rebind(h)
	}

	h.mu.Lock()
	h.doubles = append(adopted, h.doubles...)
	h.mu.Unlock()

	h.log.WithField("doubles", len(adopted)).Debug("adopted replaced harness")
}

func interfaceType(iface any) (reflect.Type, error) {
	typ := reflect.TypeOf(iface)
	if typ == nil || typ.Kind() != reflect.Pointer || typ.Elem().Kind() != reflect.Interface {
		return nil, fmt.Errorf("%w: got %T", ErrNotInterface, iface)
	}

	return typ.Elem(), nil
}

// newTestLogger returns a warn-level logger writing to t.Logf, or discarding output when t
// cannot log.
func newTestLogger(t TestReporter) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	if lr, ok := t.(logfReporter); ok {
		logger.SetOutput(reporterWriter{lr})
	} else {
		logger.SetOutput(io.Discard)
	}

	return logger
}

// reporterWriter forwards each written log line to Logf.
type reporterWriter struct {
	r logfReporter
}

func (w reporterWriter) Write(p []byte) (int, error) {
	w.r.Logf("%s", strings.TrimRight(string(p), "\n"))

	return len(p), nil
}

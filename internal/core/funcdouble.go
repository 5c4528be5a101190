package core

import (
	"reflect"
)

// MockFunc wraps fn in a double named name whose unstubbed calls return zero values.
// Assign the returned function to a package-level seam or an injected field to replace a
// free function. fn is kept as the real implementation for ThenCallReal and may be nil.
func MockFunc[F any](t TestReporter, name string, fn F) (F, *Double) {
	t.Helper()

	return wrapFunc(HarnessFor(t), ModeMock, name, fn)
}

// SpyFunc wraps fn in a double named name whose unstubbed calls run fn.
func SpyFunc[F any](t TestReporter, name string, fn F) (F, *Double) {
	t.Helper()

	return wrapFunc(HarnessFor(t), ModeSpy, name, fn)
}

func wrapFunc[F any](h *Harness, mode Mode, name string, fn F) (F, *Double) {
	funcType := reflect.TypeFor[F]()
	if funcType.Kind() != reflect.Func {
		// The type parameter is fixed at compile time; a non-func F is a programming error.
		panic("doubles: MockFunc/SpyFunc need a function type, got " + funcType.String())
	}

	impls := map[string]reflect.Value{}
	if fnValue := reflect.ValueOf(fn); fnValue.IsValid() && !fnValue.IsNil() {
		impls[name] = fnValue
	} else if mode == ModeSpy {
		h.t.Fatalf("spy for %s: %v", name, ErrNoRealImplementation)

		var zero F

		return zero, nil
	}

	double := h.add(&Double{
		name:    name,
		subject: funcType.String(),
		key:     subjectOf(funcType),
		mode:    mode,
		methods: map[string]reflect.Type{name: funcType},
		impl:    impls,
	})

	relayer := func(args []reflect.Value) []reflect.Value {
		results := double.Invoke(name, unreflectValues(args)...)

		out := make([]reflect.Value, funcType.NumOut())
		for i := range out {
			out[i] = reflect.New(funcType.Out(i)).Elem()
			if i < len(results) && results[i] != nil {
				out[i].Set(reflect.ValueOf(results[i]))
			}
		}

		return out
	}

	// MakeFunc returns a value of type F, as documented.
	wrapped := reflect.MakeFunc(funcType, relayer).Interface().(F) //nolint:forcetypeassert

	return wrapped, double
}

package core

import (
	"fmt"
	"reflect"
)

// zeroResults returns the zero value of every result of fn: 0, false, "", and nil for
// pointers, interfaces, slices, maps, channels and funcs.
func zeroResults(fn reflect.Type) []any {
	if fn.NumOut() == 0 {
		return nil
	}

	results := make([]any, fn.NumOut())
	for i := range fn.NumOut() {
		results[i] = reflect.Zero(fn.Out(i)).Interface()
	}

	return results
}

// checkResults returns an error unless results can be returned from a function of type fn.
// Values are only checked, never converted.
func checkResults(fn reflect.Type, results []any) error {
	if len(results) != fn.NumOut() {
		return fmt.Errorf("%w: %v has %d result(s), got %d value(s)", ErrReturnArity, fn, fn.NumOut(), len(results))
	}

	for i, result := range results {
		out := fn.Out(i)

		if result == nil {
			if !nilable(out) {
				return fmt.Errorf("%w: result %d of %v is %v, got nil", ErrReturnType, i, fn, out)
			}

			continue
		}

		if got := reflect.TypeOf(result); !got.AssignableTo(out) {
			return fmt.Errorf("%w: result %d of %v is %v, got %v", ErrReturnType, i, fn, out, got)
		}
	}

	return nil
}

// concreteArgs returns an ErrArgumentValue error unless every arg can be passed as is to a
// function of type fn. Matchers describe calls and cannot be.
func concreteArgs(fn reflect.Type, args []any) error {
	for i, arg := range args {
		param := fn.In(i)

		if _, ok := arg.(Matcher); ok {
			return fmt.Errorf("%w: argument %d is the matcher %v", ErrArgumentValue, i, formatExpected(arg))
		}

		switch {
		case arg == nil:
			if !nilable(param) {
				return fmt.Errorf("%w: argument %d of %v is %v, got nil", ErrArgumentValue, i, fn, param)
			}
		case !reflect.TypeOf(arg).AssignableTo(param):
			return fmt.Errorf("%w: argument %d of %v is %v, got %T", ErrArgumentValue, i, fn, param, arg)
		}
	}

	return nil
}

// callReal invokes a real implementation with untyped arguments. A trailing variadic
// argument is expected as a slice, the way forwarding doubles pass it.
func callReal(impl reflect.Value, args []any) []any {
	fnType := impl.Type()
	in := make([]reflect.Value, len(args))

	for i, arg := range args {
		param := fnType.In(i)
		if arg == nil {
			in[i] = reflect.Zero(param)
		} else {
			in[i] = reflect.ValueOf(arg)
		}
	}

	var out []reflect.Value
	if fnType.IsVariadic() {
		out = impl.CallSlice(in)
	} else {
		out = impl.Call(in)
	}

	return unreflectValues(out)
}

// unreflectValues converts reflect.Values back to interface values.
func unreflectValues(values []reflect.Value) []any {
	if len(values) == 0 {
		return nil
	}

	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v.Interface()
	}

	return out
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func,
		reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

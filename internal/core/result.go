package core

// Result returns results[index] as T, or the zero value of T when the slot is missing or
// nil. Generated doubles use it to unpack Invoke without panicking on nil interfaces.
func Result[T any](results []any, index int) T {
	var zero T

	if index < 0 || index >= len(results) || results[index] == nil {
		return zero
	}

	val, ok := results[index].(T)
	if !ok {
		return zero
	}

	return val
}

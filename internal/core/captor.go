package core

import (
	"fmt"
	"reflect"
	"sync"
)

// ArgumentCaptor records the values seen at one argument position. Use it in place of an
// argument in When or Verify; it accepts any value of type T.
type ArgumentCaptor[T any] struct {
	mu       sync.Mutex
	captured []T
}

// NewCaptor creates an empty captor for values of type T.
func NewCaptor[T any]() *ArgumentCaptor[T] {
	return &ArgumentCaptor[T]{}
}

func (c *ArgumentCaptor[T]) Match(actual any) (bool, error) {
	if actual == nil {
		return nilable(reflect.TypeFor[T]()), nil
	}

	_, ok := actual.(T)

	return ok, nil
}

func (c *ArgumentCaptor[T]) FailureMessage(actual any) string {
	return fmt.Sprintf("captor expected %s, got %T", typeName[T](), actual)
}

func (c *ArgumentCaptor[T]) String() string {
	return fmt.Sprintf("<capture %s>", typeName[T]())
}

func (c *ArgumentCaptor[T]) capture(actual any) {
	val, _ := actual.(T)

	c.mu.Lock()
	c.captured = append(c.captured, val)
	c.mu.Unlock()
}

// Value returns the most recently captured value, or the zero value if nothing was captured.
func (c *ArgumentCaptor[T]) Value() T {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.captured) == 0 {
		var zero T

		return zero
	}

	return c.captured[len(c.captured)-1]
}

// Values returns every captured value in capture order.
func (c *ArgumentCaptor[T]) Values() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	values := make([]T, len(c.captured))
	copy(values, c.captured)

	return values
}

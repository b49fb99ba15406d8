// Package opt holds a value that may be absent.
package opt

import "fmt"

type Option[T any] struct {
	value T
	ok    bool
}

func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

func None[T any]() Option[T] {
	return Option[T]{}
}

// FromPtr maps nil to None.
func FromPtr[T any](p *T) Option[T] {
	if p == nil {
		return None[T]()
	}

	return Some(*p)
}

func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

func (o Option[T]) IsSome() bool {
	return o.ok
}

func (o Option[T]) OrElse(def T) T {
	if !o.ok {
		return def
	}

	return o.value
}

// Ptr returns a pointer to a copy of the value, or nil when absent.
func (o Option[T]) Ptr() *T {
	if !o.ok {
		return nil
	}
	v := o.value

	return &v
}

func (o Option[T]) String() string {
	if !o.ok {
		return "<none>"
	}

	return fmt.Sprint(o.value)
}

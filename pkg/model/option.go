package model

import "fmt"

// Option holds a value that may be absent. A zero Option is None.
type Option[T comparable] struct {
	value T
	ok    bool
}

// Some returns an Option holding v.
func Some[T comparable](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None returns an empty Option.
func None[T comparable]() Option[T] {
	return Option[T]{}
}

// FromPtr returns None for nil and Some(*p) otherwise.
func FromPtr[T comparable](p *T) Option[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// Get returns the held value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsSome reports whether a value is present.
func (o Option[T]) IsSome() bool {
	return o.ok
}

// Matches reports whether v satisfies the option. None matches anything.
func (o Option[T]) Matches(v T) bool {
	return !o.ok || o.value == v
}

// String renders the value, or "*" for None.
func (o Option[T]) String() string {
	if !o.ok {
		return "*"
	}
	return fmt.Sprint(o.value)
}

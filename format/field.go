// SPDX-License-Identifier: EPL-2.0

package format

import "fmt"

// Presence is the state of a tri-state setup field.
type Presence uint8

const (
	// Unspecified places no constraint; the field adapts to context.
	Unspecified Presence = iota
	// Specified requires the carried value.
	Specified
	// Unchanged passes the value through from whichever neighbor decides it.
	Unchanged
)

func (p Presence) String() string {
	switch p {
	case Specified:
		return "specified"
	case Unchanged:
		return "unchanged"
	}
	return "unspecified"
}

// Field is a tri-state setup field. The zero value is Unspecified.
type Field[T comparable] struct {
	presence Presence
	value    T
}

// Specify returns a field requiring v.
func Specify[T comparable](v T) Field[T] {
	return Field[T]{presence: Specified, value: v}
}

// PassThrough returns an Unchanged field.
func PassThrough[T comparable]() Field[T] {
	return Field[T]{presence: Unchanged}
}

func (f Field[T]) Presence() Presence { return f.presence }
func (f Field[T]) IsSpecified() bool  { return f.presence == Specified }
func (f Field[T]) IsUnchanged() bool  { return f.presence == Unchanged }

// Value returns the required value; ok is false unless the field is Specified.
func (f Field[T]) Value() (v T, ok bool) {
	return f.value, f.presence == Specified
}

// inherit turns an Unchanged field into a Specified one carrying v.
func (f Field[T]) inherit(v T) Field[T] {
	if f.presence == Unchanged {
		return Specify(v)
	}
	return f
}

func (f Field[T]) String() string {
	if f.presence == Specified {
		return fmt.Sprint(f.value)
	}
	return f.presence.String()
}

// Option is a two-state setup field: a required value or Unspecified. The
// zero value is Unspecified.
type Option[T comparable] struct {
	set   bool
	value T
}

// Some returns an option requiring v.
func Some[T comparable](v T) Option[T] {
	return Option[T]{set: true, value: v}
}

func (o Option[T]) IsSpecified() bool { return o.set }

// Value returns the required value; ok is false when Unspecified.
func (o Option[T]) Value() (v T, ok bool) { return o.value, o.set }

func (o Option[T]) String() string {
	if o.set {
		return fmt.Sprint(o.value)
	}
	return Unspecified.String()
}

package enum

import (
	"fmt"
	"reflect"
)

// registry maps an enum type to its enum[T]. Enums are registered in package-level var
// blocks, so the registry is written only during initialization.
var registry = map[reflect.Type]any{}

type enum[T comparable] struct {
	toEnum   map[string]T
	toString map[T]string
}

func get[T comparable]() enum[T] {
	var zero T
	t := reflect.TypeOf(zero)
	e, ok := registry[t]
	if !ok {
		e = enum[T]{toEnum: map[string]T{}, toString: map[T]string{}}
		registry[t] = e
	}

	return e.(enum[T])
}

// New registers value under the name s and returns value.
func New[T comparable](value T, s string) T {
	e := get[T]()
	e.toEnum[s] = value
	e.toString[value] = s
	return value
}

// ToEnum returns the value registered under the name s.
func ToEnum[T comparable](s string) (T, error) {
	var zero T
	t, ok := get[T]().toEnum[s]
	if !ok {
		return zero, fmt.Errorf("not found value %s in enum %T", s, zero)
	}

	return t, nil
}

// ToString returns the registered name of value, or an empty string.
func ToString[T comparable](value T) string {
	return get[T]().toString[value]
}

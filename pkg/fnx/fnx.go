// Package fnx holds small generic predicates and slice/map helpers shared by
// the board, chat and CLI code.
package fnx

import (
	"cmp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Contains reports whether v is in s.
func Contains[T comparable](s []T, v T) bool {
	return IndexOf(s, v) >= 0
}

// IndexOf returns the index of the first v in s, or -1. A nil slice yields -1.
func IndexOf[T comparable](s []T, v T) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// Append returns a new slice holding s followed by v. s is never mutated.
func Append[T any](s []T, v T) []T {
	out := make([]T, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}

// Remove returns a new slice with every occurrence of v dropped.
func Remove[T comparable](s []T, v T) []T {
	out := make([]T, 0, len(s))
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// RemoveAt returns a new slice without the element at i. Out of range
// indexes return a plain copy.
func RemoveAt[T any](s []T, i int) []T {
	out := make([]T, 0, len(s))
	for j, x := range s {
		if j != i {
			out = append(out, x)
		}
	}
	return out
}

// SameKeys reports whether a and b have exactly the same key set.
func SameKeys[K comparable, A, B any](a map[K]A, b map[K]B) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// InRange returns a predicate for from <= n <= to.
func InRange[T cmp.Ordered](from, to T) func(T) bool {
	return func(n T) bool {
		return from <= n && n <= to
	}
}

// InGroup returns a predicate matching text whose first letter, upper-cased,
// falls between from and to. Empty text never matches.
func InGroup(from, to rune) func(string) bool {
	in := InRange(unicode.ToUpper(from), unicode.ToUpper(to))
	return func(text string) bool {
		lead, size := utf8.DecodeRuneInString(strings.TrimSpace(text))
		if size == 0 {
			return false
		}
		return in(unicode.ToUpper(lead))
	}
}

// Default returns a function that replaces the zero value with d.
func Default[T comparable](d T) func(T) T {
	var zero T
	return func(v T) T {
		if v == zero {
			return d
		}
		return v
	}
}

// OneOf reports whether v equals any of the candidates.
func OneOf[T comparable](v T, of ...T) bool {
	return Contains(of, v)
}

// Chain combines fns into one function calling each in order. Nil entries are
// skipped; if nothing is left Chain returns nil.
func Chain[A any](fns ...func(A)) func(A) {
	live := make([]func(A), 0, len(fns))
	for _, fn := range fns {
		if fn != nil {
			live = append(live, fn)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return func(a A) {
		for _, fn := range live {
			fn(a)
		}
	}
}

// DiffBool compares key in current and next and calls onTrue when it flipped
// to true or onFalse when it flipped to false. Either callback may be nil.
func DiffBool[K comparable](current, next map[K]bool) func(key K, onTrue, onFalse func(from, to bool)) {
	return func(key K, onTrue, onFalse func(from, to bool)) {
		from, to := current[key], next[key]
		switch {
		case !from && to && onTrue != nil:
			onTrue(from, to)
		case from && !to && onFalse != nil:
			onFalse(from, to)
		}
	}
}

// Diff calls cb when key holds different values in current and next.
func Diff[K, V comparable](current, next map[K]V) func(key K, cb func(from, to V)) {
	return func(key K, cb func(from, to V)) {
		from, to := current[key], next[key]
		if from != to && cb != nil {
			cb(from, to)
		}
	}
}

// Lookup walks a dot separated path through nested maps, as produced by
// decoding JSON into any.
func Lookup(obj any, path string) (any, bool) {
	cur := obj
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[key]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Always returns a function that always yields v.
func Always[T any](v T) func() T {
	return func() T { return v }
}

// Noop does nothing.
func Noop() {}

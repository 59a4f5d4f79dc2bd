package store

// Filter is a predicate over an entity. A nil Filter matches everything.
type Filter[T any] func(T) bool

// Matches reports whether v satisfies f.
func (f Filter[T]) Matches(v T) bool {
	return f == nil || f(v)
}

// And matches when every filter matches. Nil filters are ignored.
func And[T any](filters ...Filter[T]) Filter[T] {
	return func(v T) bool {
		for _, f := range filters {
			if !f.Matches(v) {
				return false
			}
		}
		return true
	}
}

// Or matches when at least one non-nil filter matches.
func Or[T any](filters ...Filter[T]) Filter[T] {
	return func(v T) bool {
		for _, f := range filters {
			if f != nil && f(v) {
				return true
			}
		}
		return false
	}
}

// Not negates f.
func Not[T any](f Filter[T]) Filter[T] {
	return func(v T) bool {
		return !f.Matches(v)
	}
}

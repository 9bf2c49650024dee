package bridge

// Step is the result of running a selector on one value: either a
// projection, or a reducer to apply to the previous projection.
type Step[S any] struct {
	value  S
	reduce func(prev S) S
}

// Value returns a Step that replaces the projection with v.
func Value[S any](v S) Step[S] {
	return Step[S]{value: v}
}

// Reducer returns a Step that derives the projection from the previous one.
func Reducer[S any](fn func(prev S) S) Step[S] {
	return Step[S]{reduce: fn}
}

func (st Step[S]) apply(prev S) S {
	if st.reduce != nil {
		return st.reduce(prev)
	}
	return st.value
}

// Selector maps a signal value to a Step. Use Map, Reduce or Identity
// for the common cases, or write one that picks a mode per value.
type Selector[T, S any] func(value T) Step[S]

// Map returns a selector that projects each value with fn.
func Map[T, S any](fn func(T) S) Selector[T, S] {
	return func(v T) Step[S] {
		return Value(fn(v))
	}
}

// Reduce returns a selector whose result is applied to the previous
// projection. The first projection is applied to the seed (see WithSeed).
func Reduce[T, S any](fn func(T) func(prev S) S) Selector[T, S] {
	return func(v T) Step[S] {
		return Reducer(fn(v))
	}
}

// Identity returns a selector that projects the whole value.
func Identity[T any]() Selector[T, T] {
	return func(v T) Step[T] {
		return Value(v)
	}
}

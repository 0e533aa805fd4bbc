package pathway

import "fmt"

// Outcome is the result of a pipeline or of a single step: either a success
// holding a value, or a failure holding an *Error. Outcomes are immutable
// values and exactly one variant is populated.
//
// Then is the only short-circuit mechanism: once an Outcome is a failure,
// every combinator returns it unchanged without evaluating its function.
//
//	out := pathway.Ok(2).
//	    Then(func(n int) pathway.Outcome[int] { return pathway.Ok(n * 10) }).
//	    Then(func(n int) pathway.Outcome[int] {
//	        if n > 10 {
//	            return pathway.Err[int](pathway.NewError(pathway.KindInvalid, "too big", n))
//	        }
//	        return pathway.Ok(n)
//	    })
//	// out.IsErr() == true
type Outcome[V any] struct {
	value V
	err   *Error
}

// Ok builds a successful Outcome. Any value is acceptable, including nil.
func Ok[V any](v V) Outcome[V] {
	return Outcome[V]{value: v}
}

// Err builds a failed Outcome. Passing a nil *Error is a programming error
// and panics, since the Outcome would otherwise silently become a success.
func Err[V any](e *Error) Outcome[V] {
	if e == nil {
		panic("pathway: Err called with nil *Error")
	}
	return Outcome[V]{err: e}
}

// IsOk reports whether the Outcome is a success.
func (o Outcome[V]) IsOk() bool {
	return o.err == nil
}

// IsErr reports whether the Outcome is a failure.
func (o Outcome[V]) IsErr() bool {
	return o.err != nil
}

// Value returns the success value. It panics on a failure.
func (o Outcome[V]) Value() V {
	if o.err != nil {
		panic(fmt.Sprintf("pathway: Value called on failed outcome: %v", o.err))
	}
	return o.value
}

// Err returns the failure. It panics on a success.
func (o Outcome[V]) Err() *Error {
	if o.err == nil {
		panic("pathway: Err called on successful outcome")
	}
	return o.err
}

// Get returns the success value and true, or the zero value and false.
func (o Outcome[V]) Get() (V, bool) {
	if o.err != nil {
		var zero V
		return zero, false
	}
	return o.value, true
}

// Unwrap converts the Outcome into Go's (value, error) convention.
// The returned error is a nil interface on success.
func (o Outcome[V]) Unwrap() (V, error) {
	if o.err != nil {
		var zero V
		return zero, o.err
	}
	return o.value, nil
}

// Then evaluates f with the success value and returns its Outcome.
// On a failure f is never invoked and the Outcome is returned unchanged.
func (o Outcome[V]) Then(f func(V) Outcome[V]) Outcome[V] {
	return Bind(o, f)
}

// Tee evaluates f with the success value for its side effects only.
// A failure returned by f replaces the Outcome; otherwise the original
// success is kept and f's value is discarded.
func (o Outcome[V]) Tee(f func(V) Outcome[any]) Outcome[V] {
	return Tee(o, f)
}

// String implements fmt.Stringer.
func (o Outcome[V]) String() string {
	if o.err != nil {
		return fmt.Sprintf("Err(%v)", o.err)
	}
	return fmt.Sprintf("Ok(%v)", o.value)
}

// erase lets Wrap recognize an Outcome of any type parameter.
func (o Outcome[V]) erase() Outcome[any] {
	if o.err != nil {
		return Outcome[any]{err: o.err}
	}
	return Outcome[any]{value: o.value}
}

type erasable interface {
	erase() Outcome[any]
}

// Bind is the type-changing form of Then.
func Bind[V, W any](o Outcome[V], f func(V) Outcome[W]) Outcome[W] {
	if o.err != nil {
		return Outcome[W]{err: o.err}
	}
	return f(o.value)
}

// Tee is the generic form of Outcome.Tee; f may return an Outcome of any type.
func Tee[V, W any](o Outcome[V], f func(V) Outcome[W]) Outcome[V] {
	if o.err != nil {
		return o
	}
	if r := f(o.value); r.err != nil {
		return Outcome[V]{err: r.err}
	}
	return o
}

// Map applies a function that cannot fail to the success value.
func Map[V, W any](o Outcome[V], f func(V) W) Outcome[W] {
	if o.err != nil {
		return Outcome[W]{err: o.err}
	}
	return Ok(f(o.value))
}

// Wrap normalizes a step's return value. An Outcome of any type parameter is
// returned as itself (its *Error is carried by pointer); any other value,
// including nil, becomes Ok(x). Wrap is the only place where raw values are
// promoted to Outcomes.
func Wrap(x any) Outcome[any] {
	if o, ok := x.(erasable); ok {
		return o.erase()
	}
	return Ok(x)
}

// Erase converts a typed Outcome into an Outcome[any] without changing its
// variant.
func Erase[V any](o Outcome[V]) Outcome[any] {
	return o.erase()
}

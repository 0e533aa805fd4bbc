package pathway

import (
	"context"
	"reflect"
)

// Success wraps v as a successful Outcome for use inside step bodies.
func Success(v any) Outcome[any] {
	return Ok(v)
}

// Failure wraps e as a failed Outcome for use inside step bodies.
func Failure(e *Error) Outcome[any] {
	return Err[any](e)
}

// Fail builds an Error and wraps it as a failed Outcome.
func Fail(kind Kind, message string, details any) Outcome[any] {
	return Err[any](NewError(kind, message, details))
}

// WrapIfPresent returns Success(value) when value is present, otherwise a
// failure of the given kind. Nil interfaces and nil pointers, maps, slices,
// channels and funcs count as absent. An empty kind means KindNotFound.
//
//	b.Set("load-user", "user", func(ctx context.Context, s *pathway.State) pathway.Outcome[any] {
//	    return pathway.WrapIfPresent(users[s.Get("id").(int)], "", "user not found", nil)
//	})
func WrapIfPresent(value any, kind Kind, message string, details any) Outcome[any] {
	if isAbsent(value) {
		if kind == "" {
			kind = KindNotFound
		}
		return Fail(kind, message, details)
	}
	return Ok(value)
}

func isAbsent(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// Value adapts a function returning either a plain value or an Outcome.
// The return value is normalized with Wrap.
func Value(fn func(context.Context, *State) any) Body {
	return func(ctx context.Context, s *State) Outcome[any] {
		return Wrap(fn(ctx, s))
	}
}

// Check adapts a validation function. A nil *Error is a success.
func Check(fn func(context.Context, *State) *Error) Body {
	return func(ctx context.Context, s *State) Outcome[any] {
		if e := fn(ctx, s); e != nil {
			return Err[any](e)
		}
		return Ok[any](nil)
	}
}

// Try adapts a function following Go's (value, error) convention.
// A returned error becomes a failure through FromError.
func Try(fn func(context.Context, *State) (any, error)) Body {
	return func(ctx context.Context, s *State) Outcome[any] {
		v, err := fn(ctx, s)
		if err != nil {
			return Err[any](FromError(err))
		}
		return Ok(v)
	}
}

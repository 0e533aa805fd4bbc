package pathway

import (
	"context"
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

// A failing step at position k stops the pipeline: steps k+1..n never run
// and the caller receives the identical *Error.
func TestPropertyShortCircuit(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(t, "n")
		k := rapid.IntRange(1, n).Draw(t, "k")
		failure := NewError(Kind(rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "kind")), "", nil)

		ran := make([]bool, n+1)
		def := MustDefine("property-short-circuit", func(b *Builder) {
			for i := 1; i <= n; i++ {
				b.Step(fmt.Sprintf("s%d", i), func(context.Context, *State) Outcome[any] {
					ran[i] = true
					if i == k {
						return Failure(failure)
					}
					return Ok[any](i)
				})
			}
		})
		defer def.Close()

		out := def.Call(context.Background(), nil)
		if out.IsOk() || out.Err() != failure {
			t.Fatalf("expected identical failure, got %v", out)
		}
		for i := 1; i <= n; i++ {
			if want := i <= k; ran[i] != want {
				t.Fatalf("step %d ran=%v, want %v", i, ran[i], want)
			}
		}
	})
}

// A sequential step never changes the State it observes.
func TestPropertyTee(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.Int().Draw(t, "input")
		noise := rapid.Int().Draw(t, "noise")

		def := MustDefine("property-tee", func(b *Builder) {
			b.Step("noise", func(context.Context, *State) Outcome[any] { return Ok[any](noise) })
		}, WithResultKey(InputKey))
		defer def.Close()

		if got := def.Call(context.Background(), input).Value(); got != input {
			t.Fatalf("expected %d, got %v", input, got)
		}
	})
}

// An assignment step stores exactly the body's value under its key, and
// repeating it with the same value changes nothing.
func TestPropertyAssignment(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		key := rapid.StringMatching(`[a-z]{1,6}`).Draw(t, "key")
		value := rapid.String().Draw(t, "value")
		repeats := rapid.IntRange(1, 3).Draw(t, "repeats")

		def := MustDefine("property-assign", func(b *Builder) {
			for i := 0; i < repeats; i++ {
				b.Set(fmt.Sprintf("assign-%d", i), key, Value(func(context.Context, *State) any { return value }))
			}
		}, WithResultKey(key))
		defer def.Close()

		if got := def.Call(context.Background(), nil).Value(); got != value {
			t.Fatalf("expected %q, got %v", value, got)
		}
	})
}

// A subtype inherits the result key unless it overrides it.
func TestPropertyResultKeyInheritance(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		parentKey := rapid.StringMatching(`[a-z]{1,6}`).Draw(t, "parent")
		override := rapid.Bool().Draw(t, "override")

		parent := MustDefine("property-parent", func(*Builder) {}, WithResultKey(parentKey))
		defer parent.Close()

		var opts []Option
		want := parentKey
		if override {
			want = rapid.StringMatching(`[A-Z]{1,6}`).Draw(t, "child")
			opts = append(opts, WithResultKey(want))
		}
		child, err := parent.Extend("property-child", nil, opts...)
		if err != nil {
			t.Fatalf("extend failed: %v", err)
		}
		defer child.Close()

		if child.ResultKey() != want {
			t.Fatalf("expected %q, got %q", want, child.ResultKey())
		}
	})
}

// Bind and Tee on a failure never invoke their function and forward the
// failure unchanged.
func TestPropertyFailureForwarding(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		failure := NewError(KindError, rapid.String().Draw(t, "message"), nil)
		o := Err[int](failure)

		called := false
		bound := Bind(o, func(int) Outcome[string] {
			called = true
			return Ok("")
		})
		teed := Tee(o, func(int) Outcome[any] {
			called = true
			return Ok[any](nil)
		})
		if called {
			t.Fatal("function invoked on failure")
		}
		if bound.Err() != failure || teed.Err() != failure {
			t.Fatal("failure identity not preserved")
		}
	})
}

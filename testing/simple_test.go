package testing

import (
	"context"
	"testing"

	"github.com/diegodhh/pathway"
)

// Simple test to verify the testing infrastructure works.
func TestSimpleInfrastructure(t *testing.T) {
	ctx := context.Background()

	def := pathway.MustDefine("simple", func(b *pathway.Builder) {
		b.Set("add10", "sum", pathway.Value(func(_ context.Context, s *pathway.State) any {
			return s.Get(pathway.InputKey).(int) + 10
		}))
		b.SetResult("double", pathway.Value(func(_ context.Context, s *pathway.State) any {
			return s.Get("sum").(int) * 2
		}))
	})
	defer def.Close()

	out := def.Call(ctx, 1)
	v, err := out.Unwrap()
	if err != nil {
		t.Fatalf("definition failed: %v", err)
	}

	expected := 22 // (1 + 10) * 2
	if v != expected {
		t.Errorf("expected %d, got %v", expected, v)
	}
}

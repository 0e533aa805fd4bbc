package testing

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diegodhh/pathway"
)

func TestMockBody(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns Configured Value", func(t *testing.T) {
		mock := NewMockBody(t, "mock-value").WithReturn("mocked")

		out := mock.Body()(ctx, pathway.NewState("", nil, "input"))
		require.True(t, out.IsOk())
		assert.Equal(t, "mocked", out.Value())
	})

	t.Run("Returns Configured Failure", func(t *testing.T) {
		failure := pathway.NewError(pathway.KindInvalid, "bad", nil)
		mock := NewMockBody(t, "mock-failure").WithFailure(failure)

		out := mock.Body()(ctx, pathway.NewState("", nil, nil))
		require.True(t, out.IsErr())
		assert.Same(t, failure, out.Err())
	})

	t.Run("Tracks Calls And State", func(t *testing.T) {
		mock := NewMockBody(t, "mock-count")
		body := mock.Body()
		for i := 0; i < 5; i++ {
			body(ctx, pathway.NewState("", nil, i))
		}

		assert.Equal(t, 5, mock.CallCount())
		assert.Equal(t, 4, mock.LastState()[pathway.InputKey])
		assert.Len(t, mock.CallHistory(), 5)
	})

	t.Run("State Snapshot Is Isolated", func(t *testing.T) {
		mock := NewMockBody(t, "mock-snapshot")
		s := pathway.NewState("", nil, "first")
		mock.Body()(ctx, s)
		s.Set(pathway.InputKey, "changed")

		assert.Equal(t, "first", mock.LastState()[pathway.InputKey])
	})

	t.Run("History Size", func(t *testing.T) {
		mock := NewMockBody(t, "mock-history").WithHistorySize(2)
		for i := 0; i < 4; i++ {
			mock.Body()(ctx, pathway.NewState("", nil, i))
		}
		history := mock.CallHistory()
		require.Len(t, history, 2)
		assert.Equal(t, 2, history[0].State[pathway.InputKey])

		mock.WithHistorySize(0)
		assert.Nil(t, mock.CallHistory())
	})

	t.Run("Panics", func(t *testing.T) {
		mock := NewMockBody(t, "mock-panic").WithPanic("boom")
		assert.PanicsWithValue(t, "boom", func() {
			mock.Body()(ctx, pathway.NewState("", nil, nil))
		})
	})

	t.Run("Reset", func(t *testing.T) {
		mock := NewMockBody(t, "mock-reset")
		mock.Body()(ctx, pathway.NewState("", nil, nil))
		mock.Reset()

		assert.Equal(t, 0, mock.CallCount())
		assert.Nil(t, mock.LastState())
	})

	t.Run("Records Call ID Inside Definitions", func(t *testing.T) {
		mock := NewMockBody(t, "mock-call-id")
		def := pathway.MustDefine("call-id", func(b *pathway.Builder) {
			b.Step("mock", mock.Body())
		})
		defer def.Close()

		def.Call(ctx, nil)
		history := mock.CallHistory()
		require.Len(t, history, 1)
		assert.NotEmpty(t, history[0].CallID)
	})
}

func TestAssertions(t *testing.T) {
	ctx := context.Background()

	t.Run("Success And Calls", func(t *testing.T) {
		first := NewMockBody(t, "first").WithReturn(1)
		second := NewMockBody(t, "second").WithReturn(2)

		def := pathway.MustDefine("assertions", func(b *pathway.Builder) {
			b.Set("first", "first", first.Body())
			b.SetResult("second", second.Body())
		})
		defer def.Close()

		out := def.Call(ctx, "in")
		AssertSuccess(t, out, any(2))
		AssertCalled(t, first, 1)
		AssertCalled(t, second, 1)
		AssertCalledWith(t, second, "first", 1)
	})

	t.Run("Failure Skips Later Steps", func(t *testing.T) {
		gate := NewMockBody(t, "gate").WithFailure(pathway.NewError(pathway.KindForbidden, "", nil))
		after := NewMockBody(t, "after")

		def := pathway.MustDefine("failure", func(b *pathway.Builder) {
			b.Step("gate", gate.Body())
			b.Step("after", after.Body())
		})
		defer def.Close()

		failure := AssertFailure(t, def.Call(ctx, nil), pathway.KindForbidden)
		assert.NotNil(t, failure)
		AssertNotCalled(t, after)
	})
}

func TestChaosBody(t *testing.T) {
	ctx := context.Background()
	inner := NewMockBody(t, "inner").WithReturn("ok")

	t.Run("Always Fails", func(t *testing.T) {
		chaos := NewChaosBody("chaos", inner.Body(), ChaosConfig{FailureRate: 1, Seed: 7})
		out := chaos.Body()(ctx, pathway.NewState("", nil, nil))

		require.True(t, out.IsErr())
		assert.Equal(t, ChaosKind, out.Err().Kind)
		assert.Equal(t, int64(1), chaos.Stats().FailedCalls)
	})

	t.Run("Never Fails", func(t *testing.T) {
		chaos := NewChaosBody("calm", inner.Body(), ChaosConfig{Seed: 7})
		for i := 0; i < 10; i++ {
			out := chaos.Body()(ctx, pathway.NewState("", nil, nil))
			require.True(t, out.IsOk())
		}
		stats := chaos.Stats()
		assert.Equal(t, int64(10), stats.TotalCalls)
		assert.Zero(t, stats.FailureRate())
		assert.Contains(t, stats.String(), "Total: 10")
	})

	t.Run("Panics", func(t *testing.T) {
		chaos := NewChaosBody("panic", inner.Body(), ChaosConfig{PanicRate: 1, Seed: 7})
		assert.Panics(t, func() {
			chaos.Body()(ctx, pathway.NewState("", nil, nil))
		})
		assert.Equal(t, 1.0, chaos.Stats().PanicRate())
	})
}

func TestParallelTest(t *testing.T) {
	var mu sync.Mutex
	seen := map[int]bool{}
	ParallelTest(t, 8, func(id int) {
		mu.Lock()
		seen[id] = true
		mu.Unlock()
	})
	assert.Len(t, seen, 8)
}

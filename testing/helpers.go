// Package testing provides test utilities and helpers for pathway-based
// applications.
//
// This package includes mock step bodies, outcome assertions and chaos
// helpers to make testing pathway definitions easier.
//
// Example usage:
//
//	func TestSignup(t *testing.T) {
//		save := ptesting.NewMockBody(t, "save").WithReturn("user-1")
//
//		def := pathway.MustDefine("signup", func(b *pathway.Builder) {
//			b.SetResult("save", save.Body())
//		})
//		out := def.Call(context.Background(), form)
//
//		ptesting.AssertSuccess(t, out, "user-1")
//		ptesting.AssertCalled(t, save, 1)
//	}
package testing

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mathrand "math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/diegodhh/pathway"
)

// MockBody provides a configurable step body. It records every call with a
// snapshot of the State it received, and returns the configured value or
// failure.
type MockBody struct { //nolint:govet // fieldalignment: Test helper struct optimized for functionality over memory efficiency
	t           *testing.T
	name        string
	callCount   int64
	returnVal   any
	returnErr   *pathway.Error
	panicMsg    string
	mu          sync.RWMutex
	callHistory []MockCall
	maxHistory  int
}

// MockCall represents a single call to the mock body.
type MockCall struct {
	State     map[pathway.Key]any
	Timestamp time.Time
	CallID    string
}

// NewMockBody creates a new mock body for testing. By default it succeeds
// with a nil value.
func NewMockBody(t *testing.T, name string) *MockBody {
	return &MockBody{
		t:          t,
		name:       name,
		maxHistory: 100, // Keep last 100 calls by default
	}
}

// WithReturn configures the mock to succeed with val.
func (m *MockBody) WithReturn(val any) *MockBody {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.returnVal = val
	m.returnErr = nil
	return m
}

// WithFailure configures the mock to fail with e.
func (m *MockBody) WithFailure(e *pathway.Error) *MockBody {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.returnErr = e
	return m
}

// WithPanic configures the mock to panic with a specific message.
func (m *MockBody) WithPanic(msg string) *MockBody {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panicMsg = msg
	return m
}

// WithHistorySize configures how many calls to keep in history.
// Set to 0 to disable history tracking.
func (m *MockBody) WithHistorySize(size int) *MockBody {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxHistory = size
	if size == 0 {
		m.callHistory = nil
	} else if len(m.callHistory) > size {
		m.callHistory = m.callHistory[len(m.callHistory)-size:]
	}
	return m
}

// Name returns the name of the mock.
func (m *MockBody) Name() pathway.Name {
	return m.name
}

// Body returns the mock as a step body.
func (m *MockBody) Body() pathway.Body {
	return m.call
}

func (m *MockBody) call(ctx context.Context, s *pathway.State) pathway.Outcome[any] {
	atomic.AddInt64(&m.callCount, 1)

	m.mu.Lock()
	if m.maxHistory > 0 {
		call := MockCall{
			State:     s.Snapshot(),
			Timestamp: time.Now(),
		}
		if id, ok := pathway.CallID(ctx); ok {
			call.CallID = id.String()
		}
		m.callHistory = append(m.callHistory, call)
		if len(m.callHistory) > m.maxHistory {
			m.callHistory = m.callHistory[1:] // Remove oldest
		}
	}
	returnVal := m.returnVal
	returnErr := m.returnErr
	panicMsg := m.panicMsg
	m.mu.Unlock()

	if panicMsg != "" {
		panic(panicMsg)
	}
	if returnErr != nil {
		return pathway.Failure(returnErr)
	}
	return pathway.Success(returnVal)
}

// CallCount returns the number of times the body has been called.
func (m *MockBody) CallCount() int {
	return int(atomic.LoadInt64(&m.callCount))
}

// LastState returns the State snapshot from the most recent call.
func (m *MockBody) LastState() map[pathway.Key]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.callHistory) == 0 {
		return nil
	}
	return m.callHistory[len(m.callHistory)-1].State
}

// CallHistory returns a copy of all recorded calls.
func (m *MockBody) CallHistory() []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.maxHistory == 0 {
		return nil
	}
	history := make([]MockCall, len(m.callHistory))
	copy(history, m.callHistory)
	return history
}

// Reset clears all call tracking.
func (m *MockBody) Reset() {
	atomic.StoreInt64(&m.callCount, 0)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callHistory = nil
}

// Assertion Helpers

// AssertSuccess verifies that o succeeded with want.
func AssertSuccess[V comparable](t *testing.T, o pathway.Outcome[V], want V) {
	t.Helper()
	got, ok := o.Get()
	if !ok {
		t.Errorf("expected success %v, got failure %v", want, o.Err())
		return
	}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// AssertFailure verifies that o failed with the given kind and returns the
// failure for further checks.
func AssertFailure[V any](t *testing.T, o pathway.Outcome[V], kind pathway.Kind) *pathway.Error {
	t.Helper()
	if o.IsOk() {
		t.Errorf("expected %s failure, got success %v", kind, o.Value())
		return nil
	}
	failure := o.Err()
	if failure.Kind != kind {
		t.Errorf("expected kind %s, got %s", kind, failure.Kind)
	}
	return failure
}

// AssertCalled verifies that a mock body was called exactly n times.
func AssertCalled(t *testing.T, mock *MockBody, expectedCalls int) {
	t.Helper()
	if got := mock.CallCount(); got != expectedCalls {
		t.Errorf("mock %s: expected %d calls, got %d", mock.Name(), expectedCalls, got)
	}
}

// AssertNotCalled verifies that a mock body was never called.
func AssertNotCalled(t *testing.T, mock *MockBody) {
	t.Helper()
	AssertCalled(t, mock, 0)
}

// AssertCalledWith verifies that the last call saw value under key.
func AssertCalledWith(t *testing.T, mock *MockBody, key pathway.Key, value any) {
	t.Helper()
	state := mock.LastState()
	if state == nil {
		t.Errorf("mock %s: never called", mock.Name())
		return
	}
	got, ok := state[key]
	if !ok {
		t.Errorf("mock %s: key %q absent from state", mock.Name(), key)
		return
	}
	if got != value {
		t.Errorf("mock %s: expected %s=%v, got %v", mock.Name(), key, value, got)
	}
}

// ChaosBody wraps a step body and randomly injects failures and panics.
type ChaosBody struct { //nolint:govet // fieldalignment: Test helper struct optimized for functionality over memory efficiency
	name        string
	wrapped     pathway.Body
	failureRate float64
	panicRate   float64
	rng         *mathrand.Rand
	mu          sync.Mutex
	totalCalls  int64
	failedCalls int64
	panicCalls  int64
}

// ChaosConfig holds configuration for chaos testing.
type ChaosConfig struct {
	FailureRate float64 // Probability of failing (0.0 to 1.0)
	PanicRate   float64 // Probability of panicking (0.0 to 1.0)
	Seed        int64   // Random seed for reproducible chaos (0 for random seed)
}

// ChaosKind is the failure kind produced by ChaosBody.
const ChaosKind pathway.Kind = "chaos"

// NewChaosBody creates a chaos body that wraps another body.
func NewChaosBody(name string, wrapped pathway.Body, config ChaosConfig) *ChaosBody {
	seed := config.Seed
	if seed == 0 {
		var seedBytes [8]byte
		if _, err := rand.Read(seedBytes[:]); err != nil {
			seed = time.Now().UnixNano()
		} else {
			seed = int64(binary.BigEndian.Uint64(seedBytes[:])) //nolint:gosec // G115: any bit pattern is a valid seed
		}
	}

	return &ChaosBody{
		name:        name,
		wrapped:     wrapped,
		failureRate: config.FailureRate,
		panicRate:   config.PanicRate,
		rng:         mathrand.New(mathrand.NewSource(seed)), //nolint:gosec // G404: Test utility uses weak RNG for deterministic chaos scenarios
	}
}

// Body returns the chaos wrapper as a step body.
func (c *ChaosBody) Body() pathway.Body {
	return func(ctx context.Context, s *pathway.State) pathway.Outcome[any] {
		atomic.AddInt64(&c.totalCalls, 1)

		c.mu.Lock()
		if c.rng.Float64() < c.panicRate {
			c.mu.Unlock()
			atomic.AddInt64(&c.panicCalls, 1)
			panic("chaos body induced panic")
		}
		injectFailure := c.rng.Float64() < c.failureRate
		c.mu.Unlock()

		out := c.wrapped(ctx, s)
		if injectFailure && out.IsOk() {
			atomic.AddInt64(&c.failedCalls, 1)
			return pathway.Fail(ChaosKind, c.name+" induced failure", nil)
		}
		return out
	}
}

// Stats returns statistics about chaos injection.
func (c *ChaosBody) Stats() ChaosStats {
	return ChaosStats{
		TotalCalls:  atomic.LoadInt64(&c.totalCalls),
		FailedCalls: atomic.LoadInt64(&c.failedCalls),
		PanicCalls:  atomic.LoadInt64(&c.panicCalls),
	}
}

// ChaosStats holds statistics about chaos injection.
type ChaosStats struct {
	TotalCalls  int64
	FailedCalls int64
	PanicCalls  int64
}

// FailureRate returns the actual failure rate observed.
func (s ChaosStats) FailureRate() float64 {
	if s.TotalCalls == 0 {
		return 0
	}
	return float64(s.FailedCalls) / float64(s.TotalCalls)
}

// PanicRate returns the actual panic rate observed.
func (s ChaosStats) PanicRate() float64 {
	if s.TotalCalls == 0 {
		return 0
	}
	return float64(s.PanicCalls) / float64(s.TotalCalls)
}

// String returns a human-readable representation of the stats.
func (s ChaosStats) String() string {
	return fmt.Sprintf("ChaosStats{Total: %d, Failed: %d (%.1f%%), Panics: %d (%.1f%%)}",
		s.TotalCalls, s.FailedCalls, s.FailureRate()*100,
		s.PanicCalls, s.PanicRate()*100)
}

// Helper Functions

// ParallelTest runs a test function in parallel with multiple goroutines.
// Useful for checking that a definition is safe for concurrent calls.
func ParallelTest(t *testing.T, goroutines int, testFunc func(int)) {
	t.Helper()
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			testFunc(id)
		}(i)
	}
	wg.Wait()
}

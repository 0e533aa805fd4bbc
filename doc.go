// Package pathway composes ordered business-logic steps into a single
// synchronous pipeline that produces either a final value or a structured
// error, stopping at the first failure.
//
// # Overview
//
// A pipeline is declared once with Define. The setup function receives a
// Builder and registers steps in order; the resulting Definition is read-only
// and safe to share between goroutines. Each Call builds a fresh State from the
// definition context and the caller's input, runs the steps, and projects the
// value stored at the result key:
//
//	adult := pathway.MustDefine("adult-check", func(b *pathway.Builder) {
//	    b.Set("age", "age", pathway.Value(func(_ context.Context, s *pathway.State) any {
//	        return s.Get(pathway.InputKey).(Person).Age
//	    }))
//	    b.Step("check-age", pathway.Check(func(_ context.Context, s *pathway.State) *pathway.Error {
//	        if s.Get("age").(int) < 18 {
//	            return pathway.NewError("underage", "", nil)
//	        }
//	        return nil
//	    }))
//	}, pathway.WithResultKey("age"))
//
//	out := adult.Call(ctx, Person{Age: 20}) // Ok(20)
//
// # Composition Primitives
//
// Four primitives make up every pipeline:
//
//   - Step: runs a body for its side effects or validation. The body's value
//     is discarded; only a failure is observed.
//   - Set: stores the body's value under a key (the result key by default).
//   - Map: replaces the whole State with the one returned by the body.
//   - Around: hands a Continuation over a nested step list to a Controller,
//     which decides whether and how often it runs. If and Unless are the
//     common predicate forms.
//
// Once any step fails, the remaining steps are skipped and the failure is
// returned unchanged, including its pointer identity.
//
// # Failures
//
// Failures are business outcomes, represented as *Error values with a Kind,
// an optional message and optional details. Panics inside step bodies are
// not recovered; they propagate to the caller of Call.
//
// # Plugins
//
// Capabilities are composed ahead of time. A Plugin is attached with
// WithPlugins or resolved by name from a Registry with WithRegistry, and is
// fully installed before the setup function runs. Plugins may adjust the
// definition configuration (Installer), expose helpers to step bodies through
// the call context (Binder), and offer declaration helpers that take a
// *Builder.
//
// # Observability
//
// Every Definition owns a metricz registry, a tracez tracer and hookz hooks
// (OnStepComplete, OnCallComplete), and emits capitan signals when calls
// succeed or fail.
package pathway

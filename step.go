package pathway

import "context"

// Step declares a sequential step. The body runs for validation or side
// effects: when it succeeds its value is discarded and the State is left
// exactly as it was; when it fails the pipeline stops with that failure.
//
// Example:
//
//	b.Step("audit", func(ctx context.Context, s *pathway.State) pathway.Outcome[any] {
//	    auditLog.Record(ctx, s.Get(pathway.InputKey))
//	    return pathway.Success(nil)
//	})
func (b *Builder) Step(name Name, body Body) *Builder {
	if body == nil {
		b.fail(name, ErrNilBody)
		return b
	}
	return b.add(Step{name: name, typ: TypeStep, body: body})
}

func (e *executor) tee(ctx context.Context, step *Step) {
	e.outcome = Tee(e.outcome, func(s *State) Outcome[any] {
		return step.body(ctx, s)
	})
}

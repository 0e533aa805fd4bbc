package pathway

import "context"

// Around declares a conditional sub-sequence. The nested steps declared by
// setup are not run directly: controller receives a Continuation and decides
// whether, and how many times, to invoke it.
//
// Each invocation forks a new executor seeded with a copy of the State as it
// was when the Around step started, so the nested steps never touch the
// parent State. The Outcome of the last invocation becomes the running
// outcome; when the continuation is never invoked the outcome is unchanged.
// A non-nil *Error returned by the controller fails the pipeline.
//
// Example - run the nested steps inside a transaction:
//
//	b.Around("transaction", func(ctx context.Context, _ *pathway.State, next pathway.Continuation) *pathway.Error {
//	    tx := db.Begin(ctx)
//	    if out := next(); out.IsErr() {
//	        tx.Rollback()
//	        return nil
//	    }
//	    if err := tx.Commit(); err != nil {
//	        return pathway.FromError(err)
//	    }
//	    return nil
//	}, func(b *pathway.Builder) {
//	    b.Set("create-order", "order", createOrder)
//	    b.Step("reserve-stock", reserveStock)
//	})
func (b *Builder) Around(name Name, controller Controller, setup func(*Builder)) *Builder {
	if controller == nil {
		b.fail(name, ErrNilController)
		return b
	}
	if setup == nil {
		b.fail(name, ErrNilSetup)
		return b
	}
	nested := b.child()
	setup(nested)
	b.errs = append(b.errs, nested.errs...)
	return b.add(Step{name: name, typ: TypeAround, controller: controller, steps: nested.steps})
}

// If declares nested steps that run once when pred holds.
func (b *Builder) If(name Name, pred Predicate, setup func(*Builder)) *Builder {
	if pred == nil {
		b.fail(name, ErrNilPredicate)
		return b
	}
	return b.Around(name, When(pred), setup)
}

// Unless declares nested steps that run once when pred does not hold.
func (b *Builder) Unless(name Name, pred Predicate, setup func(*Builder)) *Builder {
	if pred == nil {
		b.fail(name, ErrNilPredicate)
		return b
	}
	return b.Around(name, Unless(pred), setup)
}

func (e *executor) around(ctx context.Context, step *Step) {
	e.outcome = Bind(e.outcome, func(s *State) Outcome[*State] {
		last := Ok(s)
		seed := s.Clone()
		next := func() Outcome[*State] {
			last = e.fork(seed.Clone()).run(ctx, step.steps)
			return last
		}
		if failure := step.controller(ctx, s, next); failure != nil {
			return Err[*State](failure)
		}
		return last
	})
}

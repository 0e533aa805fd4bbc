package pathway

import "context"

// When returns a Controller that runs the continuation once if pred holds.
func When(pred Predicate) Controller {
	return func(ctx context.Context, s *State, next Continuation) *Error {
		if pred(ctx, s) {
			next()
		}
		return nil
	}
}

// Unless returns a Controller that runs the continuation once if pred does
// not hold.
func Unless(pred Predicate) Controller {
	return func(ctx context.Context, s *State, next Continuation) *Error {
		if !pred(ctx, s) {
			next()
		}
		return nil
	}
}

// Retry returns a Controller that invokes the continuation up to attempts
// times, stopping at the first success. Every attempt starts from the same
// copy of the State; the last attempt's Outcome is kept, so a pipeline whose
// attempts all fail stops with the final failure.
//
// The context is checked between attempts and retrying stops early once it
// is done.
//
// Example:
//
//	b.Around("charge", pathway.Retry(3), func(b *pathway.Builder) {
//	    b.Set("charge-card", "charge", chargeCard)
//	})
func Retry(attempts int) Controller {
	if attempts < 1 {
		attempts = 1
	}
	return func(ctx context.Context, _ *State, next Continuation) *Error {
		for i := 0; i < attempts; i++ {
			if next().IsOk() {
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
		}
		return nil
	}
}

package pathway

import "context"

// Set declares an assignment step. On success the body's value is stored in
// the State under key; an empty key means the definition's result key, which
// is resolved when the step is declared.
//
// Example:
//
//	b.Set("load-order", "order", pathway.Try(func(ctx context.Context, s *pathway.State) (any, error) {
//	    return orders.Find(ctx, s.Get("order_id").(string))
//	}))
func (b *Builder) Set(name Name, key Key, body Body) *Builder {
	if body == nil {
		b.fail(name, ErrNilBody)
		return b
	}
	if key == "" {
		key = b.resultKey
	}
	return b.add(Step{name: name, typ: TypeSet, key: key, body: body})
}

// SetResult declares an assignment step targeting the result key.
func (b *Builder) SetResult(name Name, body Body) *Builder {
	return b.Set(name, "", body)
}

// assign binds the running State to the body and merges {key: value} into
// it. A success carrying another Outcome is flattened first. The State is
// updated in place: a call owns its State exclusively.
func (e *executor) assign(ctx context.Context, step *Step) {
	e.outcome = Bind(e.outcome, func(s *State) Outcome[*State] {
		return Bind(step.body(ctx, s), func(v any) Outcome[*State] {
			return Map(Wrap(v), func(flat any) *State {
				return s.Set(step.key, flat)
			})
		})
	})
}

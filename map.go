package pathway

import (
	"context"
	"fmt"
)

// Map declares a replacement step. The Outcome returned by the body becomes
// the running outcome as-is, which lets a step rewrite several keys at once
// or substitute the whole State.
//
// Example:
//
//	b.Map("switch-to-account", func(_ context.Context, s *pathway.State) pathway.Outcome[*pathway.State] {
//	    account := s.Get("account").(Account)
//	    return pathway.Ok(s.Swap(map[pathway.Key]any{"input": account, "owner": account.Owner}))
//	})
func (b *Builder) Map(name Name, body MapBody) *Builder {
	if body == nil {
		b.fail(name, ErrNilBody)
		return b
	}
	return b.add(Step{name: name, typ: TypeMap, mapBody: body})
}

func (e *executor) replace(ctx context.Context, step *Step) {
	e.outcome = Bind(e.outcome, func(s *State) Outcome[*State] {
		out := step.mapBody(ctx, s)
		if out.IsOk() && out.value == nil {
			panic(fmt.Sprintf("pathway: map step %q returned a nil *State", step.name))
		}
		return out
	})
}

package pathway

import "context"

// Name is used for definitions, steps and plugins.
// Storing names as constants keeps events and schemas greppable.
type Name = string

// StepType discriminates the composition primitives.
type StepType string

// Step types.
const (
	TypeStep   StepType = "step"
	TypeSet    StepType = "set"
	TypeMap    StepType = "map"
	TypeAround StepType = "around"
)

// Body is the work performed by Step and Set. Its Outcome decides whether
// the pipeline continues; for Set, its value is stored in the State.
// Use Value, Check or Try to adapt plain Go functions.
type Body func(context.Context, *State) Outcome[any]

// MapBody is the work performed by Map. The returned Outcome becomes the
// running outcome verbatim.
type MapBody func(context.Context, *State) Outcome[*State]

// Continuation runs the nested steps of an Around step against a copy of
// the State and returns their final Outcome.
type Continuation func() Outcome[*State]

// Controller governs an Around step. It may invoke next zero or more times;
// the Outcome of the last invocation becomes the running outcome. Returning
// a non-nil *Error fails the pipeline with it.
type Controller func(ctx context.Context, s *State, next Continuation) *Error

// Predicate inspects the State to drive If and Unless.
type Predicate func(context.Context, *State) bool

// Step is one declared unit of pipeline work. Steps are created by a
// Builder and are immutable once the Definition is built.
type Step struct {
	body       Body
	mapBody    MapBody
	controller Controller
	name       Name
	typ        StepType
	key        Key
	steps      []Step
}

// Name returns the step name.
func (s Step) Name() Name {
	return s.name
}

// Type returns the primitive this step uses.
func (s Step) Type() StepType {
	return s.typ
}

// Key returns the destination key of a Set step, or "" for other types.
func (s Step) Key() Key {
	return s.key
}

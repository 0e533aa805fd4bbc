package pathway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability constants for pipeline execution.
const (
	// Metrics.
	CallsTotal     = metricz.Key("pathway.calls.total")
	SuccessesTotal = metricz.Key("pathway.successes.total")
	FailuresTotal  = metricz.Key("pathway.failures.total")
	StepsTotal     = metricz.Key("pathway.steps.total")
	StepsSkipped   = metricz.Key("pathway.steps.skipped")
	DurationMs     = metricz.Key("pathway.duration.ms")

	// Spans.
	CallSpan = tracez.Key("pathway.call")
	StepSpan = tracez.Key("pathway.step")

	// Tags.
	TagDefinition = tracez.Tag("pathway.definition")
	TagCallID     = tracez.Tag("pathway.call_id")
	TagStep       = tracez.Tag("pathway.step")
	TagStepType   = tracez.Tag("pathway.step_type")
	TagStepNumber = tracez.Tag("pathway.step_number")
	TagDepth      = tracez.Tag("pathway.depth")
	TagSuccess    = tracez.Tag("pathway.success")
	TagKind       = tracez.Tag("pathway.kind")

	// Hook event keys.
	EventStepComplete = hookz.Key("pathway.step_complete")
	EventCallComplete = hookz.Key("pathway.call_complete")
)

// Event describes a completed step or call. It is delivered asynchronously
// to handlers registered with OnStepComplete and OnCallComplete.
type Event struct {
	Timestamp  time.Time     // When the event occurred
	Error      *Error        // Failure, if any
	Definition Name          // Definition name
	Step       Name          // Step name (step events only)
	Type       StepType      // Step type (step events only)
	CallID     uuid.UUID     // Call the event belongs to
	Number     int           // 1-based position among its siblings
	Depth      int           // 0 for top-level steps, +1 per Around
	Steps      int           // Steps executed by the call (call events only)
	Duration   time.Duration // Time spent in the step or call
	Success    bool          // Whether the outcome is a success
}

// executor interprets a step list against a running outcome.
// One executor exists per call, plus one per Around continuation.
type executor struct {
	def      *Definition
	outcome  Outcome[*State]
	callID   uuid.UUID
	depth    int
	executed *int
}

func (e *executor) run(ctx context.Context, steps []Step) Outcome[*State] {
	for i := range steps {
		e.apply(ctx, &steps[i], i+1)
	}
	return e.outcome
}

// fork creates a child executor for an Around continuation.
func (e *executor) fork(seed *State) *executor {
	return &executor{
		def:      e.def,
		outcome:  Ok(seed),
		callID:   e.callID,
		depth:    e.depth + 1,
		executed: e.executed,
	}
}

func (e *executor) apply(ctx context.Context, step *Step, number int) {
	if e.outcome.IsErr() {
		e.def.metrics.Counter(StepsSkipped).Inc()
		return
	}

	ctx, span := e.def.tracer.StartSpan(ctx, StepSpan)
	span.SetTag(TagStep, step.name)
	span.SetTag(TagStepType, string(step.typ))
	span.SetTag(TagStepNumber, fmt.Sprintf("%d", number))
	span.SetTag(TagDepth, fmt.Sprintf("%d", e.depth))
	defer span.Finish()

	start := e.def.clock.Now()
	switch step.typ {
	case TypeStep:
		e.tee(ctx, step)
	case TypeSet:
		e.assign(ctx, step)
	case TypeMap:
		e.replace(ctx, step)
	case TypeAround:
		e.around(ctx, step)
	}
	duration := e.def.clock.Since(start)

	*e.executed++
	e.def.metrics.Counter(StepsTotal).Inc()

	event := Event{
		Definition: e.def.name,
		Step:       step.name,
		Type:       step.typ,
		CallID:     e.callID,
		Number:     number,
		Depth:      e.depth,
		Duration:   duration,
		Success:    e.outcome.IsOk(),
		Timestamp:  e.def.clock.Now(),
	}
	if e.outcome.IsOk() {
		span.SetTag(TagSuccess, "true")
	} else {
		failure := e.outcome.Err()
		event.Error = failure
		span.SetTag(TagSuccess, "false")
		span.SetTag(TagKind, string(failure.Kind))

		capitan.Warn(ctx, SignalStepFailed,
			FieldDefinition.Field(e.def.name),
			FieldCallID.Field(e.callID.String()),
			FieldStep.Field(step.name),
			FieldStepType.Field(string(step.typ)),
			FieldKind.Field(string(failure.Kind)),
			FieldMessage.Field(failure.Message),
		)
	}
	_ = e.def.hooks.Emit(ctx, EventStepComplete, event) //nolint:errcheck
}

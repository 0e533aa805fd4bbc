package pathway

import "github.com/zoobzio/capitan"

// Signal definitions for pathway events.
// Signals follow the pattern: pathway.<subject>.<event>.
var (
	SignalCallSucceeded = capitan.NewSignal(
		"pathway.call.succeeded",
		"Pipeline call completed every step and produced a value",
	)
	SignalCallFailed = capitan.NewSignal(
		"pathway.call.failed",
		"Pipeline call stopped at a failing step and returned its error",
	)
	SignalStepFailed = capitan.NewSignal(
		"pathway.step.failed",
		"A step produced a failure; remaining steps will be skipped",
	)
	SignalPluginInstalled = capitan.NewSignal(
		"pathway.plugin.installed",
		"A plugin was attached to a definition before declaration",
	)
)

// Field keys carried by pathway signals.
var (
	FieldDefinition = capitan.NewStringKey("definition") // Definition name
	FieldCallID     = capitan.NewStringKey("call_id")    // Per-call UUID
	FieldStep       = capitan.NewStringKey("step")       // Step name
	FieldStepType   = capitan.NewStringKey("step_type")  // step/set/map/around
	FieldKind       = capitan.NewStringKey("kind")       // Failure kind
	FieldMessage    = capitan.NewStringKey("message")    // Failure message
	FieldPlugin     = capitan.NewStringKey("plugin")     // Plugin name
	FieldSteps      = capitan.NewIntKey("steps")         // Steps executed
	FieldDuration   = capitan.NewFloat64Key("duration")  // Seconds
)

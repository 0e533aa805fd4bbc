package pathway

import (
	"context"

	"github.com/google/uuid"
)

// Plugin is a named capability bundle attached to a Definition before its
// steps are declared. A plugin may also implement Installer and Binder, and
// typically offers declaration helpers taking a *Builder.
type Plugin interface {
	Name() Name
}

// Installer is implemented by plugins that need one-time setup against the
// definition configuration, such as choosing a default result key.
// Install runs after options are applied and before the setup function, so
// plugins providing defaults should only fill fields that are still empty.
type Installer interface {
	Plugin
	Install(*Config) error
}

// Binder is implemented by plugins that expose per-call helpers to step
// bodies through the context passed to them.
type Binder interface {
	Plugin
	Bind(context.Context) context.Context
}

type scopeKey struct{}

// scope identifies the running call inside step bodies.
type scope struct {
	def *Definition
	id  uuid.UUID
}

func withScope(ctx context.Context, sc scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, sc)
}

func scopeFrom(ctx context.Context) (scope, bool) {
	sc, ok := ctx.Value(scopeKey{}).(scope)
	return sc, ok
}

// FromContext returns the plugin named name attached to the definition
// currently running, typed as P. Step bodies use it to reach plugin helpers:
//
//	func(ctx context.Context, s *pathway.State) pathway.Outcome[any] {
//	    auth, _ := pathway.FromContext[*pathway.Auth](ctx, pathway.AuthPluginName)
//	    ...
//	}
func FromContext[P Plugin](ctx context.Context, name Name) (P, bool) {
	var zero P
	sc, ok := scopeFrom(ctx)
	if !ok {
		return zero, false
	}
	p, ok := sc.def.plugins[name].(P)
	if !ok {
		return zero, false
	}
	return p, true
}

// CallID returns the identifier of the call running in ctx.
func CallID(ctx context.Context) (uuid.UUID, bool) {
	sc, ok := scopeFrom(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return sc.id, true
}

// DefinitionFrom returns the name of the definition running in ctx.
func DefinitionFrom(ctx context.Context) (Name, bool) {
	sc, ok := scopeFrom(ctx)
	if !ok {
		return "", false
	}
	return sc.def.name, true
}

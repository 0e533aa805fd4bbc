package pathway

import (
	"errors"
	"fmt"
)

// Declaration errors.
var (
	ErrNilBody       = errors.New("step body is nil")
	ErrNilController = errors.New("around controller is nil")
	ErrNilSetup      = errors.New("setup function is nil")
	ErrNilPredicate  = errors.New("predicate is nil")
	ErrEmptyName     = errors.New("name is empty")
)

// Builder records the ordered step list of a Definition. It is handed to the
// setup function passed to Define and is only valid during that call.
//
// Builder methods return the Builder so declarations can be chained:
//
//	pathway.MustDefine("signup", func(b *pathway.Builder) {
//	    b.Set("user", "user", buildUser).
//	        Step("validate", validateUser).
//	        SetResult("save", saveUser)
//	})
//
// Mistakes such as a nil body are collected and returned by Define.
type Builder struct {
	plugins   map[Name]Plugin
	resultKey Key
	steps     []Step
	errs      []error
}

func newBuilder(resultKey Key, plugins map[Name]Plugin) *Builder {
	return &Builder{resultKey: resultKey, plugins: plugins}
}

func (b *Builder) child() *Builder {
	return newBuilder(b.resultKey, b.plugins)
}

func (b *Builder) add(step Step) *Builder {
	if step.name == "" {
		b.errs = append(b.errs, fmt.Errorf("%s step #%d: %w", step.typ, len(b.steps)+1, ErrEmptyName))
		return b
	}
	b.steps = append(b.steps, step)
	return b
}

func (b *Builder) fail(name Name, err error) {
	b.errs = append(b.errs, fmt.Errorf("step %q: %w", name, err))
}

// ResultKey returns the result key of the definition being declared.
func (b *Builder) ResultKey() Key {
	return b.resultKey
}

// Plugin returns the attached plugin with the given name.
func (b *Builder) Plugin(name Name) (Plugin, bool) {
	p, ok := b.plugins[name]
	return p, ok
}

// Len returns the number of steps declared so far at this level.
func (b *Builder) Len() int {
	return len(b.steps)
}

// Use returns the attached plugin named name as a P. Plugins use it to
// expose declaration helpers:
//
//	auth, err := pathway.Use[*pathway.Auth](b, pathway.AuthPluginName)
func Use[P Plugin](b *Builder, name Name) (P, error) {
	var zero P
	p, ok := b.plugins[name]
	if !ok {
		return zero, fmt.Errorf("%w: %q is not attached", ErrUnknownPlugin, name)
	}
	typed, ok := p.(P)
	if !ok {
		return zero, fmt.Errorf("plugin %q has type %T", name, p)
	}
	return typed, nil
}

package pathway

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Option configures a Definition.
type Option func(*Config)

// WithResultKey sets the state key projected as the result of a call.
func WithResultKey(key Key) Option {
	return func(c *Config) {
		c.ResultKey = key
	}
}

// WithContext merges ambient values into the definition context. Every call
// starts with these values in its State.
func WithContext(values map[Key]any) Option {
	return func(c *Config) {
		if c.Context == nil {
			c.Context = make(map[Key]any, len(values))
		}
		maps.Copy(c.Context, values)
	}
}

// WithPlugins attaches plugin instances.
func WithPlugins(plugins ...Plugin) Option {
	return func(c *Config) {
		c.attached = append(c.attached, plugins...)
	}
}

// WithRegistry resolves plugins by name through reg. Names are appended to
// any plugins already listed in the configuration.
func WithRegistry(reg *Registry, names ...Name) Option {
	return func(c *Config) {
		c.Registry = reg
		for _, name := range names {
			c.Plugins = append(c.Plugins, PluginConfig{Name: name})
		}
	}
}

// WithClock sets a custom clock for testing.
func WithClock(clock clockz.Clock) Option {
	return func(c *Config) {
		c.Clock = clock
	}
}

// Definition is a named, reusable pipeline: an ordered list of steps, a
// result key, a default context and the plugins attached ahead of time.
//
// A Definition is immutable once built and safe for concurrent Calls. Each
// call owns its own State and Outcome.
type Definition struct {
	clock     clockz.Clock
	context   map[Key]any
	plugins   map[Name]Plugin
	metrics   *metricz.Registry
	tracer    *tracez.Tracer
	hooks     *hookz.Hooks[Event]
	parent    *Definition
	name      Name
	resultKey Key
	order     []Name
	steps     []Step
}

// Define builds a Definition. Plugins are installed first, then setup runs
// once against a Builder to record the step list. All declaration mistakes
// are reported together.
//
// Example:
//
//	var FetchUser = pathway.MustDefine("fetch-user", func(b *pathway.Builder) {
//	    b.SetResult("load", pathway.Try(func(ctx context.Context, s *pathway.State) (any, error) {
//	        return repo.Find(ctx, s.Get("input"))
//	    }))
//	})
func Define(name Name, setup func(*Builder), opts ...Option) (*Definition, error) {
	if setup == nil {
		return nil, fmt.Errorf("define %q: %w", name, ErrNilSetup)
	}
	cfg := &Config{Name: name}
	return build(cfg, nil, setup, opts)
}

// MustDefine is like Define but panics on error. It is intended for
// package-level declarations.
func MustDefine(name Name, setup func(*Builder), opts ...Option) *Definition {
	def, err := Define(name, setup, opts...)
	if err != nil {
		panic(err)
	}
	return def
}

// Extend builds a subtype of d. The subtype inherits the result key, the
// context and the plugins of d; options may override them. A nil setup reuses
// the parent's steps; otherwise setup declares a fresh step list.
// Inherited plugins are not installed again.
func (d *Definition) Extend(name Name, setup func(*Builder), opts ...Option) (*Definition, error) {
	cfg := &Config{
		Name:      name,
		ResultKey: d.resultKey,
		Context:   maps.Clone(d.context),
	}
	return build(cfg, d, setup, opts)
}

func build(cfg *Config, parent *Definition, setup func(*Builder), opts []Option) (*Definition, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("define: %w", ErrEmptyName)
	}
	for _, opt := range opts {
		opt(cfg)
	}

	def := &Definition{
		name:    cfg.Name,
		clock:   cfg.Clock,
		plugins: make(map[Name]Plugin),
		metrics: metricz.New(),
		tracer:  tracez.New(),
		hooks:   hookz.New[Event](),
		parent:  parent,
	}
	if def.clock == nil {
		def.clock = clockz.RealClock
	}
	if parent != nil {
		maps.Copy(def.plugins, parent.plugins)
		def.order = append(def.order, parent.order...)
	}

	fresh := cfg.attached
	if len(cfg.Plugins) > 0 {
		reg := cfg.Registry
		if reg == nil {
			reg = DefaultRegistry
		}
		resolved, err := reg.Resolve(cfg.Plugins...)
		if err != nil {
			return nil, def.abort(fmt.Errorf("define %q: %w", cfg.Name, err))
		}
		fresh = append(fresh, resolved...)
	}

	var errs []error
	for _, p := range fresh {
		if p == nil {
			errs = append(errs, errors.New("plugin is nil"))
			continue
		}
		if _, exists := def.plugins[p.Name()]; exists {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicatePlugin, p.Name()))
			continue
		}
		if inst, ok := p.(Installer); ok {
			if err := inst.Install(cfg); err != nil {
				errs = append(errs, fmt.Errorf("install %q: %w", p.Name(), err))
				continue
			}
		}
		def.plugins[p.Name()] = p
		def.order = append(def.order, p.Name())
		capitan.Info(context.Background(), SignalPluginInstalled,
			FieldDefinition.Field(cfg.Name),
			FieldPlugin.Field(p.Name()),
		)
	}
	if len(errs) > 0 {
		return nil, def.abort(fmt.Errorf("define %q: %w", cfg.Name, errors.Join(errs...)))
	}

	def.resultKey = cfg.ResultKey
	if def.resultKey == "" {
		def.resultKey = DefaultResultKey
	}
	def.context = maps.Clone(cfg.Context)

	if setup == nil {
		if parent != nil {
			def.steps = parent.steps
		}
	} else {
		b := newBuilder(def.resultKey, def.plugins)
		setup(b)
		if len(b.errs) > 0 {
			return nil, def.abort(fmt.Errorf("define %q: %w", cfg.Name, errors.Join(b.errs...)))
		}
		def.steps = b.steps
	}

	def.metrics.Counter(CallsTotal)
	def.metrics.Counter(SuccessesTotal)
	def.metrics.Counter(FailuresTotal)
	def.metrics.Counter(StepsTotal)
	def.metrics.Counter(StepsSkipped)
	def.metrics.Gauge(DurationMs)

	return def, nil
}

// abort releases observability resources of a definition that failed to build.
func (d *Definition) abort(err error) error {
	_ = d.Close() //nolint:errcheck
	return err
}

// Call runs the pipeline once. The State is seeded with the definition
// context and input stored under "input". On success the value stored under
// the result key is returned; on failure the *Error produced by the failing
// step is returned unchanged.
func (d *Definition) Call(ctx context.Context, input any) Outcome[any] {
	return d.call(ctx, d.context, input)
}

// New creates an Operation whose context is values merged over the
// definition context.
func (d *Definition) New(values map[Key]any) *Operation {
	merged := maps.Clone(d.context)
	if merged == nil {
		merged = make(map[Key]any, len(values))
	}
	maps.Copy(merged, values)
	return &Operation{def: d, context: merged}
}

func (d *Definition) call(ctx context.Context, values map[Key]any, input any) Outcome[any] {
	id := uuid.New()
	ctx = withScope(ctx, scope{def: d, id: id})
	for _, name := range d.order {
		if binder, ok := d.plugins[name].(Binder); ok {
			ctx = binder.Bind(ctx)
		}
	}

	ctx, span := d.tracer.StartSpan(ctx, CallSpan)
	span.SetTag(TagDefinition, d.name)
	span.SetTag(TagCallID, id.String())
	defer span.Finish()

	d.metrics.Counter(CallsTotal).Inc()
	start := d.clock.Now()

	executed := 0
	exec := &executor{
		def:      d,
		outcome:  Ok(NewState(d.resultKey, values, input)),
		callID:   id,
		executed: &executed,
	}
	final := exec.run(ctx, d.steps)
	result := Map(final, func(s *State) any { return s.Result() })

	duration := d.clock.Since(start)
	d.metrics.Gauge(DurationMs).Set(float64(duration.Milliseconds()))

	event := Event{
		Definition: d.name,
		CallID:     id,
		Steps:      executed,
		Duration:   duration,
		Success:    result.IsOk(),
		Timestamp:  d.clock.Now(),
	}
	if result.IsOk() {
		d.metrics.Counter(SuccessesTotal).Inc()
		span.SetTag(TagSuccess, "true")
		capitan.Info(ctx, SignalCallSucceeded,
			FieldDefinition.Field(d.name),
			FieldCallID.Field(id.String()),
			FieldSteps.Field(executed),
			FieldDuration.Field(duration.Seconds()),
		)
	} else {
		failure := result.Err()
		event.Error = failure
		d.metrics.Counter(FailuresTotal).Inc()
		span.SetTag(TagSuccess, "false")
		span.SetTag(TagKind, string(failure.Kind))
		capitan.Warn(ctx, SignalCallFailed,
			FieldDefinition.Field(d.name),
			FieldCallID.Field(id.String()),
			FieldSteps.Field(executed),
			FieldDuration.Field(duration.Seconds()),
			FieldKind.Field(string(failure.Kind)),
			FieldMessage.Field(failure.Message),
		)
	}
	_ = d.hooks.Emit(ctx, EventCallComplete, event) //nolint:errcheck

	return result
}

// Name returns the definition name.
func (d *Definition) Name() Name {
	return d.name
}

// ResultKey returns the state key projected as the call result.
func (d *Definition) ResultKey() Key {
	return d.resultKey
}

// Context returns a copy of the definition context.
func (d *Definition) Context() map[Key]any {
	return maps.Clone(d.context)
}

// Parent returns the definition d was extended from, or nil.
func (d *Definition) Parent() *Definition {
	return d.parent
}

// Len returns the number of top-level steps.
func (d *Definition) Len() int {
	return len(d.steps)
}

// Names returns the top-level step names in declaration order.
func (d *Definition) Names() []Name {
	names := make([]Name, len(d.steps))
	for i := range d.steps {
		names[i] = d.steps[i].name
	}
	return names
}

// Steps returns a copy of the top-level steps.
func (d *Definition) Steps() []Step {
	return append([]Step(nil), d.steps...)
}

// Plugins returns the attached plugin names in installation order,
// inherited plugins first.
func (d *Definition) Plugins() []Name {
	return append([]Name(nil), d.order...)
}

// Plugin returns the attached plugin with the given name.
func (d *Definition) Plugin(name Name) (Plugin, bool) {
	p, ok := d.plugins[name]
	return p, ok
}

// Metrics returns the metrics registry for this definition.
func (d *Definition) Metrics() *metricz.Registry {
	return d.metrics
}

// Tracer returns the tracer for this definition.
func (d *Definition) Tracer() *tracez.Tracer {
	return d.tracer
}

// Close gracefully shuts down observability components.
func (d *Definition) Close() error {
	if d.tracer != nil {
		d.tracer.Close()
	}
	d.hooks.Close()
	return nil
}

// OnStepComplete registers a handler called after every executed step.
// The handler is called asynchronously; skipped steps produce no event.
func (d *Definition) OnStepComplete(handler func(context.Context, Event) error) error {
	_, err := d.hooks.Hook(EventStepComplete, handler)
	return err
}

// OnCallComplete registers a handler called once per call, after the
// outcome is known. The handler is called asynchronously.
func (d *Definition) OnCallComplete(handler func(context.Context, Event) error) error {
	_, err := d.hooks.Hook(EventCallComplete, handler)
	return err
}

// Operation is a definition bound to a per-instance context.
type Operation struct {
	def     *Definition
	context map[Key]any
}

// Call runs the definition with the operation's context.
func (o *Operation) Call(ctx context.Context, input any) Outcome[any] {
	return o.def.call(ctx, o.context, input)
}

// Definition returns the definition o was created from.
func (o *Operation) Definition() *Definition {
	return o.def
}

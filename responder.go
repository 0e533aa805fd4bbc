package pathway

// Responder dispatches an Outcome to exactly one handler. Handlers for a
// specific failure kind take precedence over the generic Otherwise handler.
//
// Example:
//
//	status := 0
//	pathway.Respond(def.Call(ctx, id)).
//	    Success(func(v any) { status = 200 }).
//	    Failure(pathway.KindNotFound, func(*pathway.Error) { status = 404 }).
//	    Failure(pathway.KindForbidden, func(*pathway.Error) { status = 403 }).
//	    Otherwise(func(*pathway.Error) { status = 500 }).
//	    Run()
type Responder[V any] struct {
	outcome   Outcome[V]
	success   func(V)
	failures  map[Kind]func(*Error)
	otherwise func(*Error)
}

// Respond creates a Responder for o.
func Respond[V any](o Outcome[V]) *Responder[V] {
	return &Responder[V]{outcome: o, failures: make(map[Kind]func(*Error))}
}

// Success sets the handler run on success.
func (r *Responder[V]) Success(fn func(V)) *Responder[V] {
	r.success = fn
	return r
}

// Failure sets the handler run for failures of the given kind.
// A later registration for the same kind replaces the earlier one.
func (r *Responder[V]) Failure(kind Kind, fn func(*Error)) *Responder[V] {
	r.failures[kind] = fn
	return r
}

// Otherwise sets the handler run for failures without a kind handler.
func (r *Responder[V]) Otherwise(fn func(*Error)) *Responder[V] {
	r.otherwise = fn
	return r
}

// Run invokes the matching handler and reports whether one ran.
func (r *Responder[V]) Run() bool {
	if v, ok := r.outcome.Get(); ok {
		if r.success == nil {
			return false
		}
		r.success(v)
		return true
	}
	failure := r.outcome.Err()
	if fn, ok := r.failures[failure.Kind]; ok && fn != nil {
		fn(failure)
		return true
	}
	if r.otherwise != nil {
		r.otherwise(failure)
		return true
	}
	return false
}

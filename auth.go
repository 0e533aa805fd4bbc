package pathway

import (
	"context"
	"fmt"
	"slices"
)

// AuthPluginName is the registry name of the Auth plugin.
const AuthPluginName = "auth"

// Policy decides whether the current call is authorized.
type Policy func(context.Context, *State) bool

// Auth is a plugin providing an authorization step. The policy is set once,
// when the plugin is built; definitions declare where authorization happens
// with Authorize:
//
//	auth := pathway.NewAuth(func(_ context.Context, s *pathway.State) bool {
//	    user, _ := pathway.As[*User](s, "user")
//	    return user != nil && user.Admin
//	})
//	def := pathway.MustDefine("publish", func(b *pathway.Builder) {
//	    b.Set("load-user", "user", loadUser)
//	    auth.Authorize(b, "authorize")
//	    b.SetResult("publish", publish)
//	}, pathway.WithPlugins(auth))
type Auth struct {
	policy Policy
}

// NewAuth creates an Auth plugin. A nil policy denies every call.
func NewAuth(policy Policy) *Auth {
	if policy == nil {
		policy = func(context.Context, *State) bool { return false }
	}
	return &Auth{policy: policy}
}

// Name implements Plugin.
func (*Auth) Name() Name {
	return AuthPluginName
}

// Authorized evaluates the policy. Step bodies reach it through FromContext.
func (a *Auth) Authorized(ctx context.Context, s *State) bool {
	return a.policy(ctx, s)
}

// Authorize declares a sequential step failing with KindForbidden when the
// policy denies the call.
func (a *Auth) Authorize(b *Builder, name Name) *Builder {
	return b.Step(name, a.check)
}

// AuthorizeWith declares an authorization step using policy instead of the
// plugin's own.
func (a *Auth) AuthorizeWith(b *Builder, name Name, policy Policy) *Builder {
	if policy == nil {
		b.fail(name, ErrNilPredicate)
		return b
	}
	return b.Step(name, (&Auth{policy: policy}).check)
}

func (a *Auth) check(ctx context.Context, s *State) Outcome[any] {
	if !a.policy(ctx, s) {
		return Fail(KindForbidden, "not authorized", nil)
	}
	return Ok[any](nil)
}

// newAuthFromSettings builds a role allow-list policy: the call is
// authorized when the string stored under settings["key"] (default "role")
// is one of settings["allow"].
func newAuthFromSettings(settings map[string]any) (Plugin, error) {
	key := "role"
	if raw, ok := settings["key"]; ok {
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("key: expected string, got %T", raw)
		}
		key = s
	}
	var allow []string
	if raw, ok := settings["allow"]; ok {
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("allow: expected list, got %T", raw)
		}
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("allow: expected string, got %T", item)
			}
			allow = append(allow, s)
		}
	}
	return NewAuth(func(_ context.Context, s *State) bool {
		role, ok := As[string](s, key)
		return ok && slices.Contains(allow, role)
	}), nil
}

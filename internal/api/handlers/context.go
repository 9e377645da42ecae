package handlers

import (
	"context"

	"github.com/taskpilot/taskpilot/internal/auth"
)

type contextKey string

// IdentityKey carries the authenticated caller in the request context.
const IdentityKey contextKey = "identity"

// WithIdentity returns a context carrying the authenticated caller.
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// IdentityFrom retrieves the authenticated caller from the context. It is
// only called on routes behind the session middleware, so a missing identity
// is a programming error and panics into the recovery middleware.
func IdentityFrom(ctx context.Context) auth.Identity {
	return ctx.Value(IdentityKey).(auth.Identity)
}

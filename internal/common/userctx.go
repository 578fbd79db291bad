package common

import "context"

// Principal is the identity carried by a validated bearer token.
type Principal struct {
	Subject string
	Role    string
}

// IsAdmin reports whether the principal may call admin endpoints.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// RoleAdmin is the token role allowed to reload the glossary.
const RoleAdmin = "admin"

type contextKey int

const principalKey contextKey = iota

// WithPrincipal stores a Principal in the request context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext retrieves the Principal from context, or nil if absent.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}

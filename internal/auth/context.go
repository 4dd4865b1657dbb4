package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/pawtrail/backend/internal/domain"
)

// Identity is the per-request acting principal resolved by the auth
// middleware. The metering core trusts it and records it; it never resolves
// identity itself.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   domain.UserRole
}

func (i Identity) IsPrivileged() bool {
	return i.Role == domain.UserRoleAdmin
}

type identityKey struct{}

func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

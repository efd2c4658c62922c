// Package access holds the single predicate deciding whether an actor may
// read or write an asset. Every asset operation consults it; nothing else
// branches on roles.
package access

import (
	"context"

	"github.com/Jshatto/asset-tracker/src/models"

	"github.com/google/uuid"
)

// Actor is the authenticated identity behind a request.
type Actor struct {
	ID       uuid.UUID
	Email    string
	Role     models.Role
	ClientID *uuid.UUID
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanAccess reports whether actor may read or write asset. Admins may touch
// any asset; client actors only assets of their own tenant.
func CanAccess(actor Actor, asset *models.Asset) bool {
	if asset == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	return CanAccessClient(actor, asset.ClientID)
}

// CanAccessClient applies the same rule to a tenant id.
func CanAccessClient(actor Actor, clientID uuid.UUID) bool {
	if actor.IsAdmin() {
		return true
	}
	if actor.Role != models.RoleClient || actor.ClientID == nil {
		return false
	}
	return *actor.ClientID == clientID
}

// TenantScope returns the client id listings must be restricted to, or nil
// when the actor sees every tenant. A client actor without a tenant is
// scoped to uuid.Nil and therefore sees nothing.
func TenantScope(actor Actor) *uuid.UUID {
	if actor.IsAdmin() {
		return nil
	}
	if actor.ClientID == nil {
		scope := uuid.Nil
		return &scope
	}
	scope := *actor.ClientID
	return &scope
}

type contextKey string

const actorKey = contextKey("actor")

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}

package services_test

import (
	"context"
	"testing"

	"github.com/Jshatto/asset-tracker/src/apperrors"
	"github.com/Jshatto/asset-tracker/src/schemas"
	"github.com/Jshatto/asset-tracker/src/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clients := services.NewClientService(f.store.Clients())

	t.Run("admin manages tenants", func(t *testing.T) {
		created, err := clients.Create(ctx, f.admin, &schemas.ClientRequest{Name: " Initech "})
		require.NoError(t, err)
		assert.Equal(t, "Initech", created.Name)

		all, err := clients.List(ctx, f.admin)
		require.NoError(t, err)
		assert.Len(t, all, 3)

		updated, err := clients.Update(ctx, f.admin, created.ID, &schemas.ClientRequest{Name: "Initech LLC"})
		require.NoError(t, err)
		assert.Equal(t, "Initech LLC", updated.Name)
		assert.False(t, updated.CreatedAt.IsZero())

		require.NoError(t, clients.Delete(ctx, f.admin, created.ID))
		_, err = clients.Get(ctx, f.admin, created.ID)
		assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	})

	t.Run("names are required and unique", func(t *testing.T) {
		_, err := clients.Create(ctx, f.admin, &schemas.ClientRequest{Name: "  "})
		assert.True(t, apperrors.Is(err, apperrors.KindInvalidRequest))

		_, err = clients.Create(ctx, f.admin, &schemas.ClientRequest{Name: "acme"})
		assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	})

	t.Run("client actors only read their own tenant", func(t *testing.T) {
		got, err := clients.Get(ctx, f.ownerA, f.tenantA.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme", got.Name)

		_, err = clients.Get(ctx, f.ownerA, f.tenantB.ID)
		assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

		_, err = clients.List(ctx, f.ownerA)
		assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
		_, err = clients.Create(ctx, f.ownerA, &schemas.ClientRequest{Name: "Mine"})
		assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
		assert.True(t, apperrors.Is(clients.Delete(ctx, f.ownerA, f.tenantA.ID), apperrors.KindForbidden))
	})

	t.Run("tenants owning assets cannot be deleted", func(t *testing.T) {
		f.createFor(t, f.ownerA, laptopRequest())
		assert.True(t, apperrors.Is(clients.Delete(ctx, f.admin, f.tenantA.ID), apperrors.KindConflict))
		assert.True(t, apperrors.Is(clients.Delete(ctx, f.admin, uuid.New()), apperrors.KindNotFound))
	})
}

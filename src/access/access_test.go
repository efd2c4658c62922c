package access_test

import (
	"context"
	"testing"

	"github.com/Jshatto/asset-tracker/src/access"
	"github.com/Jshatto/asset-tracker/src/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanAccess(t *testing.T) {
	tenantA := uuid.New()
	tenantB := uuid.New()
	asset := &models.Asset{ID: uuid.New(), ClientID: tenantA}

	admin := access.Actor{ID: uuid.New(), Role: models.RoleAdmin}
	owner := access.Actor{ID: uuid.New(), Role: models.RoleClient, ClientID: &tenantA}
	stranger := access.Actor{ID: uuid.New(), Role: models.RoleClient, ClientID: &tenantB}
	orphan := access.Actor{ID: uuid.New(), Role: models.RoleClient}
	unknownRole := access.Actor{ID: uuid.New(), Role: "auditor", ClientID: &tenantA}

	assert.True(t, access.CanAccess(admin, asset))
	assert.True(t, access.CanAccess(owner, asset))
	assert.False(t, access.CanAccess(stranger, asset))
	assert.False(t, access.CanAccess(orphan, asset))
	assert.False(t, access.CanAccess(unknownRole, asset))
	assert.False(t, access.CanAccess(admin, nil))
}

func TestTenantScope(t *testing.T) {
	tenant := uuid.New()

	assert.Nil(t, access.TenantScope(access.Actor{Role: models.RoleAdmin, ClientID: &tenant}))

	scope := access.TenantScope(access.Actor{Role: models.RoleClient, ClientID: &tenant})
	require.NotNil(t, scope)
	assert.Equal(t, tenant, *scope)

	scope = access.TenantScope(access.Actor{Role: models.RoleClient})
	require.NotNil(t, scope)
	assert.Equal(t, uuid.Nil, *scope)
}

func TestActorContext(t *testing.T) {
	_, ok := access.ActorFromContext(context.Background())
	assert.False(t, ok)

	actor := access.Actor{ID: uuid.New(), Role: models.RoleAdmin}
	got, ok := access.ActorFromContext(access.WithActor(context.Background(), actor))
	require.True(t, ok)
	assert.Equal(t, actor, got)
}

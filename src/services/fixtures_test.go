package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/Jshatto/asset-tracker/src/access"
	"github.com/Jshatto/asset-tracker/src/models"
	"github.com/Jshatto/asset-tracker/src/repositories/memory"
	"github.com/Jshatto/asset-tracker/src/schemas"
	"github.com/Jshatto/asset-tracker/src/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, time.October, 15, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return today }

type fixture struct {
	store   *memory.Store
	assets  *services.AssetService
	tenantA models.Client
	tenantB models.Client
	admin   access.Actor
	ownerA  access.Actor
	ownerB  access.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	f := &fixture{
		store:   store,
		assets:  services.NewAssetService(store.Assets(), store.Clients()).WithClock(fixedClock),
		tenantA: models.Client{Name: "Acme"},
		tenantB: models.Client{Name: "Globex"},
	}
	require.NoError(t, store.Clients().Create(ctx, &f.tenantA))
	require.NoError(t, store.Clients().Create(ctx, &f.tenantB))

	f.admin = access.Actor{ID: uuid.New(), Role: models.RoleAdmin}
	f.ownerA = access.Actor{ID: uuid.New(), Role: models.RoleClient, ClientID: &f.tenantA.ID}
	f.ownerB = access.Actor{ID: uuid.New(), Role: models.RoleClient, ClientID: &f.tenantB.ID}
	return f
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// laptopRequest is 24 months into a 5 year life as of today.
func laptopRequest() *schemas.AssetRequest {
	return &schemas.AssetRequest{
		Name:         strPtr("Laptop"),
		Category:     strPtr(string(models.CategoryMachinery)),
		Cost:         decPtr("1200.00"),
		PurchaseDate: strPtr("2024-10-03"),
		UsefulLife:   intPtr(5),
	}
}

func (f *fixture) createFor(t *testing.T, actor access.Actor, req *schemas.AssetRequest) *services.AssetView {
	t.Helper()
	view, err := f.assets.Create(context.Background(), actor, req)
	require.NoError(t, err)
	return view
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/Jshatto/asset-tracker/src/access"
	"github.com/Jshatto/asset-tracker/src/apperrors"
	"github.com/Jshatto/asset-tracker/src/auth"
	"github.com/Jshatto/asset-tracker/src/models"
	"github.com/Jshatto/asset-tracker/src/schemas"
	"github.com/Jshatto/asset-tracker/src/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(f *fixture) *services.AuthService {
	tokens := auth.NewTokenAuth("testing-secret", time.Hour)
	return services.NewAuthService(f.store.Users(), f.store.Clients(), tokens).WithHashCost(bcrypt.MinCost)
}

func TestRegisterClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	service := newAuthService(f)

	token, err := service.Register(ctx, nil, &schemas.RegisterRequest{
		Email:      " Owner@Initech.test ",
		Password:   "correct horse",
		ClientName: "Initech",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, "owner@initech.test", token.User.Email)
	assert.Equal(t, string(models.RoleClient), token.User.Role)
	require.NotNil(t, token.User.ClientID)

	client, err := f.store.Clients().GetByID(ctx, *token.User.ClientID)
	require.NoError(t, err)
	assert.Equal(t, "Initech", client.Name)

	stored, err := f.store.Users().GetByEmail(ctx, "owner@initech.test")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", stored.PasswordHash)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := service.Register(ctx, nil, &schemas.RegisterRequest{
			Email:      "owner@initech.test",
			Password:   "correct horse",
			ClientName: "Initrode",
		})
		assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	})

	t.Run("duplicate tenant name", func(t *testing.T) {
		_, err := service.Register(ctx, nil, &schemas.RegisterRequest{
			Email:      "second@initech.test",
			Password:   "correct horse",
			ClientName: "initech",
		})
		assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	})
}

func TestRegisterRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	service := newAuthService(f)

	cases := map[string]*schemas.RegisterRequest{
		"bad email":      {Email: "not-an-email", Password: "correct horse", ClientName: "X"},
		"short password": {Email: "a@b.test", Password: "short", ClientName: "X"},
		"no tenant":      {Email: "a@b.test", Password: "correct horse"},
		"unknown role":   {Email: "a@b.test", Password: "correct horse", Role: "auditor", ClientName: "X"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := service.Register(ctx, nil, req)
			assert.True(t, apperrors.Is(err, apperrors.KindInvalidRequest), "got %v", err)
		})
	}

	t.Run("admins are created by admins", func(t *testing.T) {
		req := &schemas.RegisterRequest{Email: "root@tracker.test", Password: "correct horse", Role: "admin"}
		_, err := service.Register(ctx, nil, req)
		assert.True(t, apperrors.Is(err, apperrors.KindForbidden))

		_, err = service.Register(ctx, &f.ownerA, req)
		assert.True(t, apperrors.Is(err, apperrors.KindForbidden))

		token, err := service.Register(ctx, &f.admin, req)
		require.NoError(t, err)
		assert.Equal(t, "admin", token.User.Role)
		assert.Nil(t, token.User.ClientID)
	})

	t.Run("joining an existing tenant needs an admin", func(t *testing.T) {
		req := &schemas.RegisterRequest{Email: "clerk@acme.test", Password: "correct horse", ClientID: &f.tenantA.ID}
		_, err := service.Register(ctx, nil, req)
		assert.True(t, apperrors.Is(err, apperrors.KindForbidden))

		token, err := service.Register(ctx, &f.admin, req)
		require.NoError(t, err)
		require.NotNil(t, token.User.ClientID)
		assert.Equal(t, f.tenantA.ID, *token.User.ClientID)
	})
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	service := newAuthService(f)

	registered, err := service.Register(ctx, nil, &schemas.RegisterRequest{
		Email:      "owner@initech.test",
		Password:   "correct horse",
		ClientName: "Initech",
	})
	require.NoError(t, err)

	token, err := service.Login(ctx, &schemas.LoginRequest{Email: "OWNER@initech.test", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, token.User.ID)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	_, err = service.Login(ctx, &schemas.LoginRequest{Email: "owner@initech.test", Password: "wrong horse"})
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthorized))

	_, err = service.Login(ctx, &schemas.LoginRequest{Email: "nobody@initech.test", Password: "correct horse"})
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthorized))

	_, err = service.Login(ctx, &schemas.LoginRequest{Email: "owner@initech.test"})
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidRequest))
}

func TestEnsureAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	service := newAuthService(f)

	require.NoError(t, service.EnsureAdmin(ctx, "root@tracker.test", "correct horse"))
	require.NoError(t, service.EnsureAdmin(ctx, "ROOT@tracker.test", "another password"))

	token, err := service.Login(ctx, &schemas.LoginRequest{Email: "root@tracker.test", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "admin", token.User.Role)

	actor, err := tokenActor(token.Token)
	require.NoError(t, err)
	assert.True(t, actor.IsAdmin())

	assert.True(t, apperrors.Is(service.EnsureAdmin(ctx, "root@tracker.test", "short"), apperrors.KindInvalidRequest))
}

func tokenActor(token string) (access.Actor, error) {
	tokens := auth.NewTokenAuth("testing-secret", time.Hour)
	decoded, err := tokens.JWTAuth().Decode(token)
	if err != nil {
		return access.Actor{}, err
	}
	claims, err := decoded.AsMap(context.Background())
	if err != nil {
		return access.Actor{}, err
	}
	return auth.ActorFromClaims(claims)
}

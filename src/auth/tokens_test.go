package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/Jshatto/asset-tracker/src/auth"
	"github.com/Jshatto/asset-tracker/src/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeClaims(t *testing.T, tokens *auth.TokenAuth, token string) map[string]interface{} {
	t.Helper()
	decoded, err := tokens.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	return claims
}

func TestIssue(t *testing.T) {
	tokens := auth.NewTokenAuth("testing-secret", 2*time.Hour)
	clientID := uuid.New()
	user := &models.User{ID: uuid.New(), Email: "owner@acme.test", Role: models.RoleClient, ClientID: &clientID}

	token, expiresAt, err := tokens.Issue(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), expiresAt, time.Minute)

	actor, err := auth.ActorFromClaims(decodeClaims(t, tokens, token))
	require.NoError(t, err)
	assert.Equal(t, user.ID, actor.ID)
	assert.Equal(t, "owner@acme.test", actor.Email)
	assert.Equal(t, models.RoleClient, actor.Role)
	require.NotNil(t, actor.ClientID)
	assert.Equal(t, clientID, *actor.ClientID)
}

func TestIssueAdminWithoutClient(t *testing.T) {
	tokens := auth.NewTokenAuth("testing-secret", 0)
	token, expiresAt, err := tokens.Issue(&models.User{ID: uuid.New(), Email: "root@tracker.test", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(auth.DefaultTokenTTL), expiresAt, time.Minute)

	claims := decodeClaims(t, tokens, token)
	_, hasClient := claims[auth.ClaimClientID]
	assert.False(t, hasClient)

	actor, err := auth.ActorFromClaims(claims)
	require.NoError(t, err)
	assert.True(t, actor.IsAdmin())
	assert.Nil(t, actor.ClientID)
}

func TestTokensFromAnotherSecretAreRejected(t *testing.T) {
	token, _, err := auth.NewTokenAuth("one-secret", time.Hour).Issue(&models.User{ID: uuid.New(), Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = auth.NewTokenAuth("other-secret", time.Hour).JWTAuth().Decode(token)
	assert.Error(t, err)
}

func TestActorFromClaims(t *testing.T) {
	id := uuid.New().String()
	cases := map[string]map[string]interface{}{
		"missing id":       {auth.ClaimRole: "admin"},
		"malformed id":     {auth.ClaimID: "42", auth.ClaimRole: "admin"},
		"unknown role":     {auth.ClaimID: id, auth.ClaimRole: "auditor"},
		"malformed tenant": {auth.ClaimID: id, auth.ClaimRole: "client", auth.ClaimClientID: "acme"},
	}
	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := auth.ActorFromClaims(claims)
			assert.ErrorIs(t, err, auth.ErrInvalidClaims)
		})
	}
}

// Package auth issues and verifies the HS256 bearer tokens carried by API
// requests and turns their claims into an access.Actor.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/Jshatto/asset-tracker/src/access"
	"github.com/Jshatto/asset-tracker/src/models"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
)

const (
	ClaimID       = "id"
	ClaimEmail    = "email"
	ClaimRole     = "role"
	ClaimClientID = "client_id"

	TokenType       = "Bearer"
	DefaultTokenTTL = 24 * time.Hour
)

var ErrInvalidClaims = errors.New("invalid token claims")

type TokenAuth struct {
	ja  *jwtauth.JWTAuth
	ttl time.Duration
	now func() time.Time
}

func NewTokenAuth(secret string, ttl time.Duration) *TokenAuth {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenAuth{
		ja:  jwtauth.New("HS256", []byte(secret), nil),
		ttl: ttl,
		now: time.Now,
	}
}

func (t *TokenAuth) JWTAuth() *jwtauth.JWTAuth {
	return t.ja
}

// Issue signs a token for user and returns it with its expiry.
func (t *TokenAuth) Issue(user *models.User) (string, time.Time, error) {
	expiresAt := t.now().Add(t.ttl).UTC()
	claims := map[string]interface{}{
		ClaimID:    user.ID.String(),
		ClaimEmail: user.Email,
		ClaimRole:  string(user.Role),
	}
	if user.ClientID != nil {
		claims[ClaimClientID] = user.ClientID.String()
	}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiry(claims, expiresAt)

	_, token, err := t.ja.Encode(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

// ActorFromClaims reads the identity claims written by Issue.
func ActorFromClaims(claims map[string]interface{}) (access.Actor, error) {
	rawID, _ := claims[ClaimID].(string)
	id, err := uuid.Parse(rawID)
	if err != nil {
		return access.Actor{}, fmt.Errorf("%w: id", ErrInvalidClaims)
	}

	rawRole, _ := claims[ClaimRole].(string)
	role, err := models.ParseRole(rawRole)
	if err != nil {
		return access.Actor{}, fmt.Errorf("%w: role", ErrInvalidClaims)
	}

	actor := access.Actor{ID: id, Role: role}
	actor.Email, _ = claims[ClaimEmail].(string)

	if rawClientID, ok := claims[ClaimClientID].(string); ok && rawClientID != "" {
		clientID, err := uuid.Parse(rawClientID)
		if err != nil {
			return access.Actor{}, fmt.Errorf("%w: client_id", ErrInvalidClaims)
		}
		actor.ClientID = &clientID
	}
	return actor, nil
}

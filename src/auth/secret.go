package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Jshatto/asset-tracker/src/config"
)

// SecretSource is the part of the AWS secret handler the signing key lookup
// needs.
type SecretSource interface {
	GetSecretValue(secretId string) (string, error)
}

// ResolveSecret returns the token signing key. When a secret id is configured
// the key is read from source, either as the plain secret string or as the
// jwtSecret field of a JSON secret. Otherwise the configured key is used.
func ResolveSecret(cfg config.AuthConfig, source SecretSource) (string, error) {
	if cfg.JWTSecretID == "" {
		if cfg.JWTSecret == "" {
			return "", errors.New("auth.jwtSecret is not configured")
		}
		return cfg.JWTSecret, nil
	}
	if source == nil {
		return "", fmt.Errorf("no secret source for %s", cfg.JWTSecretID)
	}

	value, err := source.GetSecretValue(cfg.JWTSecretID)
	if err != nil {
		return "", fmt.Errorf("failed to read secret %s: %w", cfg.JWTSecretID, err)
	}

	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "{") {
		var payload struct {
			JWTSecret string `json:"jwtSecret"`
		}
		if err := json.Unmarshal([]byte(value), &payload); err != nil {
			return "", fmt.Errorf("failed to decode secret %s: %w", cfg.JWTSecretID, err)
		}
		value = payload.JWTSecret
	}
	if value == "" {
		return "", fmt.Errorf("secret %s is empty", cfg.JWTSecretID)
	}
	return value, nil
}

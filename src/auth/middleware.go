package auth

import (
	"net/http"

	"github.com/Jshatto/asset-tracker/src/access"
	"github.com/Jshatto/asset-tracker/src/apperrors"
	"github.com/Jshatto/asset-tracker/src/utils"

	"github.com/go-chi/jwtauth"
)

// Verifier finds and validates a token in the Authorization header or the
// jwt cookie and stores the result on the request context.
func (t *TokenAuth) Verifier() func(http.Handler) http.Handler {
	return jwtauth.Verifier(t.ja)
}

// Authenticator rejects requests without a valid token and attaches the
// token's actor to the context of the others.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			utils.WriteError(w, apperrors.Unauthorized("missing or invalid token"))
			return
		}

		actor, err := ActorFromClaims(claims)
		if err != nil {
			utils.LoggerFromContext(r.Context()).WithError(err).Warn("Rejected token")
			utils.WriteError(w, apperrors.Unauthorized("missing or invalid token"))
			return
		}

		next.ServeHTTP(w, r.WithContext(access.WithActor(r.Context(), actor)))
	})
}

// RequireAdmin must run after Authenticator.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := access.ActorFromContext(r.Context())
		if !ok {
			utils.WriteError(w, apperrors.Unauthorized("missing or invalid token"))
			return
		}
		if !actor.IsAdmin() {
			utils.WriteError(w, apperrors.Forbidden("admin role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// OptionalActor attaches the token's actor when a valid token is present and
// lets anonymous requests through untouched.
func OptionalActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err == nil && token != nil {
			if actor, err := ActorFromClaims(claims); err == nil {
				r = r.WithContext(access.WithActor(r.Context(), actor))
			}
		}
		next.ServeHTTP(w, r)
	})
}

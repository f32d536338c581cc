package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/user"
	"github.com/mengistu3137/jimma-zone-erp/internal/handler/http/response"
)

// AuthRequired expects jwtauth.Verifier to run first. It resolves the
// token's user into a user.Actor attached to the request context.
func AuthRequired(users user.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.Unauthorized(w, "Invalid or missing token")
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.Unauthorized(w, "Invalid token type")
				return
			}

			userID, ok := claims["user_id"].(string)
			if !ok || userID == "" {
				response.Unauthorized(w, "user_id claim is missing or invalid")
				return
			}

			actor, err := users.GetActor(r.Context(), userID)
			if err != nil {
				if errors.Is(err, user.ErrUserNotFound) {
					response.Unauthorized(w, "User no longer exists")
					return
				}
				slog.Error("Failed to resolve actor", "user_id", userID, "error", err)
				response.InternalServerError(w, "An unexpected error occurred")
				return
			}

			next.ServeHTTP(w, r.WithContext(user.WithActor(r.Context(), actor)))
		}
		return http.HandlerFunc(hfn)
	}
}

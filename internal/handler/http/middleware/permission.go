package middleware

import (
	"fmt"
	"net/http"

	"github.com/mengistu3137/jimma-zone-erp/internal/domain/user"
	"github.com/mengistu3137/jimma-zone-erp/internal/handler/http/response"
)

// RequirePermission checks if the actor holds a specific permission. Admins pass.
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := user.ActorFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if !actor.Can(permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"net/http"

	"github.com/ThanhPhat1604/Assignment3SDN/internal/errors"
	"github.com/ThanhPhat1604/Assignment3SDN/internal/utils/response"
)

// RequireAdmin guards admin-only routes. It assumes Authenticate already
// ran and put the claims in the context.
func RequireAdmin(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims := ClaimsFromContext(r.Context())

		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		if !claims.IsAdmin() {
			LoggerFromContext(r.Context()).Warn("Non-admin attempted an admin route")
			response.Error(w, errors.ForbiddenError("Admin access required"))

			return
		}

		next.ServeHTTP(w, r)
	}
}

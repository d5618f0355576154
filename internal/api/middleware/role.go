package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SalonBookingService/internal/domain"
)

const msgForbiddenRole = "недостаточно прав для выполнения операции"

// RequireRole пропускает запрос только для перечисленных ролей. Ставится после Auth.
func RequireRole(roles ...domain.Role) mux.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipal(r.Context())
			if !ok {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}
			if _, ok := allowed[principal.Role]; !ok {
				handlers.RespondForbidden(w, msgForbiddenRole)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"net/http"

	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/service/authz"
)

// RequireOperation returns middleware that rejects requests whose identity
// role does not meet the operation's required role. Must be mounted after
// Authenticate. The service layer still re-checks; this gate just fails the
// request before any body is read.
func RequireOperation(authorizer *authz.Authorizer, op authz.Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetIdentity(r)
			if !ok {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
				return
			}

			if err := authorizer.Authorize(op, identity.Role); err != nil {
				shared.RespondWithError(w, r, http.StatusForbidden, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

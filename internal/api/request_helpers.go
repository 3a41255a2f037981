package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
)

// getIdentityFromContext extracts the authenticated identity claims from the
// request context. The claims are placed there by the authentication
// middleware; a missing value means the route was wired without it.
func getIdentityFromContext(r *http.Request) (*auth.Claims, bool) {
	claims, ok := r.Context().Value(shared.IdentityContextKey).(*auth.Claims)
	if !ok || claims == nil {
		return nil, false
	}
	return claims, true
}

// getPathID extracts a numeric id from the URL path parameters.
func getPathID(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, domain.ErrValidation
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrValidation
	}
	return id, nil
}

// requireIdentity extracts the identity claims, writing a 401 response if
// they are absent. Returns false when the response has already been written.
func requireIdentity(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	identity, ok := getIdentityFromContext(r)
	if !ok {
		HandleAPIError(w, r, auth.ErrMissingToken, "")
		return nil, false
	}
	return identity, true
}

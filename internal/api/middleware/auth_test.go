package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/api/middleware"
	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/mocks"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
	"github.com/taskdeck/taskdeck-api/internal/service/authz"
)

func testClaims(role domain.Role) *auth.Claims {
	orgID := int64(1)
	return &auth.Claims{
		UserID:         7,
		Email:          "user@acme.test",
		Role:           role,
		OrganizationID: &orgID,
	}
}

func TestAuthenticateMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("valid token passes claims to the handler", func(t *testing.T) {
		t.Parallel()
		claims := testClaims(domain.RoleAdmin)
		jwt := &mocks.MockJWTService{Claims: claims}
		mw := middleware.NewAuthMiddleware(jwt)

		var seen *auth.Claims
		handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := middleware.GetIdentity(r)
			require.True(t, ok)
			seen = got
			w.WriteHeader(http.StatusOK)
		}))

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		r.Header.Set("Authorization", "Bearer sometoken")
		handler.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, claims, seen)
	})

	t.Run("missing header is unauthorized", func(t *testing.T) {
		t.Parallel()
		mw := middleware.NewAuthMiddleware(&mocks.MockJWTService{})
		handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header is unauthorized", func(t *testing.T) {
		t.Parallel()
		mw := middleware.NewAuthMiddleware(&mocks.MockJWTService{})
		handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		for _, header := range []string{"sometoken", "Basic abc", "Bearer"} {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			r.Header.Set("Authorization", header)
			handler.ServeHTTP(w, r)
			assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		}
	})

	t.Run("expired and tampered tokens get one identical response", func(t *testing.T) {
		t.Parallel()
		var bodies []string
		for _, validateErr := range []error{auth.ErrExpiredToken, auth.ErrInvalidToken} {
			jwt := &mocks.MockJWTService{ValidateErr: validateErr}
			mw := middleware.NewAuthMiddleware(jwt)
			handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler must not run")
			}))

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			r.Header.Set("Authorization", "Bearer badtoken")
			handler.ServeHTTP(w, r)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			bodies = append(bodies, w.Body.String())
		}

		// The body must not disclose which verification check failed.
		require.Len(t, bodies, 2)
		assert.Equal(t, bodies[0], bodies[1])
		assert.Contains(t, bodies[0], "Invalid or expired token")
	})

	t.Run("unexpected validation error is a server error", func(t *testing.T) {
		t.Parallel()
		jwt := &mocks.MockJWTService{ValidateTokenFn: func(context.Context, string) (*auth.Claims, error) {
			return nil, assert.AnError
		}}
		mw := middleware.NewAuthMiddleware(jwt)
		handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		r.Header.Set("Authorization", "Bearer token")
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestRequireOperationMiddleware(t *testing.T) {
	t.Parallel()

	authorizer := authz.NewAuthorizer()

	run := func(t *testing.T, op authz.Operation, identity *auth.Claims) *httptest.ResponseRecorder {
		t.Helper()
		handler := middleware.RequireOperation(authorizer, op)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

		r := httptest.NewRequest(http.MethodPost, "/tasks", nil)
		if identity != nil {
			r = r.WithContext(context.WithValue(r.Context(),
				shared.IdentityContextKey, identity))
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	t.Run("sufficient role passes", func(t *testing.T) {
		t.Parallel()
		for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleOwner} {
			w := run(t, authz.OpTaskCreate, testClaims(role))
			assert.Equal(t, http.StatusOK, w.Code, "role %s", role)
		}
	})

	t.Run("viewer is forbidden on writes", func(t *testing.T) {
		t.Parallel()
		w := run(t, authz.OpTaskCreate, testClaims(domain.RoleViewer))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing identity is unauthorized", func(t *testing.T) {
		t.Parallel()
		w := run(t, authz.OpTaskCreate, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

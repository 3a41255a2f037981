package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/api"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/mocks"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

func loginRequest(t *testing.T, body any) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	return httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(payload))
}

func TestAuthHandlerLogin(t *testing.T) {
	t.Parallel()

	orgID := int64(1)
	knownUser := &domain.User{
		ID:             42,
		Email:          "admin@acme.test",
		HashedPassword: "$2a$10$hash",
		Role:           domain.RoleAdmin,
		OrganizationID: &orgID,
	}

	t.Run("valid credentials return a token", func(t *testing.T) {
		t.Parallel()
		users := &mocks.MockUserStore{User: knownUser}
		verifier := auth.NewCredentialVerifier(users, &mocks.MockPasswordVerifier{})
		jwt := &mocks.MockJWTService{Token: "signed.jwt.token"}
		handler := api.NewAuthHandler(verifier, jwt)

		w := httptest.NewRecorder()
		handler.Login(w, loginRequest(t, map[string]string{
			"email":    "admin@acme.test",
			"password": "pass123",
		}))

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			UserID int64  `json:"user_id"`
			Token  string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(42), resp.UserID)
		assert.Equal(t, "signed.jwt.token", resp.Token)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		t.Parallel()

		unknownEmail := &mocks.MockUserStore{Err: store.ErrUserNotFound}
		wrongPassword := &mocks.MockPasswordVerifier{Err: auth.ErrInvalidCredentials}

		cases := []struct {
			name     string
			verifier *auth.CredentialVerifier
		}{
			{
				name:     "unknown email",
				verifier: auth.NewCredentialVerifier(unknownEmail, &mocks.MockPasswordVerifier{}),
			},
			{
				name:     "wrong password",
				verifier: auth.NewCredentialVerifier(&mocks.MockUserStore{User: knownUser}, wrongPassword),
			},
		}

		var bodies []string
		for _, tc := range cases {
			handler := api.NewAuthHandler(tc.verifier, &mocks.MockJWTService{Token: "t"})
			w := httptest.NewRecorder()
			handler.Login(w, loginRequest(t, map[string]string{
				"email":    "whoever@acme.test",
				"password": "whatever",
			}))
			assert.Equal(t, http.StatusUnauthorized, w.Code, tc.name)
			bodies = append(bodies, w.Body.String())
		}
		assert.Equal(t, bodies[0], bodies[1],
			"both failure modes must produce identical responses")
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		t.Parallel()
		verifier := auth.NewCredentialVerifier(&mocks.MockUserStore{}, &mocks.MockPasswordVerifier{})
		handler := api.NewAuthHandler(verifier, &mocks.MockJWTService{})

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte("{broken")))
		handler.Login(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		t.Parallel()
		verifier := auth.NewCredentialVerifier(&mocks.MockUserStore{}, &mocks.MockPasswordVerifier{})
		handler := api.NewAuthHandler(verifier, &mocks.MockJWTService{})

		w := httptest.NewRecorder()
		handler.Login(w, loginRequest(t, map[string]string{"email": "admin@acme.test"}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("token generation failure is a server error", func(t *testing.T) {
		t.Parallel()
		users := &mocks.MockUserStore{User: knownUser}
		verifier := auth.NewCredentialVerifier(users, &mocks.MockPasswordVerifier{})
		jwt := &mocks.MockJWTService{GenerateTokenFn: func(context.Context, *domain.User) (string, error) {
			return "", assert.AnError
		}}
		handler := api.NewAuthHandler(verifier, jwt)

		w := httptest.NewRecorder()
		handler.Login(w, loginRequest(t, map[string]string{
			"email":    "admin@acme.test",
			"password": "pass123",
		}))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// CredentialVerifier checks an email/password pair against the user store
// and returns the matching user on success. It is read-only: verification
// has no side effects beyond the lookup.
type CredentialVerifier struct {
	users     store.UserStore
	passwords PasswordVerifier
}

// NewCredentialVerifier creates a CredentialVerifier with the given dependencies.
func NewCredentialVerifier(users store.UserStore, passwords PasswordVerifier) *CredentialVerifier {
	return &CredentialVerifier{
		users:     users,
		passwords: passwords,
	}
}

// Verify looks up the user by email and compares the password against the
// stored hash. Both an unknown email and a wrong password return
// ErrInvalidCredentials; the caller must not be able to tell which.
// The returned user carries the organization ID (possibly nil) that the
// login handler embeds into the issued token.
func (v *CredentialVerifier) Verify(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContext(ctx)

	user, err := v.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user for login", "error", err)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := v.passwords.Compare(user.HashedPassword, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

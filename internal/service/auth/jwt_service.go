package auth

import (
	"context"
	"time"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token carrying the user's
	// identity: id, email, role and organization.
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, user *domain.User) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns the claims containing the identity if the token is valid, or an
	// error if validation fails (expired, tampered, wrong signature). The
	// returned claims are the only trusted source of role and organization
	// for the rest of the request; they must never be re-derived from
	// client-supplied fields.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the decoded identity payload carried by an authentication token.
// It is produced at login and never mutated afterwards.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID int64 `json:"uid"`

	// Email is the user's login email at issue time.
	Email string `json:"email"`

	// Role is the user's role within their organization.
	Role domain.Role `json:"role"`

	// OrganizationID is the user's tenant. Nil means the user has no
	// organization; downstream task operations must reject such identities.
	OrganizationID *int64 `json:"org_id"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

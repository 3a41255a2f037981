package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/postgres"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// Demo credentials created by --seed. Strictly for local development.
const (
	seedOrganization = "Acme"
	seedPassword     = "pass123"
)

// seedDemoData creates a demo organization with one user per role. Running it
// twice is safe; an already seeded database is left untouched.
func seedDemoData(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	orgs := postgres.NewPostgresOrganizationStore(db, logger)
	users := postgres.NewPostgresUserStore(db, logger)

	if _, err := orgs.GetByName(ctx, seedOrganization); err == nil {
		logger.Info("seed organization already exists, skipping", "name", seedOrganization)
		return nil
	} else if !errors.Is(err, store.ErrOrganizationNotFound) {
		return fmt.Errorf("failed to check for existing seed data: %w", err)
	}

	now := time.Now().UTC()
	org := &domain.Organization{Name: seedOrganization, CreatedAt: now, UpdatedAt: now}
	if err := orgs.Create(ctx, org); err != nil {
		return fmt.Errorf("failed to create seed organization: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	for _, role := range []domain.Role{domain.RoleOwner, domain.RoleAdmin, domain.RoleViewer} {
		user := &domain.User{
			Email:          fmt.Sprintf("%s@acme.test", role),
			HashedPassword: string(hash),
			Role:           role,
			OrganizationID: &org.ID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := users.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create seed user %s: %w", user.Email, err)
		}
		logger.Info("seed user created", "email", user.Email, "role", string(role))
	}

	logger.Info("seed data created",
		"organization", seedOrganization,
		"organization_id", org.ID)
	return nil
}

// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidRole is returned when a role name is not one of the
	// known roles (viewer, admin, owner).
	ErrInvalidRole = errors.New("invalid role")

	// ErrEmptyEmail is returned when a user has no email address.
	ErrEmptyEmail = errors.New("email cannot be empty")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrEmptyHashedPassword is returned when a user record carries no
	// password hash.
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")

	// ErrEmptyTitle is returned when a task has no title.
	ErrEmptyTitle = errors.New("title is required")

	// ErrMissingOrganization is returned when an operation requires a
	// tenant but the identity carries no organization.
	ErrMissingOrganization = errors.New("organization ID missing")

	// ErrEmptyOrganizationName is returned when an organization has no name.
	ErrEmptyOrganizationName = errors.New("organization name cannot be empty")
)

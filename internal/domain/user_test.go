package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validUser() User {
	orgID := int64(1)
	return User{
		ID:             1,
		Email:          "admin@acme.test",
		HashedPassword: "$2a$10$notarealhashbutnotempty",
		Role:           RoleAdmin,
		OrganizationID: &orgID,
	}
}

func TestUserValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*User)
		wantErr error
	}{
		{name: "valid user", mutate: func(u *User) {}},
		{name: "empty email", mutate: func(u *User) { u.Email = "" }, wantErr: ErrEmptyEmail},
		{name: "no at sign", mutate: func(u *User) { u.Email = "acme.test" }, wantErr: ErrInvalidEmail},
		{name: "no local part", mutate: func(u *User) { u.Email = "@acme.test" }, wantErr: ErrInvalidEmail},
		{name: "no domain", mutate: func(u *User) { u.Email = "admin@" }, wantErr: ErrInvalidEmail},
		{name: "undotted domain", mutate: func(u *User) { u.Email = "admin@acme" }, wantErr: ErrInvalidEmail},
		{name: "trailing dot", mutate: func(u *User) { u.Email = "admin@acme." }, wantErr: ErrInvalidEmail},
		{name: "unknown role", mutate: func(u *User) { u.Role = Role("superuser") }, wantErr: ErrInvalidRole},
		{name: "empty hash", mutate: func(u *User) { u.HashedPassword = "" }, wantErr: ErrEmptyHashedPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			u := validUser()
			tt.mutate(&u)
			err := u.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

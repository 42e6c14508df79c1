package domain

import (
	"fmt"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleStandard      Role = "standard"
	RoleAdministrator Role = "administrator"
)

// ParseRole validates s against the closed role set.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleStandard, RoleAdministrator:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// Store field names for accounts. Patches and indexes refer to these.
const (
	FieldEmail        = "email"
	FieldFirstName    = "first_name"
	FieldLastName     = "last_name"
	FieldPasswordHash = "password_hash"
	FieldRole         = "role"
	FieldCreatedAt    = "created_at"
	FieldUpdatedAt    = "updated_at"
)

// Account is the public view of an account. It carries no secret material.
type Account struct {
	ID        string    `json:"id" bson:"_id"`
	Email     string    `json:"email" bson:"email"`
	FirstName string    `json:"first_name" bson:"first_name"`
	LastName  string    `json:"last_name" bson:"last_name"`
	Role      Role      `json:"role" bson:"role"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// AccountRecord is the persisted form of an account, including the password
// digest. It never leaves the account directory.
type AccountRecord struct {
	Account      `bson:",inline"`
	PasswordHash string `json:"-" bson:"password_hash"`
}

// RecordID satisfies ports.Record.
func (r *AccountRecord) RecordID() string { return r.ID }

// Public returns a copy of the account without the digest.
func (r *AccountRecord) Public() *Account {
	a := r.Account
	return &a
}

// NewAccountInput carries the fields needed to create an account. Password is
// plaintext and is hashed by the directory before persisting.
type NewAccountInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      Role
}

// AccountChanges is a sparse update. Nil fields are left untouched; non-nil
// fields are applied even when they hold the zero value.
type AccountChanges struct {
	ID        string
	Email     *string
	FirstName *string
	LastName  *string
	Password  *string
	Role      *Role
}

package domain

import (
	"context"
	"time"
)

// Profile represents a registered organizer account.
// swagger:model Profile
type Profile struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"`
	Organization string    `json:"organization,omitempty"`
	Role         *Role     `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewProfile returns a new Profile with the given fields. ID is typically set by the repository on create.
func NewProfile(email, firstName, lastName, passwordHash, phone, organization string, role *Role, createdAt, updatedAt time.Time) *Profile {
	return &Profile{
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
		Phone:        phone,
		Organization: organization,
		Role:         role,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// Role represents an application role (e.g. ROLE_USER, ROLE_ADMIN)
// swagger:model Role
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewRole returns a new Role with the given id and name.
func NewRole(id int64, name string) *Role {
	return &Role{ID: id, Name: name}
}

// RegisterInput carries the validated sign-up fields. Password is plaintext and must never be logged.
type RegisterInput struct {
	Email        string
	FirstName    string
	LastName     string
	Password     string
	Phone        string
	Organization string
	RoleID       int64
}

// PasswordHasher hashes and verifies credentials.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	Hash(password string) (hash string, err error)
	Verify(password, hash string) bool
}

// TokenIssuer issues signed identity tokens (e.g. JWT) for an authenticated subject.
type TokenIssuer interface {
	Issue(subject string, roles []string, now time.Time) (string, error)
}

// TokenVerifier verifies a token's signature and expiry and returns its subject and roles.
type TokenVerifier interface {
	Verify(token string) (subject string, roles []string, err error)
}

// ProfileRepository defines the interface for profile storage
type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RoleRepository defines the interface for role storage
type RoleRepository interface {
	GetByID(ctx context.Context, id int64) (*Role, error)
	List(ctx context.Context) ([]*Role, error)
}

// ProfileService defines registration and authentication.
type ProfileService interface {
	Register(ctx context.Context, input RegisterInput) (*Profile, error)
	Authenticate(ctx context.Context, email, password string) (token string, err error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
}

// RoleService lists the roles a profile can register with.
type RoleService interface {
	List(ctx context.Context) ([]*Role, error)
}

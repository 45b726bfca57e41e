package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/talentgrid/ctms/pkg/kernel"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleHR    Role = "hr"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleHR
}

func (r Role) String() string { return string(r) }

// User is a staff account. Candidates are not users; they never log in.
type User struct {
	ID           kernel.UserID    `json:"id" db:"id"`
	FirstName    kernel.FirstName `json:"first_name" db:"first_name"`
	LastName     kernel.LastName  `json:"last_name" db:"last_name"`
	Email        kernel.Email     `json:"email" db:"email"`
	PasswordHash string           `json:"-" db:"password_hash"`
	Role         Role             `json:"role" db:"role"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
}

func New(firstName, lastName string, email kernel.Email, passwordHash string, role Role) *User {
	now := time.Now()
	return &User{
		ID:           kernel.NewUserID(uuid.NewString()),
		FirstName:    kernel.FirstName(firstName),
		LastName:     kernel.LastName(lastName),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) FullName() string {
	return u.FirstName.String() + " " + u.LastName.String()
}

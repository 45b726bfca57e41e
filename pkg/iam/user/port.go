package user

import (
	"context"

	"github.com/talentgrid/ctms/pkg/kernel"
)

type Repository interface {
	Save(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id kernel.UserID) (*User, error)
	FindByEmail(ctx context.Context, email kernel.Email) (*User, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
	CountByRole(ctx context.Context, role Role) (int, error)
	Delete(ctx context.Context, id kernel.UserID) error
}

package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/nuam/calificaciones/internal/domain/shared"
)

// UserRepository provides persistence for users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByRut(ctx context.Context, rut string) (bool, error)
	FindAll(ctx context.Context, emailContains string, filter shared.Filter) ([]User, int64, error)
	FindByRole(ctx context.Context, role Role) ([]User, error)
	Save(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

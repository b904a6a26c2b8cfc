package ports

import (
	"context"

	"github.com/verikey/otp-service/internal/core/domain"
)

// UserRepository defines the interface for user persistence.
//
// Create must enforce the singleton-admin constraint atomically: when the
// candidate carries domain.RoleAdmin and an admin already exists, it fails
// with domain.ErrAdminAlreadyExists and writes nothing, even when two admin
// registrations race. A check-then-insert done as two steps is not an
// acceptable implementation.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

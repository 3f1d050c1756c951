package repository

import (
	"context"

	"github.com/fastygo/todo/domain"
)

// UserRepository persists users together with their authorities.
type UserRepository interface {
	// Create stores the user and its initial authorities in one transaction
	// and returns the generated id.
	Create(ctx context.Context, user *domain.User, roles ...domain.Role) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	IDByUsername(ctx context.Context, username string) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]domain.User, error)
	// Delete removes the user with its tasks and authorities and returns the
	// row as it was before deletion.
	Delete(ctx context.Context, id int64) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Credentials(ctx context.Context, username string) (*domain.Credentials, error)
	GrantRole(ctx context.Context, username string, role domain.Role) error
}

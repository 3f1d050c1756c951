package repository

import (
	"context"

	"github.com/fastygo/todo/domain"
)

// TaskRepository persists tasks. Every lookup is scoped by owner; the per-owner
// task id is assigned by Create.
type TaskRepository interface {
	// Create assigns the next id in the owner's sequence, stores the task and
	// returns the id.
	Create(ctx context.Context, task *domain.Task) (int64, error)
	Get(ctx context.Context, taskID, userID int64) (*domain.Task, error)
	Exists(ctx context.Context, taskID, userID int64) (bool, error)
	List(ctx context.Context, userID int64) ([]domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	// Delete removes the task and returns the row as it was before deletion.
	Delete(ctx context.Context, taskID, userID int64) (*domain.Task, error)
	Count(ctx context.Context, userID int64) (int64, error)
}

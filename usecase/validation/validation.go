// Package validation gates every task and user operation on field presence and
// ownership before anything reaches storage. Checks never write.
package validation

import (
	"context"
	"fmt"

	"github.com/fastygo/todo/domain"
)

// TaskLookup answers whether a task exists under a given owner.
type TaskLookup interface {
	Exists(ctx context.Context, taskID, userID int64) (bool, error)
}

// UserLookup answers whether a user id exists.
type UserLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Validator runs the existence-backed checks. Field checks are plain functions.
type Validator struct {
	tasks TaskLookup
	users UserLookup
}

func New(tasks TaskLookup, users UserLookup) *Validator {
	return &Validator{tasks: tasks, users: users}
}

// ValidateTaskFields fails when title or description is empty.
// Whitespace-only values are accepted.
func ValidateTaskFields(title, description string) error {
	if title == "" || description == "" {
		return domain.ErrInvalidTaskFields
	}
	return nil
}

// ValidateUserFields fails when any of the three fields is empty.
func ValidateUserFields(username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return domain.ErrInvalidUserFields
	}
	return nil
}

// ValidateUsername fails when username is empty.
func ValidateUsername(username string) error {
	if username == "" {
		return domain.ErrInvalidUsername
	}
	return nil
}

// TaskOwnership fails with domain.ErrTaskNotFound unless taskID exists among
// userID's tasks. Non-positive ids simply never match.
func (v *Validator) TaskOwnership(ctx context.Context, taskID, userID int64) error {
	ok, err := v.tasks.Exists(ctx, taskID, userID)
	if err != nil {
		return fmt.Errorf("check task ownership: %w", err)
	}
	if !ok {
		return domain.ErrTaskNotFound
	}
	return nil
}

// UserID fails with domain.ErrUserNotFound when no user has the given id.
func (v *Validator) UserID(ctx context.Context, id int64) error {
	ok, err := v.users.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check user id: %w", err)
	}
	if !ok {
		return domain.ErrUserNotFound
	}
	return nil
}

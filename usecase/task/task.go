package task

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/pkg/logger"
	"github.com/fastygo/todo/repository"
	"github.com/fastygo/todo/usecase/validation"
)

type UseCase struct {
	tasks     repository.TaskRepository
	validator *validation.Validator
	logger    *zap.Logger
}

func New(tasks repository.TaskRepository, validator *validation.Validator, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:     tasks,
		validator: validator,
		logger:    logger,
	}
}

// CreateTask stores a new task for ownerID and returns its per-owner id.
func (uc *UseCase) CreateTask(ctx context.Context, ownerID int64, title, description string) (int64, error) {
	if err := validation.ValidateTaskFields(title, description); err != nil {
		return 0, err
	}

	id, err := uc.tasks.Create(ctx, &domain.Task{
		UserID:      ownerID,
		Title:       title,
		Description: description,
	})
	if err != nil {
		return 0, fmt.Errorf("create task: %w", err)
	}

	logger.WithRequestID(ctx, uc.logger).Info("task created",
		zap.Int64("user_id", ownerID), zap.Int64("task_id", id))
	return id, nil
}

func (uc *UseCase) GetTask(ctx context.Context, taskID, ownerID int64) (*domain.Task, error) {
	if err := uc.validator.TaskOwnership(ctx, taskID, ownerID); err != nil {
		return nil, err
	}
	return uc.tasks.Get(ctx, taskID, ownerID)
}

// CheckOwnership fails with domain.ErrTaskNotFound unless ownerID owns taskID.
func (uc *UseCase) CheckOwnership(ctx context.Context, taskID, ownerID int64) error {
	return uc.validator.TaskOwnership(ctx, taskID, ownerID)
}

// UpdateTask checks ownership before looking at the new fields, so a foreign
// or missing task always reports not found.
func (uc *UseCase) UpdateTask(ctx context.Context, taskID, ownerID int64, title, description string) error {
	if err := uc.validator.TaskOwnership(ctx, taskID, ownerID); err != nil {
		return err
	}
	if err := validation.ValidateTaskFields(title, description); err != nil {
		return err
	}

	if err := uc.tasks.Update(ctx, &domain.Task{
		ID:          taskID,
		UserID:      ownerID,
		Title:       title,
		Description: description,
	}); err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	logger.WithRequestID(ctx, uc.logger).Info("task updated",
		zap.Int64("user_id", ownerID), zap.Int64("task_id", taskID))
	return nil
}

// DeleteTask removes the task and returns its state before deletion.
func (uc *UseCase) DeleteTask(ctx context.Context, taskID, ownerID int64) (*domain.Task, error) {
	if err := uc.validator.TaskOwnership(ctx, taskID, ownerID); err != nil {
		return nil, err
	}

	deleted, err := uc.tasks.Delete(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("task deleted",
		zap.Int64("user_id", ownerID), zap.Int64("task_id", taskID))
	return deleted, nil
}

func (uc *UseCase) ListTasks(ctx context.Context, ownerID int64) ([]domain.Task, error) {
	tasks, err := uc.tasks.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

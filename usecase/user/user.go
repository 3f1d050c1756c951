package user

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/password"
	"github.com/fastygo/todo/pkg/logger"
	"github.com/fastygo/todo/repository"
	"github.com/fastygo/todo/usecase/validation"
)

type UseCase struct {
	users     repository.UserRepository
	validator *validation.Validator
	hasher    password.Hasher
	logger    *zap.Logger
}

func New(users repository.UserRepository, validator *validation.Validator, hasher password.Hasher, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:     users,
		validator: validator,
		hasher:    hasher,
		logger:    logger,
	}
}

// CreateUser registers a user with the USER authority plus any extra roles
// and returns the new id.
func (uc *UseCase) CreateUser(ctx context.Context, username, email, rawPassword string, extra ...domain.Role) (int64, error) {
	if err := validation.ValidateUserFields(username, email, rawPassword); err != nil {
		return 0, err
	}

	hash, err := uc.hasher.Hash(rawPassword)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	roles := append([]domain.Role{domain.RoleUser}, extra...)
	id, err := uc.users.Create(ctx, &domain.User{
		Username: username,
		Email:    email,
		Password: hash,
	}, roles...)
	if err != nil {
		return 0, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("user registered",
		zap.Int64("user_id", id), zap.String("username", username))
	return id, nil
}

func (uc *UseCase) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	if err := uc.validator.UserID(ctx, id); err != nil {
		return nil, err
	}
	return uc.users.GetByID(ctx, id)
}

// DeleteUser removes the user with all owned tasks and returns its prior state.
func (uc *UseCase) DeleteUser(ctx context.Context, id int64) (*domain.User, error) {
	if err := uc.validator.UserID(ctx, id); err != nil {
		return nil, err
	}

	deleted, err := uc.users.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("user deleted", zap.Int64("user_id", id))
	return deleted, nil
}

func (uc *UseCase) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := uc.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetUserIDByUsername resolves a principal name into a user id.
func (uc *UseCase) GetUserIDByUsername(ctx context.Context, username string) (int64, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return 0, err
	}
	return uc.users.IDByUsername(ctx, username)
}

// GrantRole adds role to an existing user. Granting a role twice is a no-op.
func (uc *UseCase) GrantRole(ctx context.Context, username string, role domain.Role) error {
	if err := validation.ValidateUsername(username); err != nil {
		return err
	}
	if err := uc.users.GrantRole(ctx, username, role); err != nil {
		return err
	}
	logger.WithRequestID(ctx, uc.logger).Info("role granted",
		zap.String("username", username), zap.String("role", string(role)))
	return nil
}

package auth

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/password"
	"github.com/fastygo/todo/pkg/logger"
	"github.com/fastygo/todo/repository"
)

type UseCase struct {
	users  repository.UserRepository
	hasher password.Hasher
	logger *zap.Logger

	// compared against when the username is unknown, so both paths pay for a hash
	decoy string
}

func New(users repository.UserRepository, hasher password.Hasher, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	decoy, err := hasher.Hash("decoy-password")
	if err != nil {
		logger.Warn("failed to prepare decoy hash", zap.Error(err))
	}
	return &UseCase{
		users:  users,
		hasher: hasher,
		logger: logger,
		decoy:  decoy,
	}
}

// Authenticate verifies basic-auth credentials and returns the principal.
// Every failure collapses into domain.ErrUnauthorized except storage errors.
func (uc *UseCase) Authenticate(ctx context.Context, username, plain string) (*domain.Principal, error) {
	if username == "" || plain == "" {
		return nil, domain.ErrUnauthorized
	}

	creds, err := uc.users.Credentials(ctx, username)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			if uc.decoy != "" {
				_, _ = uc.hasher.Compare(uc.decoy, plain)
			}
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	ok, err := uc.hasher.Compare(creds.PasswordHash, plain)
	if err != nil {
		logger.WithRequestID(ctx, uc.logger).Warn("stored password is not a valid hash",
			zap.Int64("user_id", creds.UserID), zap.Error(err))
		return nil, domain.ErrUnauthorized
	}
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	return &domain.Principal{
		UserID:   creds.UserID,
		Username: creds.Username,
		Roles:    creds.Roles,
	}, nil
}

// RehashLegacyPasswords hashes every stored password that is not a bcrypt
// hash yet and returns how many users were rewritten.
func (uc *UseCase) RehashLegacyPasswords(ctx context.Context) (int, error) {
	users, err := uc.users.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	rewritten := 0
	for _, u := range users {
		if u.Password == "" || uc.hasher.IsHashed(u.Password) {
			continue
		}
		hash, err := uc.hasher.Hash(u.Password)
		if err != nil {
			return rewritten, fmt.Errorf("hash password of user %d: %w", u.ID, err)
		}
		if err := uc.users.UpdatePassword(ctx, u.ID, hash); err != nil {
			return rewritten, fmt.Errorf("store password of user %d: %w", u.ID, err)
		}
		rewritten++
	}

	if rewritten > 0 {
		uc.logger.Info("legacy passwords rehashed", zap.Int("count", rewritten))
	}
	return rewritten, nil
}

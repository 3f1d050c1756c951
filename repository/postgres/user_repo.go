package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

type userRepository struct {
	db DB
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(db DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User, roles ...domain.Role) (int64, error) {
	if user == nil {
		return 0, domain.ErrInvalidPayload
	}

	const insertUser = `
	INSERT INTO users (username, email, password)
	VALUES ($1, $2, $3)
	RETURNING id
	`
	const insertAuthority = `
	INSERT INTO authorities (username, authority, user_id)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id, authority) DO NOTHING
	`

	var id int64
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insertUser, user.Username, user.Email, user.Password).Scan(&id); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrUsernameTaken
			}
			return fmt.Errorf("insert user: %w", err)
		}
		for _, role := range roles {
			if _, err := tx.Exec(ctx, insertAuthority, user.Username, string(role), id); err != nil {
				return fmt.Errorf("insert authority: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	user.ID = id
	return id, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
		SELECT id, username, email, password
		FROM users
		WHERE id = $1
	`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepository) IDByUsername(ctx context.Context, username string) (int64, error) {
	const query = `SELECT id FROM users WHERE username = $1`
	var id int64
	if err := r.db.QueryRow(ctx, query, username).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrUserNotFound
		}
		return 0, err
	}
	return id, nil
}

func (r *userRepository) Exists(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`
	var ok bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `
		SELECT id, username, email, password
		FROM users
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// Delete relies on ON DELETE CASCADE to drop tasks, authorities and the task sequence.
func (r *userRepository) Delete(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
		DELETE FROM users
		WHERE id = $1
		RETURNING id, username, email, password
	`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const query = `UPDATE users SET password = $2 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Credentials(ctx context.Context, username string) (*domain.Credentials, error) {
	const query = `
		SELECT u.id, u.username, u.password, a.authority
		FROM users u
		LEFT JOIN authorities a ON a.user_id = u.id
		WHERE u.username = $1
		ORDER BY a.authority
	`
	rows, err := r.db.Query(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var creds *domain.Credentials
	for rows.Next() {
		var (
			c         domain.Credentials
			authority *string
		)
		if err := rows.Scan(&c.UserID, &c.Username, &c.PasswordHash, &authority); err != nil {
			return nil, err
		}
		if creds == nil {
			creds = &c
		}
		if authority == nil {
			continue
		}
		if role, ok := domain.ParseRole(*authority); ok {
			creds.Roles = append(creds.Roles, role)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if creds == nil {
		return nil, domain.ErrUserNotFound
	}
	return creds, nil
}

func (r *userRepository) GrantRole(ctx context.Context, username string, role domain.Role) error {
	id, err := r.IDByUsername(ctx, username)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO authorities (username, authority, user_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, authority) DO NOTHING
	`
	_, err = r.db.Exec(ctx, query, username, string(role), id)
	return err
}

func scanUser(row scanner) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Password); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

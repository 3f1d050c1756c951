package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository instantiates a SQLite-backed user repository.
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const insertAuthority = `
	INSERT INTO authorities (username, authority, user_id)
	VALUES (?, ?, ?)
	ON CONFLICT (user_id, authority) DO NOTHING
`

func (r *userRepository) Create(ctx context.Context, user *domain.User, roles ...domain.Role) (int64, error) {
	if user == nil {
		return 0, domain.ErrInvalidPayload
	}

	const insertUser = `
	INSERT INTO users (username, email, password)
	VALUES (?, ?, ?)
	RETURNING id
	`

	var id int64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, insertUser, user.Username, user.Email, user.Password).Scan(&id); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrUsernameTaken
			}
			return fmt.Errorf("insert user: %w", err)
		}
		for _, role := range roles {
			if _, err := tx.ExecContext(ctx, insertAuthority, user.Username, string(role), id); err != nil {
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
		WHERE id = ?
	`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) IDByUsername(ctx context.Context, username string) (int64, error) {
	const query = `SELECT id FROM users WHERE username = ?`
	var id int64
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrUserNotFound
		}
		return 0, err
	}
	return id, nil
}

func (r *userRepository) Exists(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&ok); err != nil {
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
	rows, err := r.db.QueryContext(ctx, query)
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

// Delete relies on ON DELETE CASCADE, which needs foreign_keys enabled on the connection.
func (r *userRepository) Delete(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
		DELETE FROM users
		WHERE id = ?
		RETURNING id, username, email, password
	`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const query = `UPDATE users SET password = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Credentials(ctx context.Context, username string) (*domain.Credentials, error) {
	const query = `
		SELECT u.id, u.username, u.password, a.authority
		FROM users u
		LEFT JOIN authorities a ON a.user_id = u.id
		WHERE u.username = ?
		ORDER BY a.authority
	`
	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var creds *domain.Credentials
	for rows.Next() {
		var (
			c         domain.Credentials
			authority sql.NullString
		)
		if err := rows.Scan(&c.UserID, &c.Username, &c.PasswordHash, &authority); err != nil {
			return nil, err
		}
		if creds == nil {
			creds = &c
		}
		if !authority.Valid {
			continue
		}
		if role, ok := domain.ParseRole(authority.String); ok {
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
	_, err = r.db.ExecContext(ctx, insertAuthority, username, string(role), id)
	return err
}

func scanUser(row scanner) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Password); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

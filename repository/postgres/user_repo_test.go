package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/todo/domain"
)

var userColumns = []string{"id", "username", "email", "password"}

func TestUserCreate_GrantsRoles(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Alice", "alice@example.com", "$2a$hash").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectExec(`INSERT INTO authorities`).
		WithArgs("Alice", "USER", int64(3)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO authorities`).
		WithArgs("Alice", "ADMIN", int64(3)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	expectTxEnd(mock)

	user := &domain.User{Username: "Alice", Email: "alice@example.com", Password: "$2a$hash"}
	id, err := repo.Create(context.Background(), user, domain.RoleUser, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	assert.Equal(t, int64(3), user.ID)
}

func TestUserCreate_DuplicateUsername(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Alice", "alice@example.com", "h").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})
	mock.ExpectRollback()
	expectTxEnd(mock)

	_, err := repo.Create(context.Background(), &domain.User{Username: "Alice", Email: "alice@example.com", Password: "h"}, domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestUserGetByID(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`FROM users\s+WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows(userColumns).AddRow(int64(3), "Alice", "alice@example.com", "$2a$hash"))
	mock.ExpectQuery(`FROM users\s+WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	user, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Username)

	_, err = repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserIDByUsername(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT id FROM users WHERE username`).
		WithArgs("Alice").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectQuery(`SELECT id FROM users WHERE username`).
		WithArgs("nobody").
		WillReturnError(pgx.ErrNoRows)

	id, err := repo.IDByUsername(context.Background(), "Alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)

	_, err = repo.IDByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserList(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`FROM users\s+ORDER BY id`).
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(int64(1), "admin", "admin@example.com", "h1").
			AddRow(int64(2), "Alice", "alice@example.com", "h2"))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Alice", users[1].Username)
}

func TestUserDelete(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`DELETE FROM users`).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows(userColumns).AddRow(int64(2), "Alice", "alice@example.com", "h2"))

	user, err := repo.Delete(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Username)
}

func TestUserUpdatePassword(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(`UPDATE users SET password`).
		WithArgs(int64(2), "$2a$new").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE users SET password`).
		WithArgs(int64(9), "$2a$new").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.UpdatePassword(context.Background(), 2, "$2a$new"))
	assert.ErrorIs(t, repo.UpdatePassword(context.Background(), 9, "$2a$new"), domain.ErrUserNotFound)
}

func TestUserCredentials(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	admin, user := "ADMIN", "ROLE_USER"
	mock.ExpectQuery(`LEFT JOIN authorities`).
		WithArgs("admin").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password", "authority"}).
			AddRow(int64(1), "admin", "$2a$hash", &admin).
			AddRow(int64(1), "admin", "$2a$hash", &user))

	creds, err := repo.Credentials(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(1), creds.UserID)
	assert.Equal(t, "$2a$hash", creds.PasswordHash)
	assert.ElementsMatch(t, []domain.Role{domain.RoleAdmin, domain.RoleUser}, creds.Roles)
}

func TestUserCredentials_Unknown(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`LEFT JOIN authorities`).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password", "authority"}))

	_, err := repo.Credentials(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserGrantRole(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT id FROM users WHERE username`).
		WithArgs("Alice").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectExec(`INSERT INTO authorities`).
		WithArgs("Alice", "ADMIN", int64(3)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.GrantRole(context.Background(), "Alice", domain.RoleAdmin))
}

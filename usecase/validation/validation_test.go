package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/todo/domain"
)

type ownerKey struct{ task, user int64 }

type fakeTasks struct {
	rows map[ownerKey]bool
	err  error
}

func (f *fakeTasks) Exists(_ context.Context, taskID, userID int64) (bool, error) {
	return f.rows[ownerKey{taskID, userID}], f.err
}

type fakeUsers struct {
	ids map[int64]bool
	err error
}

func (f *fakeUsers) Exists(_ context.Context, id int64) (bool, error) {
	return f.ids[id], f.err
}

func TestValidateTaskFields(t *testing.T) {
	cases := []struct {
		name        string
		title, desc string
		wantErr     bool
	}{
		{"both set", "Book tickets", "Vacation tickets to Hawaii", false},
		{"whitespace passes", " ", "\t", false},
		{"empty title", "", "desc", true},
		{"empty description", "title", "", true},
		{"both empty", "", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTaskFields(tc.title, tc.desc)
			if tc.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidTaskFields)
				assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateUserFields(t *testing.T) {
	assert.NoError(t, ValidateUserFields("Alice", "alice@example.com", "password123"))
	assert.ErrorIs(t, ValidateUserFields("", "alice@example.com", "password123"), domain.ErrInvalidUserFields)
	assert.ErrorIs(t, ValidateUserFields("Alice", "", "password123"), domain.ErrInvalidUserFields)
	assert.ErrorIs(t, ValidateUserFields("Alice", "alice@example.com", ""), domain.ErrInvalidUserFields)
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("Alice"))
	assert.ErrorIs(t, ValidateUsername(""), domain.ErrInvalidUsername)
}

func TestTaskOwnership(t *testing.T) {
	tasks := &fakeTasks{rows: map[ownerKey]bool{{task: 2, user: 1}: true}}
	v := New(tasks, &fakeUsers{})
	ctx := context.Background()

	require.NoError(t, v.TaskOwnership(ctx, 2, 1))
	assert.ErrorIs(t, v.TaskOwnership(ctx, 2, 7), domain.ErrTaskNotFound, "other owner")
	assert.ErrorIs(t, v.TaskOwnership(ctx, 3, 1), domain.ErrTaskNotFound, "unknown id")
	assert.ErrorIs(t, v.TaskOwnership(ctx, 0, 1), domain.ErrTaskNotFound)
	assert.ErrorIs(t, v.TaskOwnership(ctx, -1, 1), domain.ErrTaskNotFound)
}

func TestTaskOwnership_StorageError(t *testing.T) {
	boom := errors.New("db down")
	v := New(&fakeTasks{err: boom}, &fakeUsers{})

	err := v.TaskOwnership(context.Background(), 1, 1)
	assert.ErrorIs(t, err, boom)
	assert.False(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestUserID(t *testing.T) {
	v := New(&fakeTasks{}, &fakeUsers{ids: map[int64]bool{5: true}})
	ctx := context.Background()

	require.NoError(t, v.UserID(ctx, 5))
	assert.ErrorIs(t, v.UserID(ctx, 6), domain.ErrUserNotFound)
	assert.ErrorIs(t, v.UserID(ctx, 0), domain.ErrUserNotFound)
}

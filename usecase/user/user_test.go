package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/password"
	"github.com/fastygo/todo/usecase/validation"
)

type fakeUserRepo struct {
	users     map[int64]domain.User
	roles     map[int64][]domain.Role
	nextID    int64
	createErr error
	creates   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]domain.User{}, roles: map[int64][]domain.Role{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User, roles ...domain.Role) (int64, error) {
	f.creates++
	if f.createErr != nil {
		return 0, f.createErr
	}
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return 0, domain.ErrUsernameTaken
		}
	}
	f.nextID++
	u.ID = f.nextID
	f.users[u.ID] = *u
	f.roles[u.ID] = roles
	return u.ID, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) IDByUsername(_ context.Context, username string) (int64, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u.ID, nil
		}
	}
	return 0, domain.ErrUserNotFound
}

func (f *fakeUserRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUserRepo) List(context.Context) ([]domain.User, error) {
	var out []domain.User
	for i := int64(1); i <= f.nextID; i++ {
		if u, ok := f.users[i]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	delete(f.users, id)
	delete(f.roles, id)
	return &u, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	u := f.users[id]
	u.Password = hash
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) Credentials(context.Context, string) (*domain.Credentials, error) {
	return nil, errors.New("not used")
}

func (f *fakeUserRepo) GrantRole(ctx context.Context, username string, role domain.Role) error {
	id, err := f.IDByUsername(ctx, username)
	if err != nil {
		return err
	}
	f.roles[id] = append(f.roles[id], role)
	return nil
}

type noTasks struct{}

func (noTasks) Exists(context.Context, int64, int64) (bool, error) { return false, nil }

func newUseCase(repo *fakeUserRepo) *UseCase {
	return New(repo, validation.New(noTasks{}, repo), password.NewBcrypt(bcrypt.MinCost), nil)
}

func TestCreateUser_HashesPasswordAndGrantsUser(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newUseCase(repo)

	id, err := uc.CreateUser(context.Background(), "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	stored := repo.users[id]
	assert.NotEqual(t, "password123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password123")))
	assert.Equal(t, []domain.Role{domain.RoleUser}, repo.roles[id])
}

func TestCreateUser_ExtraRoles(t *testing.T) {
	repo := newFakeUserRepo()
	id, err := newUseCase(repo).CreateUser(context.Background(), "root", "root@example.com", "pw", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, []domain.Role{domain.RoleUser, domain.RoleAdmin}, repo.roles[id])
}

func TestCreateUser_InvalidFieldsDoNotInsert(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newUseCase(repo)

	for _, in := range [][3]string{
		{"", "a@b.c", "pw"},
		{"bob", "", "pw"},
		{"bob", "a@b.c", ""},
	} {
		_, err := uc.CreateUser(context.Background(), in[0], in[1], in[2])
		assert.ErrorIs(t, err, domain.ErrInvalidUserFields)
	}
	assert.Zero(t, repo.creates)
}

func TestCreateUser_Duplicate(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newUseCase(repo)

	_, err := uc.CreateUser(context.Background(), "Alice", "alice@example.com", "pw")
	require.NoError(t, err)
	_, err = uc.CreateUser(context.Background(), "Alice", "other@example.com", "pw")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))
}

func TestGetUser(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newUseCase(repo)
	ctx := context.Background()

	id, err := uc.CreateUser(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	u, err := uc.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)

	_, err = uc.GetUser(ctx, id+1)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newUseCase(repo)
	ctx := context.Background()

	id, err := uc.CreateUser(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	deleted, err := uc.DeleteUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Alice", deleted.Username)

	_, err = uc.DeleteUser(ctx, id)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestListUsers(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newUseCase(repo)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := uc.CreateUser(ctx, name, name+"@example.com", "pw")
		require.NoError(t, err)
	}
	users, err := uc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestGetUserIDByUsername(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newUseCase(repo)
	ctx := context.Background()

	id, err := uc.CreateUser(ctx, "Alice", "alice@example.com", "pw")
	require.NoError(t, err)

	got, err := uc.GetUserIDByUsername(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = uc.GetUserIDByUsername(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidUsername)

	_, err = uc.GetUserIDByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGrantRole(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newUseCase(repo)
	ctx := context.Background()

	id, err := uc.CreateUser(ctx, "Alice", "alice@example.com", "pw")
	require.NoError(t, err)

	require.NoError(t, uc.GrantRole(ctx, "Alice", domain.RoleAdmin))
	assert.Contains(t, repo.roles[id], domain.RoleAdmin)

	assert.ErrorIs(t, uc.GrantRole(ctx, "", domain.RoleAdmin), domain.ErrInvalidUsername)
	assert.ErrorIs(t, uc.GrantRole(ctx, "ghost", domain.RoleAdmin), domain.ErrUserNotFound)
}

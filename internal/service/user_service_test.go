package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store/memstore"
	"golang.org/x/crypto/bcrypt"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserStore) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()
	svc, err := service.NewUserService(memstore.NewUserStore(bcrypt.MinCost), testLogger())
	require.NoError(t, err)

	user, err := svc.CreateUser(ctx, "Editor@Streetcode.UA", "correct-horse-battery", domain.RoleEditor)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Empty(t, user.Password, "plaintext password must not survive storage")

	got, err := svc.GetUserByEmail(ctx, "editor@streetcode.ua")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.HashedPassword), []byte("correct-horse-battery")))

	_, err = svc.CreateUser(ctx, "editor@streetcode.ua", "another-long-password", domain.RoleAdmin)
	assert.ErrorIs(t, err, store.ErrEmailExists)

	_, err = svc.CreateUser(ctx, "short@streetcode.ua", "short", domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrPasswordTooShort)

	_, err = svc.CreateUser(ctx, "role@streetcode.ua", "correct-horse-battery", "owner")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestUserService_EnsureUser(t *testing.T) {
	ctx := context.Background()
	svc, err := service.NewUserService(memstore.NewUserStore(bcrypt.MinCost), testLogger())
	require.NoError(t, err)

	first, created, err := svc.EnsureUser(ctx, "admin@streetcode.ua", "correct-horse-battery", domain.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.EnsureUser(ctx, "admin@streetcode.ua", "a-different-password", domain.RoleEditor)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, domain.RoleAdmin, second.Role)
}

func TestUserService_UpdateUserPassword(t *testing.T) {
	userID := uuid.New()
	newPassword := "NewPassword123!"

	existing := func() *domain.User {
		return &domain.User{
			ID:             userID,
			Email:          "user@example.com",
			HashedPassword: "hashed_password123",
			Role:           domain.RoleEditor,
			CreatedAt:      time.Now().Add(-24 * time.Hour),
			UpdatedAt:      time.Now().Add(-24 * time.Hour),
		}
	}

	t.Run("successful update", func(t *testing.T) {
		users := new(mockUserStore)
		users.On("GetByID", mock.Anything, userID).Return(existing(), nil)
		users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.ID == userID &&
				u.Password == newPassword &&
				u.HashedPassword == "hashed_password123"
		})).Return(nil)

		svc, err := service.NewUserService(users, testLogger())
		require.NoError(t, err)

		require.NoError(t, svc.UpdateUserPassword(context.Background(), userID, newPassword))
		users.AssertExpectations(t)
	})

	t.Run("user not found", func(t *testing.T) {
		users := new(mockUserStore)
		users.On("GetByID", mock.Anything, userID).Return(nil, store.ErrUserNotFound)

		svc, err := service.NewUserService(users, testLogger())
		require.NoError(t, err)

		err = svc.UpdateUserPassword(context.Background(), userID, newPassword)
		assert.True(t, errors.Is(err, store.ErrUserNotFound))
		users.AssertExpectations(t)
	})

	t.Run("store rejects password", func(t *testing.T) {
		users := new(mockUserStore)
		users.On("GetByID", mock.Anything, userID).Return(existing(), nil)
		users.On("Update", mock.Anything, mock.Anything).Return(domain.ErrPasswordTooShort)

		svc, err := service.NewUserService(users, testLogger())
		require.NoError(t, err)

		err = svc.UpdateUserPassword(context.Background(), userID, "short")
		assert.ErrorIs(t, err, domain.ErrValidation)
		users.AssertExpectations(t)
	})
}

func TestUserService_UpdateUserRole(t *testing.T) {
	ctx := context.Background()
	svc, err := service.NewUserService(memstore.NewUserStore(bcrypt.MinCost), testLogger())
	require.NoError(t, err)

	user, err := svc.CreateUser(ctx, "editor@streetcode.ua", "correct-horse-battery", domain.RoleEditor)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateUserRole(ctx, user.ID, domain.RoleAdmin))
	got, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())

	assert.ErrorIs(t, svc.UpdateUserRole(ctx, user.ID, "root"), domain.ErrInvalidRole)
	assert.ErrorIs(t, svc.UpdateUserRole(ctx, uuid.New(), domain.RoleAdmin), store.ErrUserNotFound)
}

func TestUserService_DeleteUser(t *testing.T) {
	ctx := context.Background()
	svc, err := service.NewUserService(memstore.NewUserStore(bcrypt.MinCost), testLogger())
	require.NoError(t, err)

	user, err := svc.CreateUser(ctx, "gone@streetcode.ua", "correct-horse-battery", domain.RoleEditor)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, user.ID))
	_, err = svc.GetUser(ctx, user.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.ErrorIs(t, svc.DeleteUser(ctx, user.ID), store.ErrUserNotFound)
}

func TestNewUserService_NilStore(t *testing.T) {
	_, err := service.NewUserService(nil, testLogger())
	assert.Error(t, err)
}

package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("admin@streetcode.com.ua", "correct-horse-battery", RoleAdmin)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.True(t, user.IsAdmin())
	assert.False(t, user.CreatedAt.IsZero())

	_, err = NewUser("admin", "correct-horse-battery", RoleAdmin)
	assert.Equal(t, ErrInvalidEmail, err)

	_, err = NewUser("admin@streetcode.com.ua", "short", RoleAdmin)
	assert.Equal(t, ErrPasswordTooShort, err)

	_, err = NewUser("admin@streetcode.com.ua", strings.Repeat("p", 73), RoleAdmin)
	assert.Equal(t, ErrPasswordTooLong, err)

	_, err = NewUser("admin@streetcode.com.ua", "correct-horse-battery", "root")
	assert.Equal(t, ErrInvalidRole, err)
}

func TestUserValidateStored(t *testing.T) {
	t.Parallel()

	user := User{ID: uuid.New(), Email: "editor@streetcode.com.ua", Role: RoleEditor}
	assert.Equal(t, ErrEmptyPassword, user.Validate())

	user.HashedPassword = "$2a$10$hash"
	assert.NoError(t, user.Validate())
	assert.False(t, user.IsAdmin())
}

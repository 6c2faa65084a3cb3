package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eugeniogarcia/django/internal/testutil"
	"github.com/eugeniogarcia/django/internal/user"
)

func TestCreateSuperuser(t *testing.T) {
	ctx := context.Background()
	users := user.NewRepository(testutil.SQLite(t, &user.User{}))

	u, err := CreateSuperuser(ctx, users, "root", "root@example.com", "long-enough")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
	assert.True(t, CheckPassword(u.PasswordHash, "long-enough"))

	isAdmin, err := users.IsAdmin(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	_, err = CreateSuperuser(ctx, users, "root", "", "long-enough")
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = CreateSuperuser(ctx, users, "other", "", "short")
	assert.Error(t, err)
}

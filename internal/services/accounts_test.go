package services

import (
	"context"
	"testing"
	"yatube/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.accounts.Register(ctx, " Bascow ", "long-enough")
	require.NoError(t, err)
	assert.Equal(t, "Bascow", user.Username)
	assert.NotEqual(t, "long-enough", user.Password)

	got, err := env.accounts.Authenticate(ctx, "Bascow", "long-enough")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = env.accounts.Authenticate(ctx, "Bascow", "wrong-password")
	assert.ErrorIs(t, err, errs.InvalidCredentials)

	_, err = env.accounts.Authenticate(ctx, "nobody", "long-enough")
	assert.ErrorIs(t, err, errs.InvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.Register(ctx, "", "long-enough")
	assert.ErrorIs(t, err, errs.UsernameRequired)

	_, err = env.accounts.Register(ctx, "short", "1234")
	assert.ErrorIs(t, err, errs.PasswordTooShort)

	_, err = env.accounts.Register(ctx, "taken", "long-enough")
	require.NoError(t, err)
	_, err = env.accounts.Register(ctx, "taken", "long-enough")
	assert.ErrorIs(t, err, errs.UsernameTaken)
}

package services

import (
	"context"
	"testing"
	"time"

	"shelterfund/internal/repositories/memory"
	"shelterfund/internal/validators"
	"shelterfund/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (AuthService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewAuthService(store.Users(), "test-secret", time.Hour, logger.NewNop())
	// Keep bcrypt fast in tests.
	svc.(*authService).bcryptCost = 4
	return svc, store
}

func validRegister() *validators.RegisterRequest {
	return &validators.RegisterRequest{
		DisplayName:     "Ayşe",
		Email:           " Ayse@Example.com ",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Gender:          "Female",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, store := newAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)
	assert.True(t, registered.IsNewUser)
	assert.Equal(t, "Bearer", registered.TokenType)
	assert.NotEmpty(t, registered.AccessToken)
	assert.Equal(t, "ayse@example.com", registered.User.Email)
	assert.Empty(t, registered.User.City)

	stored, err := store.Users().GetByEmail(ctx, "ayse@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.Password)

	loggedIn, err := svc.Login(ctx, &validators.LoginRequest{Email: "AYSE@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.False(t, loggedIn.IsNewUser)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	claims, err := svc.ValidateToken(ctx, loggedIn.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	_, err = svc.Register(ctx, validRegister())
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newAuthService(t)

	tests := []struct {
		name   string
		mutate func(r *validators.RegisterRequest)
		field  string
	}{
		{name: "bad email", mutate: func(r *validators.RegisterRequest) { r.Email = "not-an-email" }, field: "email"},
		{name: "short password", mutate: func(r *validators.RegisterRequest) { r.Password, r.ConfirmPassword = "abc", "abc" }, field: "password"},
		{name: "confirm mismatch", mutate: func(r *validators.RegisterRequest) { r.ConfirmPassword = "other1" }, field: "confirm_password"},
		{name: "blank name", mutate: func(r *validators.RegisterRequest) { r.DisplayName = "  " }, field: "display_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := validRegister()
			tt.mutate(request)

			_, err := svc.Register(context.Background(), request)
			var verrs validators.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.Details(), tt.field)
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	_, err = svc.Login(ctx, &validators.LoginRequest{Email: "ayse@example.com", Password: "wrong-password"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &validators.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken_Rejects(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.ValidateToken(context.Background(), "garbage")
	require.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService(memory.NewStore().Users(), "other-secret", time.Hour, logger.NewNop())
	other.(*authService).bcryptCost = 4
	registered, err := other.Register(context.Background(), validRegister())
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), registered.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

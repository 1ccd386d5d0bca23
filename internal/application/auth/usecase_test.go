package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Materiales-api/internal/application/auth"
	"github.com/jhoicas/Materiales-api/internal/application/dto"
	"github.com/jhoicas/Materiales-api/internal/domain"
	"github.com/jhoicas/Materiales-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/Materiales-api/pkg/jwt"
)

const secret = "test-secret"

func newAuth() *auth.AuthUseCase {
	db := memory.New()
	return auth.NewAuthUseCase(db.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "test"}).
		WithBcryptCost(bcrypt.MinCost)
}

func TestRegisterYLogin(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()

	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: " ana ", Email: "ana@example.com", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, "ana", user.Username)
	assert.NotZero(t, user.ID)

	out, err := uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "secreta123"})
	require.NoError(t, err)
	userID, username, err := pkgjwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, "ana", username)

	me, err := uc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", me.Email)
}

func TestRegister_Validaciones(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Password: "secreta123"})
	require.NoError(t, err)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUsernameAlreadyTaken)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Password: "secreta123"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-pyme/internal/application/auth"
	"github.com/jhoicas/gestion-pyme/internal/application/dto"
	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/infrastructure/memory"
	"github.com/jhoicas/gestion-pyme/pkg/jwt"
	"github.com/jhoicas/gestion-pyme/pkg/logger"
)

const testSecret = "test-secret-key-for-unit-tests"

func newAuth() *auth.AuthUseCase {
	repos := memory.NewStore().Repos()
	return auth.NewAuthUseCase(repos.Users, auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "gestion-pyme-test"}, logger.Nop())
}

func TestLogin_EmiteTokenConIdentidad(t *testing.T) {
	ctx := context.Background()
	uc := newAuth()
	created, err := uc.CreateUser(ctx, dto.CreateUserRequest{Email: "Ana@Acme.test", Password: "secreta123", SuperAdmin: true})
	require.NoError(t, err)
	assert.Equal(t, "ana@acme.test", created.Email)

	res, user, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@acme.test", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	claims, err := jwt.Parse(testSecret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.True(t, claims.SuperAdmin)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	ctx := context.Background()
	uc := newAuth()
	_, err := uc.CreateUser(ctx, dto.CreateUserRequest{Email: "ana@acme.test", Password: "secreta123"})
	require.NoError(t, err)

	_, _, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@acme.test", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, _, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@acme.test", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCreateUser_EmailDuplicado(t *testing.T) {
	ctx := context.Background()
	uc := newAuth()
	_, err := uc.CreateUser(ctx, dto.CreateUserRequest{Email: "ana@acme.test", Password: "secreta123"})
	require.NoError(t, err)
	_, err = uc.CreateUser(ctx, dto.CreateUserRequest{Email: "ANA@acme.test", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

package jwt_test

import (
	"testing"

	"github.com/jhoicas/gestion-pyme/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse(t *testing.T) {
	token, err := jwt.Generate("s3cr3t", "user-1", true, "gestion-pyme", 5)
	require.NoError(t, err)

	claims, err := jwt.Parse("s3cr3t", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.True(t, claims.SuperAdmin)
	assert.Equal(t, "gestion-pyme", claims.Issuer)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("s3cr3t", "user-1", false, "gestion-pyme", 5)
	require.NoError(t, err)

	_, err = jwt.Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := jwt.Generate("s3cr3t", "user-1", false, "gestion-pyme", -1)
	require.NoError(t, err)

	_, err = jwt.Parse("s3cr3t", token)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "user-1", false, "x", 5)
	assert.Error(t, err)
}

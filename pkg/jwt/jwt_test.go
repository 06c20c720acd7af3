package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerarYParsear(t *testing.T) {
	token, err := Generate("secreto", "u1", "bar-centro", "mesero", "comanda", 5)
	require.NoError(t, err)

	userID, tenantID, role, err := Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, "bar-centro", tenantID)
	assert.Equal(t, "mesero", role)
}

func TestParsear_FirmaIncorrecta(t *testing.T) {
	token, err := Generate("secreto", "u1", "bar-centro", "admin", "comanda", 5)
	require.NoError(t, err)

	_, _, _, err = Parse("otro-secreto", token)
	assert.Error(t, err)
}

func TestParsear_Expirado(t *testing.T) {
	token, err := Generate("secreto", "u1", "bar-centro", "admin", "comanda", -1)
	require.NoError(t, err)

	_, _, _, err = Parse("secreto", token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParsear_SinTenant(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
		UserID:           "u1",
		Role:             "admin",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secreto"))
	require.NoError(t, err)

	_, _, _, err = Parse("secreto", token)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := Generate("", "u1", "t1", "admin", "comanda", 5)
	assert.Error(t, err)
	_, _, _, err = Parse("", "x.y.z")
	assert.Error(t, err)
}

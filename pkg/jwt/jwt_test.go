package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/Materiales-api/pkg/jwt"
)

func TestGenerateYParse(t *testing.T) {
	tok, err := pkgjwt.Generate("s3cr3t", 42, "ana", "materiales-test", 5)
	require.NoError(t, err)

	userID, username, err := pkgjwt.Parse("s3cr3t", tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "ana", username)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := pkgjwt.Generate("s3cr3t", 42, "ana", "materiales-test", 5)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("otro-secreto", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := pkgjwt.Generate("s3cr3t", 42, "ana", "materiales-test", -1)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("s3cr3t", tok)
	assert.Error(t, err)
}

func TestGenerate_SinSecretoOUsuario(t *testing.T) {
	_, err := pkgjwt.Generate("", 1, "ana", "x", 5)
	assert.Error(t, err)
	_, err = pkgjwt.Generate("s", 0, "ana", "x", 5)
	assert.Error(t, err)
}

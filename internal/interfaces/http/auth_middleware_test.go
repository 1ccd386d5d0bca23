package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Materiales-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Materiales-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testUserID   int64 = 42
	testUsername       = "tendero"
	testIssuer         = "materiales-test"
)

// buildAuthApp monta /strict con AuthMiddleware y /optional con OptionalAuth; ambos devuelven el principal.
func buildAuthApp() *fiber.App {
	app := fiber.New()
	whoami := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c), "username": apphttp.GetUsername(c)})
	}
	app.Get("/strict", apphttp.AuthMiddleware(testJWTSecret), whoami)
	app.Get("/optional", apphttp.OptionalAuth(testJWTSecret), whoami)
	return app
}

func bearer(t *testing.T, expMinutes int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUsername, testIssuer, expMinutes)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func get(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

type principal struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	resp := get(t, buildAuthApp(), "/strict", bearer(t, 60))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p principal
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	assert.Equal(t, principal{UserID: testUserID, Username: testUsername}, p)
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	app := buildAuthApp()
	cases := map[string]string{
		"sin header":       "",
		"sin esquema":      "abc.def.ghi",
		"bearer vacío":     "Bearer ",
		"token malformado": "Bearer token.invalido.aqui",
		"token expirado":   bearer(t, -1),
	}
	for name, header := range cases {
		resp := get(t, app, "/strict", header)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, name)
		resp.Body.Close()
	}
}

func TestAuthMiddleware_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secret-completamente-distinto", testUserID, testUsername, testIssuer, 60)
	require.NoError(t, err)

	resp := get(t, buildAuthApp(), "/strict", "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// OptionalAuth
// ──────────────────────────────────────────────────────────────────────────────

func TestOptionalAuth_SinTokenEsAnonimo(t *testing.T) {
	resp := get(t, buildAuthApp(), "/optional", "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p principal
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	assert.Equal(t, int64(0), p.UserID)
}

func TestOptionalAuth_TokenInvalidoSigueSiendo401(t *testing.T) {
	resp := get(t, buildAuthApp(), "/optional", bearer(t, -1))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOptionalAuth_TokenValido(t *testing.T) {
	resp := get(t, buildAuthApp(), "/optional", bearer(t, 60))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p principal
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	assert.Equal(t, testUserID, p.UserID)
}

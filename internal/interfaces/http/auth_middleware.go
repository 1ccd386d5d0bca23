package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Materiales-api/pkg/jwt"
)

// Locals keys para el principal en Fiber.
const (
	LocalUserID   = "user_id"
	LocalUsername = "username"
)

// bearerToken extrae el token del header Authorization. present=false si no hay header.
func bearerToken(c *fiber.Ctx) (token string, present bool, ok bool) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", false, false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", true, false
	}
	token = strings.TrimSpace(parts[1])
	return token, true, token != ""
}

// AuthMiddleware exige un Bearer Token JWT válido y carga el principal en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, present, ok := bearerToken(c)
		if !present {
			return errorJSON(c, fiber.StatusUnauthorized, CodeUnauthorized, "Authorization header requerido")
		}
		if !ok {
			return errorJSON(c, fiber.StatusUnauthorized, CodeUnauthorized, "formato: Bearer <token>")
		}
		return authenticate(c, jwtSecret, token)
	}
}

// OptionalAuth deja pasar peticiones sin token (principal anónimo, GetUserID = 0);
// un token presente pero inválido o expirado sigue siendo 401.
func OptionalAuth(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, present, ok := bearerToken(c)
		if !present {
			return c.Next()
		}
		if !ok {
			return errorJSON(c, fiber.StatusUnauthorized, CodeUnauthorized, "formato: Bearer <token>")
		}
		return authenticate(c, jwtSecret, token)
	}
}

func authenticate(c *fiber.Ctx, jwtSecret, token string) error {
	userID, username, err := jwt.Parse(jwtSecret, token)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, CodeUnauthorized, "token inválido o expirado")
	}
	c.Locals(LocalUserID, userID)
	c.Locals(LocalUsername, username)
	return c.Next()
}

// GetUserID devuelve el UserID del principal; 0 si la petición es anónima.
func GetUserID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(LocalUserID).(int64)
	return id
}

// GetUsername devuelve el username del principal.
func GetUsername(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUsername).(string)
	return s
}

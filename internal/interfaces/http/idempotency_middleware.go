package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Materiales-api/internal/application/dto"
)

// HeaderIdempotencyKey header opcional de los POST de lotes.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotentReplay marca las respuestas servidas desde el almacén.
const HeaderIdempotentReplay = "Idempotent-Replayed"

// IdempotencyStore guarda la primera respuesta exitosa de cada clave.
type IdempotencyStore interface {
	Load(ctx context.Context, key string) (*dto.CachedResponse, error)
	Reserve(ctx context.Context, key string) (bool, error)
	Save(ctx context.Context, key string, resp dto.CachedResponse, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

// Idempotency repite la respuesta guardada cuando un cliente reintenta un lote con el mismo Idempotency-Key.
// La clave se aísla por principal y ruta. Sin header la petición pasa tal cual; con store nil el middleware no hace nada.
// Si Redis falla se sigue sin idempotencia y se registra el error.
func Idempotency(store IdempotencyStore, ttl time.Duration, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(HeaderIdempotencyKey)
		if store == nil || raw == "" {
			return c.Next()
		}
		key, err := uuid.Parse(raw)
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, CodeInvalidArgument, "Idempotency-Key debe ser un UUID")
		}
		scoped := fmt.Sprintf("%d:%s:%s", GetUserID(c), c.Path(), key.String())
		ctx := c.UserContext()

		cached, err := store.Load(ctx, scoped)
		if err != nil {
			log.Warn().Err(err).Str("key", scoped).Msg("idempotencia no disponible")
			return c.Next()
		}
		if cached != nil {
			c.Set(HeaderIdempotentReplay, "true")
			c.Set(fiber.HeaderContentType, cached.ContentType)
			return c.Status(cached.Status).Send(cached.Body)
		}

		reserved, err := store.Reserve(ctx, scoped)
		if err != nil {
			log.Warn().Err(err).Str("key", scoped).Msg("idempotencia no disponible")
			return c.Next()
		}
		if !reserved {
			c.Set(fiber.HeaderRetryAfter, "1")
			return errorJSON(c, fiber.StatusConflict, CodeRetry, "otra petición con el mismo Idempotency-Key está en curso")
		}

		if err := c.Next(); err != nil {
			_ = store.Release(ctx, scoped)
			return err
		}
		if c.Response().StatusCode() != fiber.StatusOK {
			if err := store.Release(ctx, scoped); err != nil {
				log.Warn().Err(err).Str("key", scoped).Msg("liberar Idempotency-Key")
			}
			return nil
		}
		resp := dto.CachedResponse{
			Status:      fiber.StatusOK,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		}
		if err := store.Save(ctx, scoped, resp, ttl); err != nil {
			log.Warn().Err(err).Str("key", scoped).Msg("guardar respuesta idempotente")
		}
		return nil
	}
}

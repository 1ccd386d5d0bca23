package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Materiales-api/internal/application/dto"
)

// lockTTL tiempo máximo que un Idempotency-Key queda reservado mientras su lote se ejecuta.
const lockTTL = 30 * time.Second

// IdempotencyStore guarda en Redis la primera respuesta exitosa de cada Idempotency-Key.
// Por clave se usan dos entradas: <prefix>:<key>:resp con la respuesta y <prefix>:<key>:lock
// (SETNX) que evita ejecutar dos veces el mismo lote en paralelo.
type IdempotencyStore struct {
	client *redis.Client
	prefix string
}

// NewIdempotencyStore construye el almacén.
func NewIdempotencyStore(client *redis.Client, prefix string) *IdempotencyStore {
	if prefix == "" {
		prefix = "idem"
	}
	return &IdempotencyStore{client: client, prefix: prefix}
}

func (s *IdempotencyStore) respKey(key string) string { return s.prefix + ":" + key + ":resp" }
func (s *IdempotencyStore) lockKey(key string) string { return s.prefix + ":" + key + ":lock" }

// Load devuelve la respuesta guardada o nil si la clave no se ha usado.
func (s *IdempotencyStore) Load(ctx context.Context, key string) (*dto.CachedResponse, error) {
	raw, err := s.client.Get(ctx, s.respKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("idempotency load: %w", err)
	}
	var resp dto.CachedResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("idempotency decode: %w", err)
	}
	return &resp, nil
}

// Reserve toma el lock de la clave; false si otra petición con la misma clave está en curso.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.lockKey(key), "1", lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency reserve: %w", err)
	}
	return ok, nil
}

// Save guarda la respuesta durante ttl y libera el lock.
func (s *IdempotencyStore) Save(ctx context.Context, key string, resp dto.CachedResponse, ttl time.Duration) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("idempotency encode: %w", err)
	}
	if err := s.client.Set(ctx, s.respKey(key), string(data), ttl).Err(); err != nil {
		return fmt.Errorf("idempotency save: %w", err)
	}
	return s.Release(ctx, key)
}

// Release libera el lock sin guardar respuesta (el lote falló y puede reintentarse).
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.lockKey(key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

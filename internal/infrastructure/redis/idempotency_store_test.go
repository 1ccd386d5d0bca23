package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Materiales-api/internal/application/dto"
)

func TestLoad_ClaveNueva(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewIdempotencyStore(db, "")

	mock.ExpectGet("idem:k1:resp").RedisNil()

	resp, err := store.Load(context.Background(), "k1")
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_RespuestaGuardada(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewIdempotencyStore(db, "idem")

	want := dto.CachedResponse{Status: 200, ContentType: "application/json", Body: []byte(`{"sale":[]}`)}
	data, err := json.Marshal(want)
	require.NoError(t, err)
	mock.ExpectGet("idem:k1:resp").SetVal(string(data))

	got, err := store.Load(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, &want, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewIdempotencyStore(db, "idem")

	mock.ExpectSetNX("idem:k1:lock", "1", lockTTL).SetVal(true)
	mock.ExpectSetNX("idem:k1:lock", "1", lockTTL).SetVal(false)

	ok, err := store.Reserve(context.Background(), "k1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Reserve(context.Background(), "k1")
	require.NoError(t, err)
	assert.False(t, ok, "la segunda reserva concurrente debe fallar")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_GuardaYLiberaElLock(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewIdempotencyStore(db, "idem")

	resp := dto.CachedResponse{Status: 200, ContentType: "application/json", Body: []byte(`{}`)}
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	mock.ExpectSet("idem:k1:resp", string(data), 24*time.Hour).SetVal("OK")
	mock.ExpectDel("idem:k1:lock").SetVal(1)

	require.NoError(t, store.Save(context.Background(), "k1", resp, 24*time.Hour))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelease_ErrorDeRedis(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewIdempotencyStore(db, "idem")

	mock.ExpectDel("idem:k1:lock").SetErr(errors.New("conexión rechazada"))

	assert.Error(t, store.Release(context.Background(), "k1"))
}

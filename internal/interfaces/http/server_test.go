package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Materiales-api/internal/application/auth"
	"github.com/jhoicas/Materiales-api/internal/application/dto"
	"github.com/jhoicas/Materiales-api/internal/application/inventory"
	"github.com/jhoicas/Materiales-api/internal/application/usecase"
	"github.com/jhoicas/Materiales-api/internal/infrastructure/memory"
	"github.com/jhoicas/Materiales-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Materiales-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Materiales-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor de test: router completo sobre el backend en memoria
// ──────────────────────────────────────────────────────────────────────────────

const testJWTSecret = "test-secret-key-for-unit-tests"

type server struct {
	app     *fiber.App
	db      *memory.Store
	idem    *fakeIdempotency
	metrics *metrics.BatchMetrics
}

func newServer(t *testing.T) *server {
	t.Helper()
	db := memory.New()
	m := metrics.NewBatchMetrics("materiales")
	idem := newFakeIdempotency()
	log := zerolog.Nop()

	authUC := auth.NewAuthUseCase(db.Users(), auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: 60, Issuer: "materiales-test",
	}).WithBcryptCost(bcrypt.MinCost)

	queries := inventory.NewQueryUseCase(db.Stores(), db.Materials(), db.Recipes(), db.Stocks(), pdf.NewRestockOrderRenderer())
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		ServiceName:    "materiales-test",
		AuthUC:         authUC,
		StoreUC:        usecase.NewStoreUseCase(db.Stores()),
		MaterialUC:     usecase.NewMaterialUseCase(db.Materials(), db.Stores()),
		ProductUC:      usecase.NewProductUseCase(db.Products(), db.Stores()),
		RecipeUC:       usecase.NewMaterialQuantityUseCase(db.Recipes(), db.Stores()),
		StockUC:        usecase.NewMaterialStockUseCase(db.Stocks(), db.Stores(), db),
		Queries:        queries,
		Restock:        inventory.NewRestockUseCase(db, m, queries, log),
		Sales:          inventory.NewSalesUseCase(db, m, queries, log),
		JWTSecret:      testJWTSecret,
		Idempotency:    idem,
		IdempotencyTTL: time.Hour,
		Metrics:        m.Handler(),
		Logger:         log,
	})
	return &server{app: app, db: db, idem: idem, metrics: m}
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (r response) decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, v), string(r.body))
}

func (r response) errorCode(t *testing.T) string {
	t.Helper()
	var e dto.ErrorResponse
	r.decode(t, &e)
	return e.Code
}

// do lanza la petición; body puede ser string (JSON crudo), nil o cualquier valor serializable.
func (s *server) do(t *testing.T, method, path, token string, body any, headers ...string) response {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{status: resp.StatusCode, header: resp.Header, body: raw}
}

// login registra el usuario y devuelve su token.
func (s *server) login(t *testing.T, username string) string {
	t.Helper()
	creds := map[string]string{"username": username, "email": username + "@example.com", "password": "secreto123"}
	r := s.do(t, http.MethodPost, "/api/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, r.status, string(r.body))

	r = s.do(t, http.MethodPost, "/api/auth/login", "", creds)
	require.Equal(t, http.StatusOK, r.status, string(r.body))
	var out dto.LoginResponse
	r.decode(t, &out)
	return out.Token
}

func (s *server) create(t *testing.T, token, path string, body any) int64 {
	t.Helper()
	r := s.do(t, http.MethodPost, path, token, body)
	require.Equal(t, http.StatusCreated, r.status, string(r.body))
	var out struct {
		ID int64 `json:"id"`
	}
	r.decode(t, &out)
	return out.ID
}

// shop tienda con materiales A (1.25) y B (2.10) en 20/100 y productos P1, P2 con receta 2A + 2B.
type shop struct {
	token        string
	matA, matB   int64
	prod1, prod2 int64
}

func (s *server) shop(t *testing.T) shop {
	t.Helper()
	sh := shop{token: s.login(t, "tendero")}
	sh.matA = s.create(t, sh.token, "/api/materials", map[string]any{"name": "A", "price": "1.25"})
	sh.matB = s.create(t, sh.token, "/api/materials", map[string]any{"name": "B", "price": "2.10"})
	recipe := []map[string]int64{{"material": sh.matA, "quantity": 2}, {"material": sh.matB, "quantity": 2}}
	sh.prod1 = s.create(t, sh.token, "/api/products", map[string]any{"name": "P1", "recipe": recipe})
	sh.prod2 = s.create(t, sh.token, "/api/products", map[string]any{"name": "P2", "recipe": recipe})
	s.create(t, sh.token, "/api/stores", map[string]any{"name": "Tienda", "products": []int64{sh.prod1, sh.prod2}})
	for _, m := range []int64{sh.matA, sh.matB} {
		s.create(t, sh.token, "/api/material-stocks", map[string]any{"material": m, "max_capacity": 100, "current_capacity": 20})
	}
	return sh
}

// currents devuelve el stock actual por material según GET /api/inventory.
func (s *server) currents(t *testing.T, token string) map[int64]int64 {
	t.Helper()
	r := s.do(t, http.MethodGet, "/api/inventory", token, nil)
	require.Equal(t, http.StatusOK, r.status)
	var inv dto.InventoryResponse
	r.decode(t, &inv)
	out := make(map[int64]int64, len(inv.Materials))
	for _, m := range inv.Materials {
		out[m.Material] = m.CurrentCapacity
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Idempotencia en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeIdempotency struct {
	mu     sync.Mutex
	saved  map[string]dto.CachedResponse
	locked map[string]bool
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{saved: map[string]dto.CachedResponse{}, locked: map[string]bool{}}
}

func (f *fakeIdempotency) Load(_ context.Context, key string) (*dto.CachedResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.saved[key]; ok {
		return &r, nil
	}
	return nil, nil
}

func (f *fakeIdempotency) Reserve(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.locked[key] {
		return false, nil
	}
	f.locked[key] = true
	return true, nil
}

func (f *fakeIdempotency) Save(_ context.Context, key string, resp dto.CachedResponse, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved[key] = resp
	delete(f.locked, key)
	return nil
}

func (f *fakeIdempotency) Release(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.locked, key)
	return nil
}

func (f *fakeIdempotency) lock(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locked[key] = true
}

func (f *fakeIdempotency) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func idemKey(userID int64, path, key string) string {
	return fmt.Sprintf("%d:%s:%s", userID, path, key)
}

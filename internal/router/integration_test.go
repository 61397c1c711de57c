//go:build integration

package router_test

// Integration tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v
//
// Covered end to end through the HTTP surface:
//   - receive two batches, consume across them FIFO, verify the blend
//   - insufficient stock leaves nothing behind
//   - expiry sweep expires a back-dated batch and the ledger records it
//   - cached stock always equals the batch sum

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"martpos/internal/config"
	"martpos/internal/infra"
	"martpos/internal/model"
	"martpos/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("martpos_test"),
		tcPostgres.WithUsername("martpos"),
		tcPostgres.WithPassword("martpos"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:           8000,
		Env:            "test",
		DatabaseURL:    pgURL,
		RedisURL:       rdURL,
		WorkerPoolSize: 1,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	barcodeCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	r := router.New(cfg, db, rdb, barcodeCB)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, db: db}
}

func (env *testEnv) createProduct(t *testing.T, barcode string) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/products", jsonBody(t, map[string]any{
		"barcode":       barcode,
		"name":          "Integration Milk 1L",
		"category":      "dairy",
		"cost_price":    "1.00",
		"selling_price": "1.50",
		"min_stock":     2,
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var body struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &body)
	require.NotEmpty(t, body.ID)
	return body.ID
}

func (env *testEnv) createBatch(t *testing.T, productID string, qty int, cost, sell string, expiry *time.Time) string {
	t.Helper()
	payload := map[string]any{
		"product_id":    productID,
		"quantity":      qty,
		"cost_price":    cost,
		"selling_price": sell,
		"performed_by":  "integration-test",
	}
	if expiry != nil {
		payload["expiry_date"] = expiry.Format(time.RFC3339)
	}
	resp := do(t, env.server, "POST", "/v1/batches", jsonBody(t, payload))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var body struct {
		ID          string `json:"id"`
		BatchNumber string `json:"batch_number"`
	}
	decodeJSON(t, resp, &body)
	require.NotEmpty(t, body.BatchNumber)
	return body.ID
}

func (env *testEnv) batchSum(t *testing.T, productID string) int {
	t.Helper()
	var sum int64
	require.NoError(t, env.db.Model(&model.Batch{}).
		Where("product_id = ? AND status NOT IN ('expired','damaged')", productID).
		Select("COALESCE(SUM(current_quantity), 0)").
		Scan(&sum).Error)
	return int(sum)
}

func (env *testEnv) productStock(t *testing.T, productID string) int {
	t.Helper()
	var p model.Product
	require.NoError(t, env.db.First(&p, "id = ?", productID).Error)
	return p.CurrentStock
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestIntegration_FIFOConsumption(t *testing.T) {
	env := setupTestEnv(t)
	productID := env.createProduct(t, "7798880000011")

	env.createBatch(t, productID, 5, "8.00", "10.00", nil)
	env.createBatch(t, productID, 5, "9.00", "12.00", nil)

	resp := do(t, env.server, "POST", "/v1/inventory/consume", jsonBody(t, map[string]any{
		"product_id":   productID,
		"quantity":     7,
		"performed_by": "till-1",
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		BatchesUsed []struct {
			Quantity int `json:"quantity"`
		} `json:"batches_used"`
		TotalCost    string `json:"total_cost"`
		TotalRevenue string `json:"total_revenue"`
		NewStock     int    `json:"new_stock"`
	}
	decodeJSON(t, resp, &result)

	require.Len(t, result.BatchesUsed, 2)
	assert.Equal(t, 5, result.BatchesUsed[0].Quantity)
	assert.Equal(t, 2, result.BatchesUsed[1].Quantity)
	assert.Equal(t, "58", result.TotalCost)
	assert.Equal(t, "74", result.TotalRevenue)
	assert.Equal(t, 3, result.NewStock)

	assert.Equal(t, 3, env.productStock(t, productID))
	assert.Equal(t, env.productStock(t, productID), env.batchSum(t, productID))
}

func TestIntegration_InsufficientStockLeavesNothingBehind(t *testing.T) {
	env := setupTestEnv(t)
	productID := env.createProduct(t, "7798880000028")
	env.createBatch(t, productID, 5, "8.00", "10.00", nil)

	resp := do(t, env.server, "POST", "/v1/inventory/consume", jsonBody(t, map[string]any{
		"product_id":   productID,
		"quantity":     9,
		"performed_by": "till-1",
	}))
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	assert.Equal(t, 5, env.productStock(t, productID))

	var saleEntries int64
	require.NoError(t, env.db.Model(&model.StockLedgerEntry{}).
		Where("product_id = ? AND movement_type = 'sale'", productID).
		Count(&saleEntries).Error)
	assert.Equal(t, int64(0), saleEntries)
}

func TestIntegration_ExpirySweep(t *testing.T) {
	env := setupTestEnv(t)
	productID := env.createProduct(t, "7798880000035")

	expired := time.Now().AddDate(0, 0, -3)
	env.createBatch(t, productID, 6, "3.00", "4.50", &expired)
	env.createBatch(t, productID, 4, "3.00", "4.50", nil)

	resp := do(t, env.server, "POST", "/v1/inventory/expiry-sweep", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report struct {
		ExpiredCount    int `json:"expired_count"`
		QuantityRemoved int `json:"quantity_removed"`
	}
	decodeJSON(t, resp, &report)
	assert.Equal(t, 1, report.ExpiredCount)
	assert.Equal(t, 6, report.QuantityRemoved)

	assert.Equal(t, 4, env.productStock(t, productID))
	assert.Equal(t, 4, env.batchSum(t, productID))

	// second sweep is a no-op
	resp = do(t, env.server, "POST", "/v1/inventory/expiry-sweep", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &report)
	assert.Equal(t, 0, report.ExpiredCount)
}

func TestIntegration_LedgerTrail(t *testing.T) {
	env := setupTestEnv(t)
	productID := env.createProduct(t, "7798880000042")
	batchID := env.createBatch(t, productID, 10, "8.00", "10.00", nil)

	resp := do(t, env.server, "POST", "/v1/inventory/consume", jsonBody(t, map[string]any{
		"product_id":   productID,
		"quantity":     4,
		"performed_by": "till-1",
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "PATCH", fmt.Sprintf("/v1/batches/%s/quantity", batchID), jsonBody(t, map[string]any{
		"delta":        -6,
		"reason":       "spoilage write-off",
		"performed_by": "supervisor",
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "GET", "/v1/ledger?product_id="+productID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ledger struct {
		Data []struct {
			MovementType  string `json:"movement_type"`
			Quantity      int    `json:"quantity"`
			PreviousStock int    `json:"previous_stock"`
			NewStock      int    `json:"new_stock"`
		} `json:"data"`
		Total int64 `json:"total"`
	}
	decodeJSON(t, resp, &ledger)

	require.Equal(t, int64(3), ledger.Total)
	for _, e := range ledger.Data {
		assert.Equal(t, e.Quantity, e.NewStock-e.PreviousStock)
	}
	assert.Equal(t, 0, env.productStock(t, productID))
}

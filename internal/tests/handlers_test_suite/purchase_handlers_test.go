package handlers_test_suite

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rogerio-castellano/vending-machine/internal/http/router"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseHandler_Success(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter(nil)
	seedProduct("coke", "Coke", "1.50", 3)

	w := buy(r, "coke", 2)

	require.Equal(t, http.StatusOK, w.Code)
	resp, err := decodePurchase(w)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Purchase successful!", resp.Message)
	require.NotNil(t, resp.Remaining)
	assert.Equal(t, 1, *resp.Remaining)
	assert.Equal(t, 2, resp.QuantityPurchased)
	require.NotNil(t, resp.TotalCost)
	assert.True(t, resp.TotalCost.Equal(decimal.RequireFromString("3.00")))

	purchases := get(r, "/products/purchases")
	assert.Contains(t, purchases.Body.String(), `"machineId":"machine-001"`)
	assert.Contains(t, purchases.Body.String(), `"productName":"Coke"`)
}

func TestPurchaseHandler_Invalid(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter(nil)
	seedProduct("coke", "Coke", "1.50", 3)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing product id", `{"quantity":1}`, "Invalid purchase request."},
		{"blank product id", `{"productId":"  ","quantity":1}`, "Invalid purchase request."},
		{"zero quantity", `{"productId":"coke","quantity":0}`, "Quantity must be greater than zero."},
		{"negative quantity", `{"productId":"coke","quantity":-2}`, "Quantity must be greater than zero."},
		{"quantity as string", `{"productId":"coke","quantity":"2"}`, "Invalid purchase request."},
		{"malformed json", `{"productId":`, "Invalid purchase request."},
		{"two json values", `{"productId":"coke","quantity":1}{}`, "Invalid purchase request."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postRaw(r, "/products/purchase", []byte(tt.body))
			require.Equal(t, http.StatusBadRequest, w.Code)

			resp, err := decodePurchase(w)
			require.NoError(t, err)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.message, resp.Message)
		})
	}

	p, err := productRepo.GetByID(t.Context(), "coke")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock, "rejected requests must not touch stock")
}

func TestPurchaseHandler_NotFound(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter(nil)

	w := buy(r, "sprite", 1)

	require.Equal(t, http.StatusNotFound, w.Code)
	resp, err := decodePurchase(w)
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Product not found.", resp.Message)
}

func TestPurchaseHandler_InsufficientStock(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter(nil)
	seedProduct("candy-bar", "Candy Bar", "1.75", 1)

	w := buy(r, "candy-bar", 2)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp, err := decodePurchase(w)
	require.NoError(t, err)
	assert.Equal(t, "Out of stock. Only 1 remaining.", resp.Message)
	require.NotNil(t, resp.Remaining)
	assert.Equal(t, 1, *resp.Remaining)
	assert.Nil(t, resp.TotalCost)
}

func TestPurchaseHandler_CooldownAndRetryAfter(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter(nil)
	seedProduct("water", "Water", "1.00", 10)

	require.Equal(t, http.StatusOK, buy(r, "water", 1).Code)

	clk.Advance(1500 * time.Millisecond)
	w := buy(r, "water", 1)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "4", w.Header().Get("Retry-After"))
	resp, err := decodePurchase(w)
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Please wait 5 seconds between purchases.", resp.Message)

	clk.Advance(3500 * time.Millisecond)
	assert.Equal(t, http.StatusOK, buy(r, "water", 1).Code, "accepted exactly at the window boundary")

	p, err := productRepo.GetByID(t.Context(), "water")
	require.NoError(t, err)
	assert.Equal(t, 8, p.Stock)
}

func TestPurchaseHandler_StockScenario(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter(nil)
	seedProduct("pepsi", "Pepsi", "1.45", 3)

	first, err := decodePurchase(buy(r, "pepsi", 2))
	require.NoError(t, err)
	require.True(t, first.Success)
	assert.Equal(t, 1, *first.Remaining)
	assert.True(t, first.TotalCost.Equal(decimal.RequireFromString("2.90")))

	clk.Advance(cooldownWindow)
	w := buy(r, "pepsi", 2)
	require.Equal(t, http.StatusBadRequest, w.Code)
	second, err := decodePurchase(w)
	require.NoError(t, err)
	assert.Equal(t, 1, *second.Remaining)
}

func TestPurchaseHandler_PersistenceFailure(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter(nil)
	seedProduct("coke", "Coke", "1.50", 5)

	purchaseRepo.FailNextCommit(errors.New("connection reset by peer"))
	w := buy(r, "coke", 1)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
	resp, err := decodePurchase(w)
	require.NoError(t, err)
	assert.False(t, resp.Success)

	assert.Equal(t, http.StatusOK, buy(r, "coke", 1).Code, "a failed commit must not throttle the retry")
}

package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/rogerio-castellano/vending-machine/internal/clock"
	"github.com/rogerio-castellano/vending-machine/internal/cooldown"
	handler "github.com/rogerio-castellano/vending-machine/internal/http/handlers"
	"github.com/rogerio-castellano/vending-machine/internal/history"
	"github.com/rogerio-castellano/vending-machine/internal/models"
	"github.com/rogerio-castellano/vending-machine/internal/purchase"
	"github.com/rogerio-castellano/vending-machine/internal/repo"
	"github.com/shopspring/decimal"
)

const cooldownWindow = 5 * time.Second

var (
	productRepo  *repo.InMemoryProductRepository
	purchaseRepo *repo.InMemoryPurchaseRepository
	clk          *clock.Manual
	tracker      *cooldown.Tracker
)

func init() {
	setupTestRepos()
}

func setupTestRepos() {
	clk = clock.NewManual(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	tracker = cooldown.NewTracker(cooldownWindow, clk)

	productRepo = repo.NewInMemoryProductRepository()
	handler.SetProductRepo(productRepo)

	purchaseRepo = repo.NewInMemoryPurchaseRepository(productRepo)

	handler.SetPurchaseEngine(purchase.NewEngine(purchase.Config{
		Products:  productRepo,
		Purchases: purchaseRepo,
		Cooldown:  tracker,
		Dispenser: purchase.TimerDispenser{},
		Clock:     clk,
	}))
	handler.SetHistoryEngine(history.NewEngine(purchaseRepo, clk))
	handler.SetMetricsRepo(repo.NewInMemoryMetricsRepository(productRepo, purchaseRepo))
	handler.SetHealthCheck("store", handler.PingFunc(func(context.Context) error { return nil }))
}

func clearAll() {
	productRepo.Clear()
	purchaseRepo.Clear()
	tracker.Reset()
}

func createProduct(r http.Handler, p handler.ProductRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(p)
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(body))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedProduct(id, name, price string, stock int) {
	productRepo.Create(context.Background(), models.Product{
		ID:    id,
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	})
}

func buy(r http.Handler, productID string, quantity int) *httptest.ResponseRecorder {
	body, _ := json.Marshal(handler.PurchaseRequest{ProductID: productID, Quantity: quantity})
	return postRaw(r, "/products/purchase", body)
}

func postRaw(r http.Handler, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodePurchase(w *httptest.ResponseRecorder) (handler.PurchaseResponse, error) {
	var resp handler.PurchaseResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		return resp, fmt.Errorf("error decoding purchase response: %w", err)
	}
	return resp, nil
}

func addPurchase(id, name, amount, machineID string, age time.Duration) {
	purchaseRepo.AddPurchase(models.Purchase{
		ID:           id,
		ProductID:    name,
		ProductName:  name,
		Quantity:     1,
		Amount:       decimal.RequireFromString(amount),
		PurchaseTime: clk.Now().Add(-age),
		MachineID:    machineID,
	})
}

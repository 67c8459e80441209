package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/rogerio-castellano/vending-machine/internal/clock"
	"github.com/rogerio-castellano/vending-machine/internal/cooldown"
	"github.com/rogerio-castellano/vending-machine/internal/db"
	handler "github.com/rogerio-castellano/vending-machine/internal/http/handlers"
	"github.com/rogerio-castellano/vending-machine/internal/history"
	"github.com/rogerio-castellano/vending-machine/internal/models"
	"github.com/rogerio-castellano/vending-machine/internal/purchase"
	"github.com/rogerio-castellano/vending-machine/internal/repo"
	"github.com/shopspring/decimal"
)

var (
	database     *sql.DB
	productRepo  *repo.PostgresProductRepository
	purchaseRepo *repo.PostgresPurchaseRepository
	clk          *clock.Manual
	tracker      *cooldown.Tracker
)

func setupTestRepos(ctx context.Context, dbUrl string) error {
	var err error
	database, err = db.Connect(ctx, dbUrl)
	if err != nil {
		return err
	}
	if err := db.Migrate(ctx, database); err != nil {
		return err
	}

	clk = clock.NewManual(time.Now().UTC())
	tracker = cooldown.NewTracker(5*time.Second, clk)

	productRepo = repo.NewPostgresProductRepository(database)
	handler.SetProductRepo(productRepo)

	purchaseRepo = repo.NewPostgresPurchaseRepository(database)

	handler.SetPurchaseEngine(purchase.NewEngine(purchase.Config{
		Products:  productRepo,
		Purchases: purchaseRepo,
		Cooldown:  tracker,
		Dispenser: purchase.TimerDispenser{},
		Clock:     clk,
	}))
	handler.SetHistoryEngine(history.NewEngine(purchaseRepo, clk))
	handler.SetMetricsRepo(repo.NewPostgresMetricsRepository(database))
	handler.SetHealthCheck("postgres", handler.PingFunc(database.PingContext))
	return nil
}

func clearAll() {
	if _, err := database.Exec("TRUNCATE purchases, products"); err != nil {
		panic(err)
	}
	tracker.Reset()
}

func seedProduct(id, name, price string, stock int) {
	if _, err := productRepo.Create(context.Background(), models.Product{
		ID:    id,
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}); err != nil {
		panic(err)
	}
}

func buy(r http.Handler, productID string, quantity int) *httptest.ResponseRecorder {
	body, _ := json.Marshal(handler.PurchaseRequest{ProductID: productID, Quantity: quantity})
	req := httptest.NewRequest(http.MethodPost, "/products/purchase", bytes.NewReader(body))
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

package handlers

import (
	"context"

	"github.com/rogerio-castellano/vending-machine/internal/history"
	"github.com/rogerio-castellano/vending-machine/internal/purchase"
	repo "github.com/rogerio-castellano/vending-machine/internal/repo"
)

// Pinger is a dependency checked by the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

var (
	productRepo    repo.ProductRepository
	metricsRepo    repo.MetricsRepository
	purchaseEngine *purchase.Engine
	historyEngine  *history.Engine

	healthChecks = map[string]Pinger{}
)

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
}

func SetMetricsRepo(r repo.MetricsRepository) {
	metricsRepo = r
}

func SetPurchaseEngine(e *purchase.Engine) {
	purchaseEngine = e
}

func SetHistoryEngine(e *history.Engine) {
	historyEngine = e
}

// SetHealthCheck registers p under name; a nil p removes it.
func SetHealthCheck(name string, p Pinger) {
	if p == nil {
		delete(healthChecks, name)
		return
	}
	healthChecks[name] = p
}

// Package purchase runs vending purchases: validation, the machine-wide
// cool-down, the dispensing delay, the guarded stock decrement and the audit
// record.
package purchase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/vending-machine/internal/clock"
	"github.com/rogerio-castellano/vending-machine/internal/cooldown"
	"github.com/rogerio-castellano/vending-machine/internal/models"
	"github.com/rogerio-castellano/vending-machine/internal/repo"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/rogerio-castellano/vending-machine/internal/purchase"

	DefaultMachineID = "machine-001"

	msgInvalidRequest  = "Invalid purchase request."
	msgInvalidQuantity = "Quantity must be greater than zero."
	msgNotFound        = "Product not found."
	msgSuccess         = "Purchase successful!"
	msgFailure         = "An error occurred while processing the purchase."
)

// Request is a single purchase attempt.
type Request struct {
	ProductID string
	Quantity  int
}

// Config wires an Engine. Products, Purchases and Cooldown are required.
type Config struct {
	Products  repo.ProductRepository
	Purchases repo.PurchaseRepository
	Cooldown  *cooldown.Tracker
	Dispenser Dispenser
	Clock     clock.Clock
	LockKey   string
	MachineID string
}

// Engine is safe for concurrent use. The cool-down tracker is the only state
// shared between requests; stock is protected by the store's guarded commit.
type Engine struct {
	products  repo.ProductRepository
	purchases repo.PurchaseRepository
	cooldown  *cooldown.Tracker
	dispenser Dispenser
	clock     clock.Clock
	lockKey   string
	machineID string

	tracer   trace.Tracer
	outcomes metric.Int64Counter
}

func NewEngine(cfg Config) *Engine {
	e := &Engine{
		products:  cfg.Products,
		purchases: cfg.Purchases,
		cooldown:  cfg.Cooldown,
		dispenser: cfg.Dispenser,
		clock:     cfg.Clock,
		lockKey:   cfg.LockKey,
		machineID: cfg.MachineID,
		tracer:    otel.Tracer(instrumentationName),
	}
	if e.dispenser == nil {
		e.dispenser = TimerDispenser{}
	}
	if e.clock == nil {
		e.clock = clock.Real{}
	}
	if e.lockKey == "" {
		e.lockKey = cooldown.GlobalLockKey
	}
	if e.machineID == "" {
		e.machineID = DefaultMachineID
	}

	counter, err := otel.Meter(instrumentationName).Int64Counter("vending.purchases",
		metric.WithDescription("Purchase attempts by terminal outcome"))
	if err != nil {
		slog.Warn("could not create purchase counter", "error", err)
		counter = noop.Int64Counter{}
	}
	e.outcomes = counter
	return e
}

// Purchase runs one attempt to a terminal outcome. It never returns an error:
// every failure is reported through Outcome.Kind. Once an attempt passes the
// cool-down check, cancellation of ctx no longer stops it.
func (e *Engine) Purchase(ctx context.Context, req Request) Outcome {
	ctx, span := e.tracer.Start(ctx, "purchase.Purchase", trace.WithAttributes(
		attribute.String("product_id", req.ProductID),
		attribute.Int("quantity", req.Quantity),
	))
	defer span.End()

	out := e.purchase(ctx, req)

	span.SetAttributes(attribute.String("outcome", out.Kind.String()))
	e.outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", out.Kind.String())))
	e.log(req, out)
	return out
}

func (e *Engine) purchase(ctx context.Context, req Request) Outcome {
	if strings.TrimSpace(req.ProductID) == "" {
		return Outcome{Kind: KindValidationError, Message: msgInvalidRequest}
	}
	if req.Quantity <= 0 {
		return Outcome{Kind: KindValidationError, Message: msgInvalidQuantity}
	}

	if wait, ok := e.cooldown.Check(e.lockKey); !ok {
		return Outcome{
			Kind:       KindRateLimited,
			Message:    fmt.Sprintf("Please wait %d seconds between purchases.", wholeSeconds(e.cooldown.Window())),
			RetryAfter: wait,
		}
	}

	ctx = context.WithoutCancel(ctx)

	if err := e.dispenser.Dispense(ctx); err != nil {
		return e.failure(fmt.Errorf("dispense: %w", err))
	}

	product, err := e.products.GetByID(ctx, req.ProductID)
	if errors.Is(err, repo.ErrProductNotFound) {
		return Outcome{Kind: KindNotFound, Message: msgNotFound}
	}
	if err != nil {
		return e.failure(fmt.Errorf("load product: %w", err))
	}

	if product.Stock < req.Quantity {
		return insufficient(product.Stock)
	}

	total := product.Price.Mul(decimal.NewFromInt(int64(req.Quantity)))
	record := models.Purchase{
		ID:           newPurchaseID(),
		ProductID:    product.ID,
		ProductName:  product.Name,
		Quantity:     req.Quantity,
		Amount:       total,
		PurchaseTime: e.clock.Now().UTC(),
		MachineID:    e.machineID,
	}

	remaining, err := e.purchases.Commit(ctx, record)
	switch {
	case errors.Is(err, repo.ErrInsufficientStock):
		// Another purchase took the stock between the read and the commit.
		return e.lostRace(ctx, req.ProductID)
	case errors.Is(err, repo.ErrProductNotFound):
		return Outcome{Kind: KindNotFound, Message: msgNotFound}
	case err != nil:
		return e.failure(fmt.Errorf("commit purchase: %w", err))
	}

	e.cooldown.MarkSuccess(e.lockKey)

	return Outcome{
		Kind:              KindSuccess,
		Message:           msgSuccess,
		Remaining:         remaining,
		QuantityPurchased: req.Quantity,
		TotalCost:         total,
		Purchase:          &record,
	}
}

func (e *Engine) lostRace(ctx context.Context, productID string) Outcome {
	product, err := e.products.GetByID(ctx, productID)
	if errors.Is(err, repo.ErrProductNotFound) {
		return Outcome{Kind: KindNotFound, Message: msgNotFound}
	}
	if err != nil {
		return e.failure(fmt.Errorf("reload product: %w", err))
	}
	return insufficient(product.Stock)
}

func (e *Engine) failure(err error) Outcome {
	return Outcome{Kind: KindPersistenceFailure, Message: msgFailure, failure: err}
}

func (e *Engine) log(req Request, out Outcome) {
	attrs := []any{
		"product_id", req.ProductID,
		"quantity", req.Quantity,
		"outcome", out.Kind.String(),
	}

	switch out.Kind {
	case KindSuccess:
		slog.Info("purchase committed", append(attrs, "purchase_id", out.Purchase.ID, "remaining", out.Remaining)...)
	case KindPersistenceFailure:
		slog.Error("purchase failed", append(attrs, "error", out.failure)...)
	case KindRateLimited:
		slog.Warn("purchase throttled", append(attrs, "retry_after", out.RetryAfter)...)
	default:
		slog.Warn("purchase rejected", attrs...)
	}
}

func insufficient(stock int) Outcome {
	return Outcome{
		Kind:      KindInsufficientStock,
		Message:   fmt.Sprintf("Out of stock. Only %d remaining.", stock),
		Remaining: stock,
	}
}

func newPurchaseID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func wholeSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}

// Package history answers purchase history queries.
package history

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rogerio-castellano/vending-machine/internal/clock"
	"github.com/rogerio-castellano/vending-machine/internal/models"
	"github.com/rogerio-castellano/vending-machine/internal/repo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var maxHours = float64(math.MaxInt64) / float64(time.Hour)

type Engine struct {
	purchases repo.PurchaseRepository
	clock     clock.Clock
	tracer    trace.Tracer
}

func NewEngine(purchases repo.PurchaseRepository, c clock.Clock) *Engine {
	if c == nil {
		c = clock.Real{}
	}
	return &Engine{
		purchases: purchases,
		clock:     c,
		tracer:    otel.Tracer("github.com/rogerio-castellano/vending-machine/internal/history"),
	}
}

// Query returns purchases matching f. A nil filter returns every purchase,
// newest first.
func (e *Engine) Query(ctx context.Context, f *Filter) ([]models.Purchase, error) {
	q := e.compose(f)

	ctx, span := e.tracer.Start(ctx, "history.Query", trace.WithAttributes(
		attribute.Bool("filter.search", q.NameContains != ""),
		attribute.String("filter.machine_id", q.MachineID),
		attribute.Bool("filter.since", q.Since != nil),
		attribute.Int("sort.key", int(q.SortBy)),
		attribute.Bool("sort.desc", q.Descending),
	))
	defer span.End()

	purchases, err := e.purchases.Query(ctx, q)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("results", len(purchases)))
	return purchases, nil
}

func (e *Engine) compose(f *Filter) repo.PurchaseQuery {
	if f == nil {
		return repo.PurchaseQuery{SortBy: repo.SortByTime, Descending: true}
	}

	q := repo.PurchaseQuery{
		NameContains: blankAsAbsent(f.SearchTerm),
		MachineID:    blankAsAbsent(f.MachineID),
		Descending:   f.SortOrder == Descending,
	}

	switch f.SortField {
	case SortByAmount:
		q.SortBy = repo.SortByAmount
	case SortByProduct:
		q.SortBy = repo.SortByProductName
	default:
		q.SortBy = repo.SortByTime
	}

	// Windows longer than a time.Duration can hold include everything.
	if f.Hours > 0 && f.Hours < maxHours {
		since := e.clock.Now().Add(-time.Duration(f.Hours * float64(time.Hour)))
		q.Since = &since
	}
	return q
}

// blankAsAbsent drops whitespace-only filter values and keeps the rest verbatim.
func blankAsAbsent(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

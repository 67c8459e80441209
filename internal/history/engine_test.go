package history_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rogerio-castellano/vending-machine/internal/clock"
	"github.com/rogerio-castellano/vending-machine/internal/history"
	"github.com/rogerio-castellano/vending-machine/internal/models"
	"github.com/rogerio-castellano/vending-machine/internal/repo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

func seed(t *testing.T) *history.Engine {
	t.Helper()

	purchases := repo.NewInMemoryPurchaseRepository(repo.NewInMemoryProductRepository())
	add := func(id, name, amount, machine string, age time.Duration) {
		purchases.AddPurchase(models.Purchase{
			ID:           id,
			ProductID:    name,
			ProductName:  name,
			Quantity:     1,
			Amount:       decimal.RequireFromString(amount),
			PurchaseTime: now.Add(-age),
			MachineID:    machine,
		})
	}
	add("p1", "Coke", "1.50", "machine-001", 2*time.Hour)
	add("p2", "Pepsi", "2.90", "machine-001", 30*time.Hour)
	add("p3", "Coke Zero", "1.50", "machine-002", 10*time.Minute)
	add("p4", "Water", "1.00", "machine-001", 200*time.Hour)
	add("p5", "Chips", "4.50", "machine-002", 23*time.Hour)

	return history.NewEngine(purchases, clock.NewManual(now))
}

func ids(purchases []models.Purchase) []string {
	out := make([]string, len(purchases))
	for i, p := range purchases {
		out[i] = p.ID
	}
	return out
}

func TestQuery_NilFilterSortsByDateDescending(t *testing.T) {
	e := seed(t)

	got, err := e.Query(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"p3", "p1", "p5", "p2", "p4"}, ids(got))
}

func TestQuery_ZeroFilterMatchesDefaults(t *testing.T) {
	e := seed(t)

	got, err := e.Query(context.Background(), &history.Filter{})

	require.NoError(t, err)
	assert.Equal(t, []string{"p3", "p1", "p5", "p2", "p4"}, ids(got))
}

func TestQuery_Filters(t *testing.T) {
	tests := []struct {
		name   string
		filter history.Filter
		want   []string
	}{
		{"search is case insensitive substring", history.Filter{SearchTerm: "coKE"}, []string{"p3", "p1"}},
		{"search with no match", history.Filter{SearchTerm: "sprite"}, []string{}},
		{"machine id exact match", history.Filter{MachineID: "machine-001"}, []string{"p1", "p2", "p4"}},
		{"machine id is not a substring match", history.Filter{MachineID: "machine-00"}, []string{}},
		{"machine id is not trimmed", history.Filter{MachineID: " machine-001"}, []string{}},
		{"blank machine id is ignored", history.Filter{MachineID: "   "}, []string{"p3", "p1", "p5", "p2", "p4"}},
		{"blank search is ignored", history.Filter{SearchTerm: " \t"}, []string{"p3", "p1", "p5", "p2", "p4"}},
		{"last 24 hours", history.Filter{Hours: 24}, []string{"p3", "p1", "p5"}},
		{"last week", history.Filter{Hours: 168}, []string{"p3", "p1", "p5", "p2"}},
		{"fractional hours", history.Filter{Hours: 0.5}, []string{"p3"}},
		{"non-positive hours disable time filter", history.Filter{Hours: -3}, []string{"p3", "p1", "p5", "p2", "p4"}},
		{"huge hours include everything", history.Filter{Hours: 1e12}, []string{"p3", "p1", "p5", "p2", "p4"}},
		{"filters are conjunctive", history.Filter{SearchTerm: "coke", MachineID: "machine-001", Hours: 24}, []string{"p1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := seed(t).Query(context.Background(), &tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestQuery_MachineFilterReturnsOnlyThatMachine(t *testing.T) {
	got, err := seed(t).Query(context.Background(), &history.Filter{MachineID: "machine-001"})
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for _, p := range got {
		assert.Equal(t, "machine-001", p.MachineID)
	}
}

func TestQuery_HoursExcludesOlderRecords(t *testing.T) {
	got, err := seed(t).Query(context.Background(), &history.Filter{Hours: 24})
	require.NoError(t, err)
	cutoff := now.Add(-24 * time.Hour)
	for _, p := range got {
		assert.False(t, p.PurchaseTime.Before(cutoff), "%s is older than 24h", p.ID)
	}
}

func TestQuery_Sorting(t *testing.T) {
	tests := []struct {
		name   string
		filter history.Filter
		want   []string
	}{
		{"amount ascending keeps store order on ties", history.Filter{SortField: history.SortByAmount, SortOrder: history.Ascending}, []string{"p4", "p1", "p3", "p2", "p5"}},
		{"amount descending keeps store order on ties", history.Filter{SortField: history.SortByAmount, SortOrder: history.Descending}, []string{"p5", "p2", "p1", "p3", "p4"}},
		{"product ascending", history.Filter{SortField: history.SortByProduct, SortOrder: history.Ascending}, []string{"p5", "p1", "p3", "p2", "p4"}},
		{"product descending", history.Filter{SortField: history.SortByProduct, SortOrder: history.Descending}, []string{"p4", "p2", "p3", "p1", "p5"}},
		{"date ascending", history.Filter{SortField: history.SortByDate, SortOrder: history.Ascending}, []string{"p4", "p2", "p5", "p1", "p3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := seed(t).Query(context.Background(), &tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestQuery_AmountAscendingIsNonDecreasing(t *testing.T) {
	got, err := seed(t).Query(context.Background(), &history.Filter{SortField: history.SortByAmount, SortOrder: history.Ascending})
	require.NoError(t, err)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].Amount.LessThanOrEqual(got[i].Amount))
	}
}

type failingRepo struct{ repo.PurchaseRepository }

func (failingRepo) Query(context.Context, repo.PurchaseQuery) ([]models.Purchase, error) {
	return nil, errors.New("boom")
}

func TestQuery_StoreError(t *testing.T) {
	e := history.NewEngine(failingRepo{}, clock.NewManual(now))

	_, err := e.Query(context.Background(), nil)
	assert.EqualError(t, err, "boom")
}

func TestParseSortField(t *testing.T) {
	assert.Equal(t, history.SortByAmount, history.ParseSortField("AMOUNT"))
	assert.Equal(t, history.SortByProduct, history.ParseSortField(" product "))
	assert.Equal(t, history.SortByDate, history.ParseSortField("date"))
	assert.Equal(t, history.SortByDate, history.ParseSortField(""))
	assert.Equal(t, history.SortByDate, history.ParseSortField("price"))
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, history.Ascending, history.ParseSortOrder("ASC"))
	assert.Equal(t, history.Ascending, history.ParseSortOrder("asc"))
	assert.Equal(t, history.Descending, history.ParseSortOrder("Desc"))
	assert.Equal(t, history.Descending, history.ParseSortOrder(""))
	assert.Equal(t, history.Descending, history.ParseSortOrder("sideways"))
}

func TestParseHours(t *testing.T) {
	h, err := history.ParseHours("")
	require.NoError(t, err)
	assert.Zero(t, h)

	h, err = history.ParseHours("168")
	require.NoError(t, err)
	assert.Equal(t, 168.0, h)

	_, err = history.ParseHours("yesterday")
	assert.Error(t, err)
}

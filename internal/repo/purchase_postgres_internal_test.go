package repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildPurchaseWhereClause(t *testing.T) {
	since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	where, args := buildPurchaseWhereClause(PurchaseQuery{})
	assert.Equal(t, "WHERE 1=1", where)
	assert.Empty(t, args)

	where, args = buildPurchaseWhereClause(PurchaseQuery{NameContains: "50%_off", MachineID: "machine-001", Since: &since})
	assert.Equal(t, "WHERE 1=1 AND product_name ILIKE $1 AND machine_id = $2 AND purchase_time >= $3", where)
	assert.Equal(t, []any{`%50\%\_off%`, "machine-001", since}, args)

	where, args = buildPurchaseWhereClause(PurchaseQuery{MachineID: "machine-002"})
	assert.Equal(t, "WHERE 1=1 AND machine_id = $1", where)
	assert.Equal(t, []any{"machine-002"}, args)
}

func TestBuildPurchaseOrderClause(t *testing.T) {
	tests := []struct {
		q    PurchaseQuery
		want string
	}{
		{PurchaseQuery{}, "ORDER BY purchase_time ASC, seq ASC"},
		{PurchaseQuery{Descending: true}, "ORDER BY purchase_time DESC, seq ASC"},
		{PurchaseQuery{SortBy: SortByAmount}, "ORDER BY amount ASC, seq ASC"},
		{PurchaseQuery{SortBy: SortByProductName, Descending: true}, `ORDER BY product_name COLLATE "C" DESC, seq ASC`},
		{PurchaseQuery{SortBy: SortByProductName}, `ORDER BY product_name COLLATE "C" ASC, seq ASC`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, buildPurchaseOrderClause(tt.q))
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
	assert.Equal(t, "coke", escapeLike("coke"))
}

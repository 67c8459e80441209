package repo

import "time"

type SortKey int

const (
	SortByTime SortKey = iota
	SortByAmount
	SortByProductName
)

// PurchaseQuery is the composed predicate and ordering handed to the store.
// Zero values disable the matching predicate.
type PurchaseQuery struct {
	NameContains string
	MachineID    string
	Since        *time.Time
	SortBy       SortKey
	Descending   bool
}

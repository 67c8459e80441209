package history

import (
	"fmt"
	"strconv"
	"strings"
)

type SortField int

const (
	SortByDate SortField = iota
	SortByAmount
	SortByProduct
)

func (f SortField) String() string {
	switch f {
	case SortByAmount:
		return "amount"
	case SortByProduct:
		return "product"
	default:
		return "date"
	}
}

// ParseSortField is case-insensitive. Anything unrecognised sorts by date.
func ParseSortField(s string) SortField {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "amount":
		return SortByAmount
	case "product":
		return SortByProduct
	default:
		return SortByDate
	}
}

type SortOrder int

const (
	Descending SortOrder = iota
	Ascending
)

func (o SortOrder) String() string {
	if o == Ascending {
		return "asc"
	}
	return "desc"
}

// ParseSortOrder is case-insensitive. Anything but "asc" is descending.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), "asc") {
		return Ascending
	}
	return Descending
}

// Filter selects and orders purchase history. All predicates are ANDed;
// zero values disable them.
type Filter struct {
	SearchTerm string
	MachineID  string
	Hours      float64
	SortField  SortField
	SortOrder  SortOrder
}

// ParseHours accepts an empty string as "no time filter".
func ParseHours(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hours %q: %w", s, err)
	}
	return h, nil
}

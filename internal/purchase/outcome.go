package purchase

import (
	"net/http"
	"time"

	"github.com/rogerio-castellano/vending-machine/internal/models"
	"github.com/shopspring/decimal"
)

// Kind classifies the terminal state of a purchase attempt.
type Kind int

const (
	KindSuccess Kind = iota
	KindValidationError
	KindRateLimited
	KindNotFound
	KindInsufficientStock
	KindPersistenceFailure
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindValidationError:
		return "validation_error"
	case KindRateLimited:
		return "rate_limited"
	case KindNotFound:
		return "not_found"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindPersistenceFailure:
		return "persistence_failure"
	default:
		return "unknown"
	}
}

// HTTPStatus maps the kind onto the purchase endpoint's status codes.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindSuccess:
		return http.StatusOK
	case KindValidationError, KindInsufficientStock:
		return http.StatusBadRequest
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Outcome is what every purchase attempt resolves to.
type Outcome struct {
	Kind    Kind
	Message string

	// Remaining is the stock left after a success, or the stock that was
	// available when an attempt was rejected for insufficient stock.
	Remaining         int
	QuantityPurchased int
	TotalCost         decimal.Decimal

	// RetryAfter is set on KindRateLimited.
	RetryAfter time.Duration

	// Purchase is the committed record on KindSuccess.
	Purchase *models.Purchase

	failure error
}

func (o Outcome) Success() bool {
	return o.Kind == KindSuccess
}

// Err returns the internal cause of a KindPersistenceFailure. It is meant
// for logs and must not be shown to callers.
func (o Outcome) Err() error {
	return o.failure
}

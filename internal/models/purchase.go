package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is the audit record written for every committed sale.
// ProductName and Amount are snapshots taken at purchase time.
type Purchase struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	Quantity     int             `json:"quantity"`
	Amount       decimal.Decimal `json:"amount"`
	PurchaseTime time.Time       `json:"purchaseTime"`
	MachineID    string          `json:"machineId"`
}

package handlers

import (
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rogerio-castellano/vending-machine/internal/history"
	"github.com/rogerio-castellano/vending-machine/internal/models"
	"github.com/rogerio-castellano/vending-machine/internal/obs"
	"github.com/rogerio-castellano/vending-machine/internal/purchase"
)

const msgInvalidPurchase = "Invalid purchase request."

// PurchaseHandler godoc
// @Summary Buy a product
// @Description Validates the request, enforces the machine cool-down, waits for dispensing and commits the sale
// @Tags purchases
// @Accept json
// @Produce json
// @Param purchase body PurchaseRequest true "Product and quantity"
// @Success 200 {object} PurchaseResponse
// @Failure 400 {object} PurchaseResponse "Invalid request or insufficient stock"
// @Failure 404 {object} PurchaseResponse "Product not found"
// @Failure 429 {object} PurchaseResponse "Cool-down in effect"
// @Failure 500 {object} PurchaseResponse "Could not record the purchase"
// @Header 429 {integer} Retry-After "Seconds until the next purchase is accepted"
// @Router /products/purchase [post]
func PurchaseHandler(w http.ResponseWriter, r *http.Request) {
	var req PurchaseRequest
	if err := readJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, PurchaseResponse{Success: false, Message: msgInvalidPurchase})
		return
	}

	out := purchaseEngine.Purchase(r.Context(), purchase.Request{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})

	var headers http.Header
	if out.Kind == purchase.KindRateLimited {
		headers = http.Header{}
		headers.Set("Retry-After", strconv.Itoa(retryAfterSeconds(out)))
	}
	writeJSON(w, out.Kind.HTTPStatus(), purchaseResponse(out), headers)
}

func purchaseResponse(out purchase.Outcome) PurchaseResponse {
	resp := PurchaseResponse{Success: out.Success(), Message: out.Message}
	switch out.Kind {
	case purchase.KindSuccess:
		remaining, total := out.Remaining, out.TotalCost
		resp.Remaining = &remaining
		resp.QuantityPurchased = out.QuantityPurchased
		resp.TotalCost = &total
	case purchase.KindInsufficientStock:
		remaining := out.Remaining
		resp.Remaining = &remaining
	}
	return resp
}

func retryAfterSeconds(out purchase.Outcome) int {
	secs := int(math.Ceil(out.RetryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// GetPurchasesHandler godoc
// @Summary Purchase history
// @Description Filters by product name, machine and age, sorted by date (default), amount or product
// @Tags purchases
// @Produce json
// @Param searchTerm query string false "Case-insensitive product name substring"
// @Param machineId query string false "Exact machine id"
// @Param hours query number false "Only purchases from the last N hours"
// @Param sortField query string false "date, amount or product" Enums(date, amount, product)
// @Param sortOrder query string false "asc or desc" Enums(asc, desc)
// @Success 200 {array} models.Purchase
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products/purchases [get]
func GetPurchasesHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseHistoryFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_filter", err.Error())
		return
	}

	purchases, err := historyEngine.Query(r.Context(), filter)
	if err != nil {
		obs.Logger.Error("could not fetch purchases", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not fetch purchases")
		return
	}
	if purchases == nil {
		purchases = []models.Purchase{}
	}
	writeJSON(w, http.StatusOK, purchases)
}

// parseHistoryFilter returns nil when no filter parameter is present.
func parseHistoryFilter(q url.Values) (*history.Filter, error) {
	present := false
	for _, key := range []string{"searchTerm", "machineId", "hours", "sortField", "sortOrder"} {
		if q.Has(key) {
			present = true
			break
		}
	}
	if !present {
		return nil, nil
	}

	hours, err := history.ParseHours(q.Get("hours"))
	if err != nil {
		return nil, err
	}
	return &history.Filter{
		SearchTerm: q.Get("searchTerm"),
		MachineID:  q.Get("machineId"),
		Hours:      hours,
		SortField:  history.ParseSortField(q.Get("sortField")),
		SortOrder:  history.ParseSortOrder(q.Get("sortOrder")),
	}, nil
}

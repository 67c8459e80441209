package handlers

import (
	"math/rand/v2"
	"net/http"
	"strings"

	"github.com/rogerio-castellano/vending-machine/internal/models"
	"github.com/rogerio-castellano/vending-machine/internal/obs"
	"github.com/shopspring/decimal"
)

// GetProductsHandler godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Success 200 {array} models.Product
// @Failure 500 {object} ErrorResponse
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := productRepo.GetAll(r.Context())
	if err != nil {
		obs.Logger.Error("could not fetch products", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not fetch products")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// CreateProductHandler godoc
// @Summary Create or replace a product
// @Description Loads a product into the machine, replacing any product with the same id
// @Tags products
// @Accept json
// @Produce json
// @Param product body ProductRequest true "Product to load"
// @Success 201 {object} models.Product
// @Failure 400 {array} ProductValidationError
// @Failure 500 {object} ErrorResponse
// @Router /products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	validationErrors := validateProduct(req)
	if len(validationErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	created, err := productRepo.Create(r.Context(), models.Product{
		ID:    strings.TrimSpace(req.ID),
		Name:  strings.TrimSpace(req.Name),
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		obs.Logger.Error("could not create product", "product_id", req.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not create product")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetBalanceHandler godoc
// @Summary Current machine balance
// @Description Returns a simulated balance between 1.00 and 9.99
// @Tags products
// @Produce json
// @Success 200 {object} BalanceResponse
// @Router /products/balance [get]
func GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	cents := 100 + rand.IntN(900)
	writeJSON(w, http.StatusOK, BalanceResponse{Balance: decimal.New(int64(cents), -2)})
}

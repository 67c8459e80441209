package handlers

import (
	"strings"
)

type ProductValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func validateProduct(p ProductRequest) []ProductValidationError {
	errs := []ProductValidationError{}
	if strings.TrimSpace(p.ID) == "" {
		errs = append(errs, ProductValidationError{Field: "id", Description: "Id is required"})
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ProductValidationError{Field: "name", Description: "Name is required"})
	}
	if p.Price.IsNegative() {
		errs = append(errs, ProductValidationError{Field: "price", Description: "Price cannot be negative"})
	} else if !p.Price.Equal(p.Price.Round(2)) {
		// Prices are stored as NUMERIC(12,2).
		errs = append(errs, ProductValidationError{Field: "price", Description: "Price must have at most two decimal places"})
	}
	if p.Stock < 0 {
		errs = append(errs, ProductValidationError{Field: "stock", Description: "Stock cannot be negative"})
	}
	return errs
}

package repo

import "errors"

// ErrProductNotFound is returned when a product is not found in the repository.
var ErrProductNotFound = errors.New("product not found")

// ErrInsufficientStock is returned by a guarded decrement that would take stock below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

package repo

import "errors"

var (
	// ErrProductNotFound is returned when a product is not found in the repository.
	ErrProductNotFound = errors.New("product not found")
	// ErrSupplierNotFound is returned when a supplier id does not resolve.
	ErrSupplierNotFound = errors.New("supplier not found")
	ErrUserNotFound     = errors.New("user not found")

	// ErrDuplicatedValueUnique is wrapped with the offending field on unique key clashes.
	ErrDuplicatedValueUnique = errors.New("duplicated value for unique field")
	ErrSupplierHasProducts   = errors.New("cannot delete supplier with associated products")

	// ErrInsufficientStock is returned when an outbound movement exceeds the quantity on hand.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrQuantityOutOfRange is returned when a movement would push stock past models.MaxQuantity.
	ErrQuantityOutOfRange = errors.New("quantity out of range")
)

package repo

import "github.com/shopspring/decimal"

// defaultLimit caps product searches that do not ask for a smaller page.
const defaultLimit = 100

type ProductFilter struct {
	Name       string
	Category   string
	SupplierID *int
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	MinQty     *int
	MaxQty     *int
	Offset     *int
	Limit      *int
}

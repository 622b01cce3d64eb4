package handlers

import (
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/shopspring/decimal"
)

type ProductRequest struct {
	SKU          string           `json:"sku" validate:"required"`
	Name         string           `json:"name" validate:"required"`
	Description  string           `json:"description"`
	Category     *string          `json:"category" validate:"required"`
	Price        *decimal.Decimal `json:"price" validate:"required,gte=0" swaggertype:"number"`
	Quantity     *int             `json:"quantity" validate:"required,gte=0,lte=2147483647"`
	ReorderLevel *int             `json:"reorder_level" validate:"required,gte=0,lte=2147483647"`
	SupplierID   *int             `json:"supplier_id" validate:"required,gt=0,lte=2147483647"`
}

// ProductUpdateRequest is a partial update. Quantity is accepted only to be
// rejected: stock moves through transactions.
type ProductUpdateRequest struct {
	SKU          *string          `json:"sku" validate:"omitnil,min=1"`
	Name         *string          `json:"name" validate:"omitnil,min=1"`
	Description  *string          `json:"description"`
	Category     *string          `json:"category"`
	Price        *decimal.Decimal `json:"price" validate:"omitnil,gte=0" swaggertype:"number"`
	Quantity     *int             `json:"quantity,omitempty"`
	ReorderLevel *int             `json:"reorder_level" validate:"omitnil,gte=0,lte=2147483647"`
	SupplierID   *int             `json:"supplier_id" validate:"omitnil,gt=0,lte=2147483647"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ProductsSearchResult struct {
	Data []models.Product `json:"data"`
	Meta Meta             `json:"meta"`
}

type SupplierRequest struct {
	Name          string `json:"name" validate:"required"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

type SupplierUpdateRequest struct {
	Name          *string `json:"name" validate:"omitnil,min=1"`
	ContactPerson *string `json:"contact_person"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
}

type CategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type TransactionRequest struct {
	ProductID       *int             `json:"product_id" validate:"required"`
	TransactionType string           `json:"transaction_type" validate:"required"`
	Quantity        *int             `json:"quantity" validate:"required"`
	UnitPrice       *decimal.Decimal `json:"unit_price" validate:"required" swaggertype:"number"`
	Notes           string           `json:"notes"`
	UserID          *int             `json:"user_id"`
}

type TransactionsSearchResult struct {
	Data []models.Transaction `json:"data"`
	Meta Meta                 `json:"meta"`
}

type CredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type RegisterResult struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
	Token   string      `json:"token"`
}

type ImportProductsResult struct {
	Imported int      `json:"imported"`
	Updated  int      `json:"updated"`
	Errors   []string `json:"errors"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBranchRequest body para POST /api/branches.
type CreateBranchRequest struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// BranchResponse sucursal en respuestas.
type BranchResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	SupplierID  string `json:"supplier_id,omitempty"`
}

// ProductResponse producto del catálogo en respuestas.
type ProductResponse struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	SupplierID  string    `json:"supplier_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateSupplierRequest body para POST /api/suppliers.
type CreateSupplierRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// SupplierResponse proveedor en respuestas.
type SupplierResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BranchStockResponse stock y precio de un producto en una sucursal.
type BranchStockResponse struct {
	BranchProductID string          `json:"branch_product_id"`
	ProductID       string          `json:"product_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
}

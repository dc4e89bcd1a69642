package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTransferLineRequest una línea solicitada en un préstamo.
type CreateTransferLineRequest struct {
	BranchProductID string          `json:"branch_product_id"`
	ProductID       string          `json:"product_id"`
	LendQuantity    decimal.Decimal `json:"lend_quantity"`
}

// CreateTransferRequest body para POST /api/transfers.
// La sucursal solicitante sale del token; aquí viaja la prestamista y el detalle.
type CreateTransferRequest struct {
	FromBranchID string                      `json:"from_branch_id"`
	Reason       string                      `json:"reason"`
	Lines        []CreateTransferLineRequest `json:"lines"`
}

// ReturnLineRequest nueva cantidad devuelta acumulada para una línea.
type ReturnLineRequest struct {
	BranchProductID  string          `json:"branch_product_id"`
	ReturnedQuantity decimal.Decimal `json:"returned_quantity"`
}

// RecordReturnsRequest body para POST /api/transfers/:id/returns.
type RecordReturnsRequest struct {
	Lines []ReturnLineRequest `json:"lines"`
}

// TransferLineResponse línea de préstamo en respuestas.
type TransferLineResponse struct {
	BranchProductID  string          `json:"branch_product_id"`
	ProductID        string          `json:"product_id"`
	LendQuantity     decimal.Decimal `json:"lend_quantity"`
	ReturnedQuantity decimal.Decimal `json:"returned_quantity"`
	Remaining        decimal.Decimal `json:"remaining"`
}

// TransferResponse representación de un préstamo en respuestas HTTP.
type TransferResponse struct {
	ID            string                 `json:"id"`
	FromBranchID  string                 `json:"from_branch_id"`
	ToBranchID    string                 `json:"to_branch_id"`
	Type          string                 `json:"type"`
	Status        string                 `json:"status"`
	RequestStatus string                 `json:"request_status"`
	Reason        string                 `json:"reason"`
	Lines         []TransferLineResponse `json:"lines"`
	Version       int                    `json:"version"`
	CreatedAt     time.Time              `json:"created_at"`
	CreatedBy     string                 `json:"created_by"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// ValueAtRiskResponse valor monetario pendiente de devolución de un préstamo.
type ValueAtRiskResponse struct {
	TransferID  string          `json:"transfer_id"`
	ValueAtRisk decimal.Decimal `json:"value_at_risk"`
}

// AuditEntryResponse entrada del historial de auditoría.
type AuditEntryResponse struct {
	ID         string    `json:"id"`
	TransferID string    `json:"transfer_id"`
	UserID     string    `json:"user_id"`
	UserName   string    `json:"user_name"`
	Action     string    `json:"action"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

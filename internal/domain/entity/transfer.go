package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados derivados de un préstamo entre sucursales.
const (
	TransferStatusPending   = "Pending"
	TransferStatusPartial   = "Partial"
	TransferStatusCompleted = "Completed"
	TransferStatusDenied    = "Denied"
)

// Estados de la solicitud (decisión de la sucursal prestamista).
const (
	RequestStatusPending  = "Pending"
	RequestStatusApproved = "Approved"
	RequestStatusDenied   = "Denied"
)

// TransferTypeBorrowRequest único tipo creado por este workflow.
const TransferTypeBorrowRequest = "borrow_request"

// Transfer representa una solicitud de préstamo de stock entre dos sucursales.
// FromBranchID presta, ToBranchID solicita; ambos inmutables tras la creación.
// Status es derivado (ver transfer.DeriveStatus), nunca se asigna a mano salvo
// en la creación (Pending) y en la denegación (Denied).
// Version es el token de concurrencia optimista: cada mutación lo incrementa
// y el UPDATE verifica la versión leída.
type Transfer struct {
	ID            string
	FromBranchID  string
	ToBranchID    string
	Type          string // borrow_request
	Status        string // Pending, Partial, Completed, Denied
	RequestStatus string // Pending, Approved, Denied
	Reason        string
	Lines         []TransferLine
	Version       int
	CreatedAt     time.Time
	CreatedBy     string // UserID
	UpdatedAt     time.Time
}

// TransferLine una línea del préstamo: cantidad prestada y cantidad devuelta de un producto.
// Invariante: 0 <= ReturnedQuantity <= LendQuantity, con ReturnedQuantity monótona no decreciente.
type TransferLine struct {
	BranchProductID  string
	ProductID        string
	LendQuantity     decimal.Decimal
	ReturnedQuantity decimal.Decimal
}

// Remaining cantidad pendiente de devolución de la línea.
func (l TransferLine) Remaining() decimal.Decimal {
	return l.LendQuantity.Sub(l.ReturnedQuantity)
}

// IsTerminal indica si el préstamo ya no admite mutaciones (Completed o Denied).
func (t *Transfer) IsTerminal() bool {
	return t.Status == TransferStatusCompleted || t.Status == TransferStatusDenied
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BranchProduct stock y precio de venta de un producto en una sucursal concreta.
// El workflow de préstamos solo lo lee: la cantidad disponible se verifica al
// crear la solicitud y el precio alimenta el cálculo de valor en riesgo.
type BranchProduct struct {
	ID        string
	BranchID  string
	ProductID string
	Quantity  decimal.Decimal // cantidad disponible en la sucursal
	Price     decimal.Decimal // precio de venta unitario en la sucursal
	UpdatedAt time.Time
}

package repository

import "github.com/jhoicas/salon-stock-api/internal/domain/entity"

// TransferRepository define el puerto de persistencia para préstamos entre sucursales.
// Las mutaciones se usan dentro de transacciones (TxRunner) para que el documento
// completo (cabecera + líneas) se escriba de forma atómica.
type TransferRepository interface {
	Create(t *entity.Transfer) error
	GetByID(id string) (*entity.Transfer, error)
	// GetForUpdate bloquea la fila del préstamo (SELECT FOR UPDATE) dentro de la tx.
	GetForUpdate(id string) (*entity.Transfer, error)
	// UpdateWithVersion reescribe cabecera y líneas verificando la versión leída;
	// devuelve domain.ErrVersionConflict si otro proceso escribió antes.
	UpdateWithVersion(t *entity.Transfer, expectedVersion int) error
	// ListByBranch devuelve los préstamos donde la sucursal participa como
	// prestamista o solicitante, más recientes primero.
	ListByBranch(branchID string, limit, offset int) ([]*entity.Transfer, error)
	// ListOpenByLender devuelve los préstamos no terminales donde la sucursal presta
	// (insumo del valor en riesgo de portafolio).
	ListOpenByLender(branchID string) ([]*entity.Transfer, error)
}

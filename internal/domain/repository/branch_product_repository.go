package repository

import "github.com/jhoicas/salon-stock-api/internal/domain/entity"

// BranchProductRepository puerto de lectura de stock y precio por sucursal.
// El workflow de préstamos nunca escribe estas filas; GetForUpdate existe para
// que la verificación de disponibilidad al crear una solicitud sea consistente
// dentro de la misma transacción.
type BranchProductRepository interface {
	GetByID(id string) (*entity.BranchProduct, error)
	GetForUpdate(id string) (*entity.BranchProduct, error)
	GetByBranchAndProduct(branchID, productID string) (*entity.BranchProduct, error)
	ListByBranch(branchID string) ([]*entity.BranchProduct, error)
}

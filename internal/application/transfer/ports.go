package transfer

import (
	"context"

	"github.com/jhoicas/salon-stock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza que cabecera y líneas de un préstamo se escriban como
// un solo documento atómico.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		transferRepo repository.TransferRepository,
		stockRepo repository.BranchProductRepository,
	) error) error
}

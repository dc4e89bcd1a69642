package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/salon-stock-api/internal/domain/entity"
	"github.com/jhoicas/salon-stock-api/internal/domain/repository"
)

var _ repository.BranchProductRepository = (*BranchProductRepo)(nil)

// BranchProductRepo implementación de BranchProductRepository sobre PostgreSQL (usable con pool o tx).
// Este adaptador es de solo lectura para el workflow de préstamos; la escritura
// de stock pertenece al subsistema de gestión de productos.
type BranchProductRepo struct {
	q Querier
}

// NewBranchProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBranchProductRepository(q Querier) *BranchProductRepo {
	return &BranchProductRepo{q: q}
}

const branchProductColumns = `id, branch_id, product_id, quantity, price, updated_at`

// GetByID obtiene una fila de stock por id.
func (r *BranchProductRepo) GetByID(id string) (*entity.BranchProduct, error) {
	query := `SELECT ` + branchProductColumns + ` FROM branch_products WHERE id = $1`
	return r.scanOne(query, id)
}

// GetForUpdate obtiene la fila de stock bloqueándola (SELECT FOR UPDATE).
func (r *BranchProductRepo) GetForUpdate(id string) (*entity.BranchProduct, error) {
	query := `SELECT ` + branchProductColumns + ` FROM branch_products WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

// GetByBranchAndProduct obtiene la fila de stock de un producto en una sucursal.
func (r *BranchProductRepo) GetByBranchAndProduct(branchID, productID string) (*entity.BranchProduct, error) {
	query := `SELECT ` + branchProductColumns + ` FROM branch_products WHERE branch_id = $1 AND product_id = $2`
	return r.scanOne(query, branchID, productID)
}

// ListByBranch devuelve el stock completo de una sucursal.
func (r *BranchProductRepo) ListByBranch(branchID string) ([]*entity.BranchProduct, error) {
	query := `SELECT ` + branchProductColumns + ` FROM branch_products WHERE branch_id = $1 ORDER BY product_id`
	rows, err := r.q.Query(context.Background(), query, branchID)
	if err != nil {
		return nil, fmt.Errorf("list branch products: %w", err)
	}
	defer rows.Close()

	var items []*entity.BranchProduct
	for rows.Next() {
		var bp entity.BranchProduct
		if err := rows.Scan(&bp.ID, &bp.BranchID, &bp.ProductID, &bp.Quantity, &bp.Price, &bp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan branch product: %w", err)
		}
		items = append(items, &bp)
	}
	return items, rows.Err()
}

func (r *BranchProductRepo) scanOne(query string, args ...any) (*entity.BranchProduct, error) {
	var bp entity.BranchProduct
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&bp.ID, &bp.BranchID, &bp.ProductID, &bp.Quantity, &bp.Price, &bp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch product: %w", err)
	}
	return &bp, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/salon-stock-api/internal/domain"
	"github.com/jhoicas/salon-stock-api/internal/domain/entity"
	"github.com/jhoicas/salon-stock-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL (usable con pool o tx).
// Cabecera en stock_transfers, líneas en stock_transfer_lines (orden preservado
// por line_order). La versión de la cabecera es el token de concurrencia.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador de préstamos. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, from_branch_id, to_branch_id, type, status, request_status, reason, version, created_at, created_by, updated_at`

// Create persiste cabecera y líneas. Llamar dentro de una tx para atomicidad.
func (r *TransferRepo) Create(t *entity.Transfer) error {
	query := `
		INSERT INTO stock_transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.FromBranchID, t.ToBranchID, t.Type, t.Status, t.RequestStatus,
		t.Reason, t.Version, t.CreatedAt, t.CreatedBy, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	lineQuery := `
		INSERT INTO stock_transfer_lines (transfer_id, branch_product_id, product_id, lend_quantity, returned_quantity, line_order)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for i, l := range t.Lines {
		_, err := r.q.Exec(context.Background(), lineQuery,
			t.ID, l.BranchProductID, l.ProductID, l.LendQuantity, l.ReturnedQuantity, i,
		)
		if err != nil {
			return fmt.Errorf("insert transfer line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un préstamo con sus líneas.
func (r *TransferRepo) GetByID(id string) (*entity.Transfer, error) {
	return r.get(id, false)
}

// GetForUpdate obtiene el préstamo bloqueando la fila de cabecera (SELECT FOR UPDATE).
func (r *TransferRepo) GetForUpdate(id string) (*entity.Transfer, error) {
	return r.get(id, true)
}

func (r *TransferRepo) get(id string, forUpdate bool) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM stock_transfers WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var t entity.Transfer
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.FromBranchID, &t.ToBranchID, &t.Type, &t.Status, &t.RequestStatus,
		&t.Reason, &t.Version, &t.CreatedAt, &t.CreatedBy, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	if err := r.loadLines(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateWithVersion reescribe cabecera y cantidades devueltas verificando la
// versión leída. Si la fila cambió de versión devuelve ErrVersionConflict.
func (r *TransferRepo) UpdateWithVersion(t *entity.Transfer, expectedVersion int) error {
	query := `
		UPDATE stock_transfers
		SET status = $1, request_status = $2, version = $3, updated_at = $4
		WHERE id = $5 AND version = $6`
	tag, err := r.q.Exec(context.Background(), query,
		t.Status, t.RequestStatus, t.Version, t.UpdatedAt, t.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVersionConflict
	}
	lineQuery := `
		UPDATE stock_transfer_lines
		SET returned_quantity = $1
		WHERE transfer_id = $2 AND branch_product_id = $3`
	for _, l := range t.Lines {
		if _, err := r.q.Exec(context.Background(), lineQuery, l.ReturnedQuantity, t.ID, l.BranchProductID); err != nil {
			return fmt.Errorf("update transfer line: %w", err)
		}
	}
	return nil
}

// ListByBranch devuelve los préstamos donde la sucursal presta o solicita, más recientes primero.
func (r *TransferRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM stock_transfers
		WHERE from_branch_id = $1 OR to_branch_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	return r.list(query, branchID, limit, offset)
}

// ListOpenByLender devuelve los préstamos no terminales donde la sucursal presta.
func (r *TransferRepo) ListOpenByLender(branchID string) ([]*entity.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM stock_transfers
		WHERE from_branch_id = $1 AND status NOT IN ($2, $3)
		ORDER BY created_at DESC`
	return r.list(query, branchID, entity.TransferStatusCompleted, entity.TransferStatusDenied)
}

func (r *TransferRepo) list(query string, args ...any) ([]*entity.Transfer, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var transfers []*entity.Transfer
	for rows.Next() {
		var t entity.Transfer
		if err := rows.Scan(
			&t.ID, &t.FromBranchID, &t.ToBranchID, &t.Type, &t.Status, &t.RequestStatus,
			&t.Reason, &t.Version, &t.CreatedAt, &t.CreatedBy, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		transfers = append(transfers, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	for _, t := range transfers {
		if err := r.loadLines(t); err != nil {
			return nil, err
		}
	}
	return transfers, nil
}

func (r *TransferRepo) loadLines(t *entity.Transfer) error {
	query := `
		SELECT branch_product_id, product_id, lend_quantity, returned_quantity
		FROM stock_transfer_lines
		WHERE transfer_id = $1
		ORDER BY line_order`
	rows, err := r.q.Query(context.Background(), query, t.ID)
	if err != nil {
		return fmt.Errorf("load transfer lines: %w", err)
	}
	defer rows.Close()

	t.Lines = t.Lines[:0]
	for rows.Next() {
		var l entity.TransferLine
		if err := rows.Scan(&l.BranchProductID, &l.ProductID, &l.LendQuantity, &l.ReturnedQuantity); err != nil {
			return fmt.Errorf("scan transfer line: %w", err)
		}
		t.Lines = append(t.Lines, l)
	}
	return rows.Err()
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/salon-stock-api/internal/domain/entity"
	"github.com/jhoicas/salon-stock-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación append-only de AuditRepository sobre PostgreSQL.
// No expone Update ni Delete: las entradas son inmutables.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador de auditoría. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create inserta una entrada nueva.
func (r *AuditRepo) Create(e *entity.AuditEntry) error {
	query := `
		INSERT INTO stock_transfer_audit (id, transfer_id, user_id, user_name, action, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.TransferID, e.UserID, e.UserName, e.Action, e.Details, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListByTransfer devuelve el historial de un préstamo ordenado por timestamp.
func (r *AuditRepo) ListByTransfer(transferID string) ([]*entity.AuditEntry, error) {
	query := `
		SELECT id, transfer_id, user_id, user_name, action, details, created_at
		FROM stock_transfer_audit
		WHERE transfer_id = $1
		ORDER BY created_at`
	return r.list(query, transferID)
}

// ListRecentByBranch devuelve la actividad reciente sobre préstamos donde participa la sucursal.
func (r *AuditRepo) ListRecentByBranch(branchID string, limit int) ([]*entity.AuditEntry, error) {
	query := `
		SELECT a.id, a.transfer_id, a.user_id, a.user_name, a.action, a.details, a.created_at
		FROM stock_transfer_audit a
		JOIN stock_transfers t ON t.id = a.transfer_id
		WHERE t.from_branch_id = $1 OR t.to_branch_id = $1
		ORDER BY a.created_at DESC
		LIMIT $2`
	return r.list(query, branchID, limit)
}

func (r *AuditRepo) list(query string, args ...any) ([]*entity.AuditEntry, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.AuditEntry
	for rows.Next() {
		var e entity.AuditEntry
		if err := rows.Scan(&e.ID, &e.TransferID, &e.UserID, &e.UserName, &e.Action, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

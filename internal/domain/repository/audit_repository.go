package repository

import "github.com/jhoicas/salon-stock-api/internal/domain/entity"

// AuditRepository puerto append-only del historial de auditoría.
// No hay Update ni Delete: las entradas son inmutables.
type AuditRepository interface {
	Create(e *entity.AuditEntry) error
	ListByTransfer(transferID string) ([]*entity.AuditEntry, error)
	ListRecentByBranch(branchID string, limit int) ([]*entity.AuditEntry, error)
}

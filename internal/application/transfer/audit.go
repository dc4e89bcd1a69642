package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/salon-stock-api/internal/domain/entity"
	"github.com/jhoicas/salon-stock-api/internal/domain/repository"
	"github.com/jhoicas/salon-stock-api/pkg/logger"
)

// AuditRecorder agrega una entrada inmutable por cada mutación del workflow,
// después del commit de la transacción principal.
//
// Política explícita (configurable vía AUDIT_STRICT):
//   - best-effort (default): si la escritura de auditoría falla se registra en
//     el log y la operación ya confirmada se reporta como exitosa. Un fallo de
//     auditoría no debe bloquear el movimiento de inventario.
//   - strict: el error de auditoría se devuelve al caller. La mutación ya está
//     confirmada; el caller decide cómo reconciliar.
type AuditRecorder struct {
	repo   repository.AuditRepository
	log    *logger.Logger
	strict bool
}

// NewAuditRecorder construye el recorder.
func NewAuditRecorder(repo repository.AuditRepository, log *logger.Logger, strict bool) *AuditRecorder {
	return &AuditRecorder{repo: repo, log: log, strict: strict}
}

// Record persiste la entrada, asignando id y timestamp del servidor.
func (r *AuditRecorder) Record(ctx context.Context, e *entity.AuditEntry) error {
	e.ID = uuid.New().String()
	e.CreatedAt = time.Now()
	if err := r.repo.Create(e); err != nil {
		if r.strict {
			return fmt.Errorf("auditoría: %w", err)
		}
		r.log.Error().
			Err(err).
			Str("transfer_id", e.TransferID).
			Str("action", e.Action).
			Msg("fallo al escribir auditoría; la mutación ya fue confirmada")
	}
	return nil
}

// ListByTransfer devuelve el historial de un préstamo ordenado por timestamp.
func (r *AuditRecorder) ListByTransfer(transferID string) ([]*entity.AuditEntry, error) {
	return r.repo.ListByTransfer(transferID)
}

// ListRecentByBranch devuelve la actividad reciente de una sucursal (tablero).
func (r *AuditRecorder) ListRecentByBranch(branchID string, limit int) ([]*entity.AuditEntry, error) {
	return r.repo.ListRecentByBranch(branchID, limit)
}

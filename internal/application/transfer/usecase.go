package transfer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/salon-stock-api/internal/application/dto"
	"github.com/jhoicas/salon-stock-api/internal/domain"
	"github.com/jhoicas/salon-stock-api/internal/domain/entity"
	"github.com/jhoicas/salon-stock-api/internal/domain/repository"
	domaintransfer "github.com/jhoicas/salon-stock-api/internal/domain/transfer"
)

// BorrowUseCase implementa el workflow de préstamos de stock entre sucursales:
// creación de la solicitud, aprobación/denegación por la prestamista y registro
// de devoluciones parciales o totales. Cada mutación corre en una transacción
// con bloqueo de fila (SELECT FOR UPDATE) y verificación de versión al escribir.
type BorrowUseCase struct {
	txRunner   TxRunner
	transfers  repository.TransferRepository
	branchRepo repository.BranchRepository
	audit      *AuditRecorder
}

// NewBorrowUseCase construye el caso de uso.
func NewBorrowUseCase(
	txRunner TxRunner,
	transfers repository.TransferRepository,
	branchRepo repository.BranchRepository,
	audit *AuditRecorder,
) *BorrowUseCase {
	return &BorrowUseCase{
		txRunner:   txRunner,
		transfers:  transfers,
		branchRepo: branchRepo,
		audit:      audit,
	}
}

// CreateBorrowRequest crea una solicitud de préstamo de la sucursal del actor
// (solicitante) hacia in.FromBranchID (prestamista). Las cantidades pedidas se
// verifican contra la disponibilidad actual con las filas de stock bloqueadas
// dentro de la misma transacción. El préstamo nace Pending/Pending con
// devoluciones en cero y versión 1.
func (uc *BorrowUseCase) CreateBorrowRequest(ctx context.Context, actor ActingContext, in dto.CreateTransferRequest) (*entity.Transfer, error) {
	if actor.BranchID == "" || actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.FromBranchID == "" || in.FromBranchID == actor.BranchID {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Lines) == 0 || in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, l := range in.Lines {
		if l.BranchProductID == "" || !l.LendQuantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
	}

	lender, err := uc.branchRepo.GetByID(in.FromBranchID)
	if err != nil {
		return nil, err
	}
	if lender == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	t := &entity.Transfer{
		ID:            uuid.New().String(),
		FromBranchID:  in.FromBranchID,
		ToBranchID:    actor.BranchID,
		Type:          entity.TransferTypeBorrowRequest,
		Status:        entity.TransferStatusPending,
		RequestStatus: entity.RequestStatusPending,
		Reason:        in.Reason,
		Version:       1,
		CreatedAt:     now,
		CreatedBy:     actor.UserID,
		UpdatedAt:     now,
	}

	err = uc.txRunner.Run(ctx, func(
		transferRepo repository.TransferRepository,
		stockRepo repository.BranchProductRepository,
	) error {
		for _, l := range in.Lines {
			// Bloquea la fila de stock para que la verificación de disponibilidad
			// sea consistente en el momento del commit.
			bp, err := stockRepo.GetForUpdate(l.BranchProductID)
			if err != nil {
				return err
			}
			if bp == nil || bp.BranchID != in.FromBranchID {
				return domain.ErrNotFound
			}
			if l.ProductID != "" && l.ProductID != bp.ProductID {
				return domain.ErrInvalidInput
			}
			if bp.Quantity.LessThan(l.LendQuantity) {
				return domain.ErrInsufficientStock
			}
			t.Lines = append(t.Lines, entity.TransferLine{
				BranchProductID:  bp.ID,
				ProductID:        bp.ProductID,
				LendQuantity:     l.LendQuantity,
				ReturnedQuantity: decimal.Zero,
			})
		}
		return transferRepo.Create(t)
	})
	if err != nil {
		return nil, err
	}

	if err := uc.recordAudit(ctx, actor, t, entity.AuditActionCreate, createDetails(t)); err != nil {
		return nil, err
	}
	return t, nil
}

// Approve marca la solicitud como aprobada. Solo la sucursal prestamista puede
// aprobar y únicamente mientras la solicitud sigue Pending. El estado derivado
// no cambia (sin devoluciones sigue Pending).
func (uc *BorrowUseCase) Approve(ctx context.Context, actor ActingContext, transferID string) (*entity.Transfer, error) {
	t, err := uc.decide(ctx, actor, transferID, entity.RequestStatusApproved)
	if err != nil {
		return nil, err
	}
	if err := uc.recordAudit(ctx, actor, t, entity.AuditActionApprove, nil); err != nil {
		return nil, err
	}
	return t, nil
}

// Deny deniega la solicitud. Mismas reglas de autorización que Approve;
// deja el préstamo en estado terminal Denied.
func (uc *BorrowUseCase) Deny(ctx context.Context, actor ActingContext, transferID string) (*entity.Transfer, error) {
	t, err := uc.decide(ctx, actor, transferID, entity.RequestStatusDenied)
	if err != nil {
		return nil, err
	}
	if err := uc.recordAudit(ctx, actor, t, entity.AuditActionDeny, nil); err != nil {
		return nil, err
	}
	return t, nil
}

// decide aplica la decisión de la prestamista (Approved o Denied) bajo bloqueo de fila.
func (uc *BorrowUseCase) decide(ctx context.Context, actor ActingContext, transferID, decision string) (*entity.Transfer, error) {
	if transferID == "" {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.Transfer
	err := uc.txRunner.Run(ctx, func(
		transferRepo repository.TransferRepository,
		_ repository.BranchProductRepository,
	) error {
		t, err := transferRepo.GetForUpdate(transferID)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if actor.BranchID != t.FromBranchID {
			return domain.ErrForbidden
		}
		if t.RequestStatus != entity.RequestStatusPending {
			return domain.ErrInvalidState
		}
		readVersion := t.Version
		t.RequestStatus = decision
		t.Status = domaintransfer.DeriveStatus(t.RequestStatus, t.Lines)
		t.Version++
		t.UpdatedAt = time.Now()
		if err := transferRepo.UpdateWithVersion(t, readVersion); err != nil {
			return err
		}
		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordReturns registra las cantidades devueltas acumuladas por línea. Solo la
// prestamista, solo con la solicitud aprobada y nunca sobre un préstamo terminal.
// Cantidades fuera de rango (menores a lo ya devuelto o mayores a lo prestado)
// se rechazan con ErrInvalidInput; no se recortan en silencio. Si las cantidades
// finales no cambian nada, el documento no se reescribe pero la llamada se
// audita igual (una entrada por llamada).
func (uc *BorrowUseCase) RecordReturns(ctx context.Context, actor ActingContext, transferID string, in dto.RecordReturnsRequest) (*entity.Transfer, error) {
	if transferID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	type lineChange struct {
		BranchProductID string          `json:"branch_product_id"`
		ProductID       string          `json:"product_id"`
		Old             decimal.Decimal `json:"old_returned"`
		New             decimal.Decimal `json:"new_returned"`
	}
	var changes []lineChange
	var result *entity.Transfer

	err := uc.txRunner.Run(ctx, func(
		transferRepo repository.TransferRepository,
		_ repository.BranchProductRepository,
	) error {
		t, err := transferRepo.GetForUpdate(transferID)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if actor.BranchID != t.FromBranchID {
			return domain.ErrForbidden
		}
		if t.IsTerminal() || t.RequestStatus != entity.RequestStatusApproved {
			return domain.ErrInvalidState
		}

		byID := make(map[string]int, len(t.Lines))
		for i, l := range t.Lines {
			byID[l.BranchProductID] = i
		}

		changed := false
		changes = changes[:0]
		for _, r := range in.Lines {
			i, ok := byID[r.BranchProductID]
			if !ok {
				return domain.ErrInvalidInput
			}
			line := &t.Lines[i]
			if r.ReturnedQuantity.LessThan(line.ReturnedQuantity) ||
				r.ReturnedQuantity.GreaterThan(line.LendQuantity) {
				return domain.ErrInvalidInput
			}
			changes = append(changes, lineChange{
				BranchProductID: line.BranchProductID,
				ProductID:       line.ProductID,
				Old:             line.ReturnedQuantity,
				New:             r.ReturnedQuantity,
			})
			if !r.ReturnedQuantity.Equal(line.ReturnedQuantity) {
				line.ReturnedQuantity = r.ReturnedQuantity
				changed = true
			}
		}

		if changed {
			readVersion := t.Version
			t.Status = domaintransfer.DeriveStatus(t.RequestStatus, t.Lines)
			t.Version++
			t.UpdatedAt = time.Now()
			if err := transferRepo.UpdateWithVersion(t, readVersion); err != nil {
				return err
			}
		}
		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	details, _ := json.Marshal(changes)
	if err := uc.recordAudit(ctx, actor, result, entity.AuditActionReturns, details); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID devuelve un préstamo visible para la sucursal del actor.
func (uc *BorrowUseCase) GetByID(ctx context.Context, actor ActingContext, transferID string) (*entity.Transfer, error) {
	t, err := uc.transfers.GetByID(transferID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if actor.BranchID != t.FromBranchID && actor.BranchID != t.ToBranchID {
		return nil, domain.ErrForbidden
	}
	return t, nil
}

// ListByBranch devuelve los préstamos donde participa la sucursal del actor.
func (uc *BorrowUseCase) ListByBranch(ctx context.Context, actor ActingContext, page dto.PageRequest) ([]*entity.Transfer, error) {
	page.DefaultPage()
	return uc.transfers.ListByBranch(actor.BranchID, page.Limit, page.Offset)
}

// AuditTrail devuelve el historial de auditoría de un préstamo visible para el actor.
func (uc *BorrowUseCase) AuditTrail(ctx context.Context, actor ActingContext, transferID string) ([]*entity.AuditEntry, error) {
	if _, err := uc.GetByID(ctx, actor, transferID); err != nil {
		return nil, err
	}
	return uc.audit.ListByTransfer(transferID)
}

func (uc *BorrowUseCase) recordAudit(ctx context.Context, actor ActingContext, t *entity.Transfer, action string, details json.RawMessage) error {
	return uc.audit.Record(ctx, &entity.AuditEntry{
		TransferID: t.ID,
		UserID:     actor.UserID,
		UserName:   actor.UserName,
		Action:     action,
		Details:    details,
	})
}

func createDetails(t *entity.Transfer) json.RawMessage {
	type createdLine struct {
		BranchProductID string          `json:"branch_product_id"`
		ProductID       string          `json:"product_id"`
		LendQuantity    decimal.Decimal `json:"lend_quantity"`
	}
	lines := make([]createdLine, 0, len(t.Lines))
	for _, l := range t.Lines {
		lines = append(lines, createdLine{
			BranchProductID: l.BranchProductID,
			ProductID:       l.ProductID,
			LendQuantity:    l.LendQuantity,
		})
	}
	details, _ := json.Marshal(struct {
		Reason string        `json:"reason"`
		Lines  []createdLine `json:"lines"`
	}{Reason: t.Reason, Lines: lines})
	return details
}

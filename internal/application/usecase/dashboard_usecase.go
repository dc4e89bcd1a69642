package usecase

import (
	"context"

	"github.com/jhoicas/salon-stock-api/internal/application/dto"
	apptransfer "github.com/jhoicas/salon-stock-api/internal/application/transfer"
	"github.com/jhoicas/salon-stock-api/internal/domain/entity"
	"github.com/jhoicas/salon-stock-api/internal/domain/repository"
)

// DashboardUseCase arma el resumen por sucursal del tablero principal:
// préstamos abiertos, conteos por estado, valor en riesgo de portafolio
// y actividad reciente.
type DashboardUseCase struct {
	transfers repository.TransferRepository
	valuation *apptransfer.ValuationUseCase
	audit     *apptransfer.AuditRecorder
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	transfers repository.TransferRepository,
	valuation *apptransfer.ValuationUseCase,
	audit *apptransfer.AuditRecorder,
) *DashboardUseCase {
	return &DashboardUseCase{transfers: transfers, valuation: valuation, audit: audit}
}

const dashboardListLimit = 200

// Summary calcula el resumen para la sucursal indicada.
func (uc *DashboardUseCase) Summary(ctx context.Context, branchID string) (*dto.DashboardSummaryResponse, error) {
	transfers, err := uc.transfers.ListByBranch(branchID, dashboardListLimit, 0)
	if err != nil {
		return nil, err
	}

	summary := &dto.DashboardSummaryResponse{
		BranchID:       branchID,
		CountsByStatus: map[string]int{},
	}
	for _, t := range transfers {
		summary.CountsByStatus[t.Status]++
		if t.IsTerminal() {
			continue
		}
		if t.FromBranchID == branchID {
			summary.OpenAsLender++
		} else {
			summary.OpenAsBorrower++
		}
	}

	portfolio, err := uc.valuation.PortfolioValueAtRisk(ctx, branchID)
	if err != nil {
		return nil, err
	}
	summary.PortfolioValueAtRisk = portfolio

	recent, err := uc.audit.ListRecentByBranch(branchID, 10)
	if err != nil {
		return nil, err
	}
	for _, e := range recent {
		summary.RecentActivity = append(summary.RecentActivity, toAuditResponse(e))
	}
	return summary, nil
}

func toAuditResponse(e *entity.AuditEntry) dto.AuditEntryResponse {
	return dto.AuditEntryResponse{
		ID:         e.ID,
		TransferID: e.TransferID,
		UserID:     e.UserID,
		UserName:   e.UserName,
		Action:     e.Action,
		Details:    string(e.Details),
		CreatedAt:  e.CreatedAt,
	}
}

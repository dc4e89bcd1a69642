package dto

import "github.com/shopspring/decimal"

// DashboardSummaryResponse resumen por sucursal para el tablero principal.
type DashboardSummaryResponse struct {
	BranchID             string               `json:"branch_id"`
	OpenAsLender         int                  `json:"open_as_lender"`
	OpenAsBorrower       int                  `json:"open_as_borrower"`
	CountsByStatus       map[string]int       `json:"counts_by_status"`
	PortfolioValueAtRisk decimal.Decimal      `json:"portfolio_value_at_risk"`
	RecentActivity       []AuditEntryResponse `json:"recent_activity"`
}

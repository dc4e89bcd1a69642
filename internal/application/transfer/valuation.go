package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/salon-stock-api/internal/domain/entity"
	"github.com/jhoicas/salon-stock-api/internal/domain/repository"
)

// PriceSource devuelve el precio de venta unitario vigente de un producto en una
// sucursal. La implementación de producción es un caché read-through sobre el
// repositorio de stock por sucursal.
type PriceSource interface {
	UnitPrice(ctx context.Context, branchID, productID string) (decimal.Decimal, error)
}

// ValuationUseCase calcula el valor de inventario en riesgo: lo prestado y aún
// no devuelto, valuado al precio de venta actual de la sucursal prestamista.
type ValuationUseCase struct {
	prices    PriceSource
	transfers repository.TransferRepository
	timeout   time.Duration // tope por consulta de precio
}

// NewValuationUseCase construye el agregador de valoración.
func NewValuationUseCase(prices PriceSource, transfers repository.TransferRepository, timeout time.Duration) *ValuationUseCase {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &ValuationUseCase{prices: prices, transfers: transfers, timeout: timeout}
}

// ValueAtRisk suma precio × pendiente sobre las líneas con devolución incompleta.
// Las consultas de precio son lecturas independientes y se lanzan en paralelo
// (fan-out/fan-in); el resultado se combina cuando todas terminan. Devuelve 0
// para un préstamo sin cantidades pendientes. Lectura pura, sin efectos.
func (uc *ValuationUseCase) ValueAtRisk(ctx context.Context, t *entity.Transfer) (decimal.Decimal, error) {
	type outstanding struct {
		productID string
		remaining decimal.Decimal
	}
	var pending []outstanding
	for _, l := range t.Lines {
		if rem := l.Remaining(); rem.IsPositive() {
			pending = append(pending, outstanding{productID: l.ProductID, remaining: rem})
		}
	}
	if len(pending) == 0 {
		return decimal.Zero, nil
	}

	amounts := make([]decimal.Decimal, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range pending {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, uc.timeout)
			defer cancel()
			price, err := uc.prices.UnitPrice(cctx, t.FromBranchID, p.productID)
			if err != nil {
				return fmt.Errorf("precio de %s en sucursal %s: %w", p.productID, t.FromBranchID, err)
			}
			amounts[i] = price.Mul(p.remaining)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total, nil
}

// PortfolioValueAtRisk suma el valor en riesgo de todos los préstamos no
// terminales donde la sucursal actúa como prestamista.
func (uc *ValuationUseCase) PortfolioValueAtRisk(ctx context.Context, branchID string) (decimal.Decimal, error) {
	open, err := uc.transfers.ListOpenByLender(branchID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, t := range open {
		v, err := uc.ValueAtRisk(ctx, t)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(v)
	}
	return total, nil
}

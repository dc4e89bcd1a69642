// Package cache implementa un caché read-through de precios por sucursal,
// desacoplado del ciclo de render de cualquier UI: la invalidación la controla
// el caller, no el paso del tiempo de pantalla.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	apptransfer "github.com/jhoicas/salon-stock-api/internal/application/transfer"
	"github.com/jhoicas/salon-stock-api/internal/domain"
	"github.com/jhoicas/salon-stock-api/internal/domain/repository"
)

var _ apptransfer.PriceSource = (*PriceCache)(nil)

type priceEntry struct {
	price     decimal.Decimal
	expiresAt time.Time
}

// PriceCache caché de precios con TTL e invalidación explícita por producto.
// Clave: sucursal + producto. Seguro para uso concurrente.
type PriceCache struct {
	stockRepo repository.BranchProductRepository
	ttl       time.Duration

	mu      sync.RWMutex
	entries map[string]priceEntry
}

// NewPriceCache construye el caché sobre el repositorio de stock por sucursal.
func NewPriceCache(stockRepo repository.BranchProductRepository, ttl time.Duration) *PriceCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PriceCache{
		stockRepo: stockRepo,
		ttl:       ttl,
		entries:   make(map[string]priceEntry),
	}
}

func key(branchID, productID string) string {
	return branchID + "|" + productID
}

// UnitPrice devuelve el precio unitario vigente: del caché si no expiró,
// si no lo lee del repositorio y lo guarda.
func (c *PriceCache) UnitPrice(ctx context.Context, branchID, productID string) (decimal.Decimal, error) {
	k := key(branchID, productID)

	c.mu.RLock()
	e, ok := c.entries[k]
	c.mu.RUnlock()
	if ok && time.Now().Before(e.expiresAt) {
		return e.price, nil
	}

	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	bp, err := c.stockRepo.GetByBranchAndProduct(branchID, productID)
	if err != nil {
		return decimal.Zero, err
	}
	if bp == nil {
		return decimal.Zero, domain.ErrNotFound
	}

	c.mu.Lock()
	c.entries[k] = priceEntry{price: bp.Price, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
	return bp.Price, nil
}

// Invalidate descarta las entradas de un producto en todas las sucursales.
func (c *PriceCache) Invalidate(productID string) {
	suffix := "|" + productID
	c.mu.Lock()
	for k := range c.entries {
		if len(k) >= len(suffix) && k[len(k)-len(suffix):] == suffix {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}

// InvalidateAll vacía el caché completo.
func (c *PriceCache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]priceEntry)
	c.mu.Unlock()
}

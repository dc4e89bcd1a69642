package transfer_test

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	apptransfer "github.com/jhoicas/salon-stock-api/internal/application/transfer"
	"github.com/jhoicas/salon-stock-api/internal/domain"
	"github.com/jhoicas/salon-stock-api/internal/domain/entity"
	"github.com/jhoicas/salon-stock-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los puertos de persistencia. Imitan el comportamiento
// observable de los repos Postgres: las lecturas devuelven copias (como un scan
// de filas) y UpdateWithVersion aplica el check de versión del UPDATE.
// ──────────────────────────────────────────────────────────────────────────────

func cloneTransfer(t *entity.Transfer) *entity.Transfer {
	cp := *t
	cp.Lines = append([]entity.TransferLine(nil), t.Lines...)
	return &cp
}

type fakeTransferRepo struct {
	mu        sync.Mutex
	transfers map[string]*entity.Transfer
}

var _ repository.TransferRepository = (*fakeTransferRepo)(nil)

func newFakeTransferRepo() *fakeTransferRepo {
	return &fakeTransferRepo{transfers: make(map[string]*entity.Transfer)}
}

func (r *fakeTransferRepo) Create(t *entity.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.transfers[t.ID]; ok {
		return domain.ErrDuplicate
	}
	r.transfers[t.ID] = cloneTransfer(t)
	return nil
}

func (r *fakeTransferRepo) GetByID(id string) (*entity.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transfers[id]
	if !ok {
		return nil, nil
	}
	return cloneTransfer(t), nil
}

func (r *fakeTransferRepo) GetForUpdate(id string) (*entity.Transfer, error) {
	return r.GetByID(id)
}

func (r *fakeTransferRepo) UpdateWithVersion(t *entity.Transfer, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.transfers[t.ID]
	if !ok || stored.Version != expectedVersion {
		return domain.ErrVersionConflict
	}
	r.transfers[t.ID] = cloneTransfer(t)
	return nil
}

func (r *fakeTransferRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Transfer
	for _, t := range r.transfers {
		if t.FromBranchID == branchID || t.ToBranchID == branchID {
			out = append(out, cloneTransfer(t))
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeTransferRepo) ListOpenByLender(branchID string) ([]*entity.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Transfer
	for _, t := range r.transfers {
		if t.FromBranchID == branchID && !t.IsTerminal() {
			out = append(out, cloneTransfer(t))
		}
	}
	return out, nil
}

type fakeStockRepo struct {
	mu    sync.Mutex
	items map[string]*entity.BranchProduct
}

var _ repository.BranchProductRepository = (*fakeStockRepo)(nil)

func newFakeStockRepo(items ...*entity.BranchProduct) *fakeStockRepo {
	r := &fakeStockRepo{items: make(map[string]*entity.BranchProduct)}
	for _, bp := range items {
		cp := *bp
		r.items[bp.ID] = &cp
	}
	return r
}

func (r *fakeStockRepo) GetByID(id string) (*entity.BranchProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bp, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *bp
	return &cp, nil
}

func (r *fakeStockRepo) GetForUpdate(id string) (*entity.BranchProduct, error) {
	return r.GetByID(id)
}

func (r *fakeStockRepo) GetByBranchAndProduct(branchID, productID string) (*entity.BranchProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bp := range r.items {
		if bp.BranchID == branchID && bp.ProductID == productID {
			cp := *bp
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeStockRepo) ListByBranch(branchID string) ([]*entity.BranchProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.BranchProduct
	for _, bp := range r.items {
		if bp.BranchID == branchID {
			cp := *bp
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeBranchRepo struct {
	mu       sync.Mutex
	branches map[string]*entity.Branch
}

var _ repository.BranchRepository = (*fakeBranchRepo)(nil)

func newFakeBranchRepo(branches ...*entity.Branch) *fakeBranchRepo {
	r := &fakeBranchRepo{branches: make(map[string]*entity.Branch)}
	for _, b := range branches {
		cp := *b
		r.branches[b.ID] = &cp
	}
	return r
}

func (r *fakeBranchRepo) Create(b *entity.Branch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.branches[b.ID] = &cp
	return nil
}

func (r *fakeBranchRepo) GetByID(id string) (*entity.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.branches[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBranchRepo) List() ([]*entity.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Branch
	for _, b := range r.branches {
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

// fakeAuditRepo guarda entradas append-only; failWith simula un fallo de escritura.
type fakeAuditRepo struct {
	mu       sync.Mutex
	entries  []*entity.AuditEntry
	failWith error
}

var _ repository.AuditRepository = (*fakeAuditRepo)(nil)

func (r *fakeAuditRepo) Create(e *entity.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	cp := *e
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *fakeAuditRepo) ListByTransfer(transferID string) ([]*entity.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.AuditEntry
	for _, e := range r.entries {
		if e.TransferID == transferID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAuditRepo) ListRecentByBranch(branchID string, limit int) ([]*entity.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.AuditEntry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *r.entries[i]
		out = append(out, &cp)
	}
	return out, nil
}

// fakeTxRunner ejecuta el callback sin transacción real; los fakes ya son atómicos
// por operación, suficiente para tests de un solo goroutine.
type fakeTxRunner struct {
	transfers *fakeTransferRepo
	stock     *fakeStockRepo
}

var _ apptransfer.TxRunner = (*fakeTxRunner)(nil)

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	transferRepo repository.TransferRepository,
	stockRepo repository.BranchProductRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(r.transfers, r.stock)
}

// fakePriceSource precios fijos por sucursal+producto.
type fakePriceSource struct {
	mu     sync.Mutex
	prices map[string]decimal.Decimal // "branchID|productID" -> precio
	err    error
	calls  int
}

var _ apptransfer.PriceSource = (*fakePriceSource)(nil)

func (s *fakePriceSource) UnitPrice(ctx context.Context, branchID, productID string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return decimal.Zero, s.err
	}
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	p, ok := s.prices[branchID+"|"+productID]
	if !ok {
		return decimal.Zero, domain.ErrNotFound
	}
	return p, nil
}

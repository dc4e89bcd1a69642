package transfer_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/salon-stock-api/internal/application/dto"
	apptransfer "github.com/jhoicas/salon-stock-api/internal/application/transfer"
	"github.com/jhoicas/salon-stock-api/internal/domain"
	"github.com/jhoicas/salon-stock-api/internal/domain/entity"
	"github.com/jhoicas/salon-stock-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: dos sucursales, la central tiene 20 unidades de shampoo a $50.
// La sucursal norte pide prestado; la central decide y registra devoluciones.
// ──────────────────────────────────────────────────────────────────────────────

const (
	branchCentral = "branch-central"
	branchNorte   = "branch-norte"
	branchSur     = "branch-sur"

	bpShampoo  = "bp-shampoo-central"
	productSh  = "prod-shampoo"
	bpTinte    = "bp-tinte-central"
	productTin = "prod-tinte"
)

var (
	lenderActor = apptransfer.ActingContext{
		UserID: "user-central", UserName: "Carla Central", BranchID: branchCentral,
	}
	borrowerActor = apptransfer.ActingContext{
		UserID: "user-norte", UserName: "Nora Norte", BranchID: branchNorte,
	}
	outsiderActor = apptransfer.ActingContext{
		UserID: "user-sur", UserName: "Sergio Sur", BranchID: branchSur,
	}
)

type fixture struct {
	transfers *fakeTransferRepo
	stock     *fakeStockRepo
	branches  *fakeBranchRepo
	audit     *fakeAuditRepo
	prices    *fakePriceSource
	uc        *apptransfer.BorrowUseCase
	valuation *apptransfer.ValuationUseCase
}

func newFixture() *fixture {
	transfers := newFakeTransferRepo()
	stock := newFakeStockRepo(
		&entity.BranchProduct{
			ID: bpShampoo, BranchID: branchCentral, ProductID: productSh,
			Quantity: decimal.NewFromInt(20), Price: decimal.NewFromInt(50),
		},
		&entity.BranchProduct{
			ID: bpTinte, BranchID: branchCentral, ProductID: productTin,
			Quantity: decimal.NewFromInt(5), Price: decimal.NewFromInt(120),
		},
	)
	branches := newFakeBranchRepo(
		&entity.Branch{ID: branchCentral, Name: "Salón Central"},
		&entity.Branch{ID: branchNorte, Name: "Salón Norte"},
		&entity.Branch{ID: branchSur, Name: "Salón Sur"},
	)
	audit := &fakeAuditRepo{}
	prices := &fakePriceSource{prices: map[string]decimal.Decimal{
		branchCentral + "|" + productSh:  decimal.NewFromInt(50),
		branchCentral + "|" + productTin: decimal.NewFromInt(120),
	}}
	recorder := apptransfer.NewAuditRecorder(audit, logger.Nop(), false)
	uc := apptransfer.NewBorrowUseCase(&fakeTxRunner{transfers: transfers, stock: stock}, transfers, branches, recorder)
	valuation := apptransfer.NewValuationUseCase(prices, transfers, time.Second)
	return &fixture{
		transfers: transfers, stock: stock, branches: branches,
		audit: audit, prices: prices, uc: uc, valuation: valuation,
	}
}

// createShampooRequest crea una solicitud de 10 unidades de shampoo
// de norte (solicitante) a central (prestamista).
func (f *fixture) createShampooRequest(t *testing.T) *entity.Transfer {
	t.Helper()
	tr, err := f.uc.CreateBorrowRequest(context.Background(), borrowerActor, dto.CreateTransferRequest{
		FromBranchID: branchCentral,
		Reason:       "quiebre de stock por promoción",
		Lines: []dto.CreateTransferLineRequest{
			{BranchProductID: bpShampoo, LendQuantity: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, tr)
	return tr
}

func returns(qty int64) dto.RecordReturnsRequest {
	return dto.RecordReturnsRequest{Lines: []dto.ReturnLineRequest{
		{BranchProductID: bpShampoo, ReturnedQuantity: decimal.NewFromInt(qty)},
	}}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida completo: crear → valuar → aprobar → devolución parcial →
// devolución total → terminal.
// ──────────────────────────────────────────────────────────────────────────────

func TestBorrow_CicloCompleto(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Creación: nace Pending/Pending, versión 1, devoluciones en cero.
	tr := f.createShampooRequest(t)
	assert.Equal(t, entity.TransferStatusPending, tr.Status)
	assert.Equal(t, entity.RequestStatusPending, tr.RequestStatus)
	assert.Equal(t, 1, tr.Version)
	assert.Equal(t, branchCentral, tr.FromBranchID)
	assert.Equal(t, branchNorte, tr.ToBranchID)
	require.Len(t, tr.Lines, 1)
	assert.True(t, tr.Lines[0].ReturnedQuantity.IsZero())

	// Valor en riesgo fresco: 10 × $50 = $500.
	v, err := f.valuation.ValueAtRisk(ctx, tr)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(500).Equal(v), "esperaba 500, obtuve %s", v)

	// Aprobación por la prestamista: la solicitud queda Approved,
	// el estado derivado sigue Pending (nada devuelto aún).
	tr, err = f.uc.Approve(ctx, lenderActor, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusApproved, tr.RequestStatus)
	assert.Equal(t, entity.TransferStatusPending, tr.Status)
	assert.Equal(t, 2, tr.Version)

	// Devolución parcial: 4 de 10 → Partial, pendiente 6 × $50 = $300.
	tr, err = f.uc.RecordReturns(ctx, lenderActor, tr.ID, returns(4))
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusPartial, tr.Status)
	assert.Equal(t, 3, tr.Version)
	v, err = f.valuation.ValueAtRisk(ctx, tr)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(300).Equal(v), "esperaba 300, obtuve %s", v)

	// Devolución total: 10 de 10 → Completed, valor en riesgo cero.
	tr, err = f.uc.RecordReturns(ctx, lenderActor, tr.ID, returns(10))
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCompleted, tr.Status)
	assert.True(t, tr.IsTerminal())
	v, err = f.valuation.ValueAtRisk(ctx, tr)
	require.NoError(t, err)
	assert.True(t, v.IsZero(), "un préstamo completado no tiene valor en riesgo")

	// Terminal: no admite más devoluciones.
	_, err = f.uc.RecordReturns(ctx, lenderActor, tr.ID, returns(10))
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// El historial refleja cada acción en orden.
	trail, err := f.uc.AuditTrail(ctx, lenderActor, tr.ID)
	require.NoError(t, err)
	require.Len(t, trail, 4)
	assert.Equal(t, entity.AuditActionCreate, trail[0].Action)
	assert.Equal(t, entity.AuditActionApprove, trail[1].Action)
	assert.Equal(t, entity.AuditActionReturns, trail[2].Action)
	assert.Equal(t, entity.AuditActionReturns, trail[3].Action)
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateBorrowRequest_Validaciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cases := []struct {
		name    string
		actor   apptransfer.ActingContext
		in      dto.CreateTransferRequest
		wantErr error
	}{
		{
			name:    "sin token no hay actor",
			actor:   apptransfer.ActingContext{},
			in:      dto.CreateTransferRequest{FromBranchID: branchCentral, Reason: "x"},
			wantErr: domain.ErrUnauthorized,
		},
		{
			name:  "prestamista igual a solicitante",
			actor: borrowerActor,
			in: dto.CreateTransferRequest{
				FromBranchID: branchNorte, Reason: "x",
				Lines: []dto.CreateTransferLineRequest{{BranchProductID: bpShampoo, LendQuantity: decimal.NewFromInt(1)}},
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "sin líneas",
			actor:   borrowerActor,
			in:      dto.CreateTransferRequest{FromBranchID: branchCentral, Reason: "x"},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:  "sin razón",
			actor: borrowerActor,
			in: dto.CreateTransferRequest{
				FromBranchID: branchCentral,
				Lines:        []dto.CreateTransferLineRequest{{BranchProductID: bpShampoo, LendQuantity: decimal.NewFromInt(1)}},
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:  "cantidad no positiva",
			actor: borrowerActor,
			in: dto.CreateTransferRequest{
				FromBranchID: branchCentral, Reason: "x",
				Lines: []dto.CreateTransferLineRequest{{BranchProductID: bpShampoo, LendQuantity: decimal.Zero}},
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:  "prestamista inexistente",
			actor: borrowerActor,
			in: dto.CreateTransferRequest{
				FromBranchID: "branch-fantasma", Reason: "x",
				Lines: []dto.CreateTransferLineRequest{{BranchProductID: bpShampoo, LendQuantity: decimal.NewFromInt(1)}},
			},
			wantErr: domain.ErrNotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.CreateBorrowRequest(ctx, tc.actor, tc.in)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreateBorrowRequest_StockInsuficiente(t *testing.T) {
	f := newFixture()

	// Central tiene 20; pedir 25 se rechaza y no queda documento a medias.
	_, err := f.uc.CreateBorrowRequest(context.Background(), borrowerActor, dto.CreateTransferRequest{
		FromBranchID: branchCentral,
		Reason:       "pedido grande",
		Lines: []dto.CreateTransferLineRequest{
			{BranchProductID: bpShampoo, LendQuantity: decimal.NewFromInt(25)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	list, err := f.transfers.ListByBranch(branchCentral, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list, "una solicitud rechazada no debe persistirse")
}

func TestCreateBorrowRequest_StockDeOtraSucursal(t *testing.T) {
	f := newFixture()

	// bp-shampoo-central pertenece a la central; pedirlo a otra prestamista falla.
	_, err := f.uc.CreateBorrowRequest(context.Background(), outsiderActor, dto.CreateTransferRequest{
		FromBranchID: branchNorte,
		Reason:       "producto de otra sucursal",
		Lines: []dto.CreateTransferLineRequest{
			{BranchProductID: bpShampoo, LendQuantity: decimal.NewFromInt(1)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Decisión (aprobar / denegar)
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_SoloLaPrestamista(t *testing.T) {
	f := newFixture()
	tr := f.createShampooRequest(t)

	// Ni la solicitante ni una tercera sucursal pueden decidir.
	_, err := f.uc.Approve(context.Background(), borrowerActor, tr.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.Deny(context.Background(), outsiderActor, tr.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestApprove_SolicitudYaDecidida(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tr := f.createShampooRequest(t)

	_, err := f.uc.Approve(ctx, lenderActor, tr.ID)
	require.NoError(t, err)

	_, err = f.uc.Approve(ctx, lenderActor, tr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.uc.Deny(ctx, lenderActor, tr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestDeny_DejaElPrestamoTerminal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tr := f.createShampooRequest(t)

	tr, err := f.uc.Deny(ctx, lenderActor, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusDenied, tr.RequestStatus)
	assert.Equal(t, entity.TransferStatusDenied, tr.Status)
	assert.True(t, tr.IsTerminal())

	// Denegado es terminal: ni devoluciones ni re-decisión.
	_, err = f.uc.RecordReturns(ctx, lenderActor, tr.ID, returns(1))
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.uc.Approve(ctx, lenderActor, tr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// Un préstamo denegado no entra en el portafolio de la prestamista.
	open, err := f.transfers.ListOpenByLender(branchCentral)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestDecide_PrestamoInexistente(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Approve(context.Background(), lenderActor, "transfer-fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Devoluciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordReturns_SoloConSolicitudAprobada(t *testing.T) {
	f := newFixture()
	tr := f.createShampooRequest(t)

	// Pending: todavía no hay nada prestado que devolver.
	_, err := f.uc.RecordReturns(context.Background(), lenderActor, tr.ID, returns(1))
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestRecordReturns_SoloLaPrestamista(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tr := f.createShampooRequest(t)
	_, err := f.uc.Approve(ctx, lenderActor, tr.ID)
	require.NoError(t, err)

	_, err = f.uc.RecordReturns(ctx, borrowerActor, tr.ID, returns(1))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// Las cantidades fuera de rango se rechazan completas; nunca se recortan al
// límite válido en silencio.
func TestRecordReturns_RechazaFueraDeRango(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tr := f.createShampooRequest(t)
	_, err := f.uc.Approve(ctx, lenderActor, tr.ID)
	require.NoError(t, err)
	tr, err = f.uc.RecordReturns(ctx, lenderActor, tr.ID, returns(4))
	require.NoError(t, err)

	// Mayor a lo prestado.
	_, err = f.uc.RecordReturns(ctx, lenderActor, tr.ID, returns(11))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Menor a lo ya devuelto (la cantidad devuelta es monótona).
	_, err = f.uc.RecordReturns(ctx, lenderActor, tr.ID, returns(3))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// El documento quedó intacto tras los rechazos.
	stored, err := f.transfers.GetByID(tr.ID)
	require.NoError(t, err)
	assert.Equal(t, tr.Version, stored.Version)
	assert.True(t, decimal.NewFromInt(4).Equal(stored.Lines[0].ReturnedQuantity))
}

func TestRecordReturns_LineaDesconocida(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tr := f.createShampooRequest(t)
	_, err := f.uc.Approve(ctx, lenderActor, tr.ID)
	require.NoError(t, err)

	_, err = f.uc.RecordReturns(ctx, lenderActor, tr.ID, dto.RecordReturnsRequest{
		Lines: []dto.ReturnLineRequest{
			{BranchProductID: "bp-fantasma", ReturnedQuantity: decimal.NewFromInt(1)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Reenviar las mismas cantidades no reescribe el documento (la versión no
// cambia) pero cada llamada deja su propia entrada de auditoría.
func TestRecordReturns_MismasCantidadesNoReescribe(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tr := f.createShampooRequest(t)
	_, err := f.uc.Approve(ctx, lenderActor, tr.ID)
	require.NoError(t, err)
	tr, err = f.uc.RecordReturns(ctx, lenderActor, tr.ID, returns(4))
	require.NoError(t, err)

	before, err := f.uc.AuditTrail(ctx, lenderActor, tr.ID)
	require.NoError(t, err)

	again, err := f.uc.RecordReturns(ctx, lenderActor, tr.ID, returns(4))
	require.NoError(t, err)
	assert.Equal(t, tr.Version, again.Version, "sin cambios no debe subir la versión")
	assert.Equal(t, entity.TransferStatusPartial, again.Status)

	after, err := f.uc.AuditTrail(ctx, lenderActor, tr.ID)
	require.NoError(t, err)
	assert.Len(t, after, len(before)+1, "cada llamada audita exactamente una vez")
}

// ──────────────────────────────────────────────────────────────────────────────
// Visibilidad
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByID_SoloParticipantes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tr := f.createShampooRequest(t)

	got, err := f.uc.GetByID(ctx, lenderActor, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, tr.ID, got.ID)

	got, err = f.uc.GetByID(ctx, borrowerActor, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, tr.ID, got.ID)

	_, err = f.uc.GetByID(ctx, outsiderActor, tr.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.AuditTrail(ctx, outsiderActor, tr.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListByBranch_SoloDondeParticipa(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tr := f.createShampooRequest(t)

	for _, actor := range []apptransfer.ActingContext{lenderActor, borrowerActor} {
		list, err := f.uc.ListByBranch(ctx, actor, dto.PageRequest{})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, tr.ID, list[0].ID)
	}

	list, err := f.uc.ListByBranch(ctx, outsiderActor, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

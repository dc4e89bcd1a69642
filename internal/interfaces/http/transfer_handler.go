package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/salon-stock-api/internal/application/dto"
	apptransfer "github.com/jhoicas/salon-stock-api/internal/application/transfer"
	"github.com/jhoicas/salon-stock-api/internal/domain/entity"
	"github.com/jhoicas/salon-stock-api/internal/domain/repository"
	infrapdf "github.com/jhoicas/salon-stock-api/internal/infrastructure/pdf"
)

// TransferHandler maneja las peticiones HTTP del workflow de préstamos (protegido).
type TransferHandler struct {
	uc          *apptransfer.BorrowUseCase
	valuation   *apptransfer.ValuationUseCase
	prices      apptransfer.PriceSource
	slips       *infrapdf.TransferSlipGenerator
	branchRepo  repository.BranchRepository
	productRepo repository.ProductRepository
}

// NewTransferHandler construye el handler.
func NewTransferHandler(
	uc *apptransfer.BorrowUseCase,
	valuation *apptransfer.ValuationUseCase,
	prices apptransfer.PriceSource,
	slips *infrapdf.TransferSlipGenerator,
	branchRepo repository.BranchRepository,
	productRepo repository.ProductRepository,
) *TransferHandler {
	return &TransferHandler{
		uc:          uc,
		valuation:   valuation,
		prices:      prices,
		slips:       slips,
		branchRepo:  branchRepo,
		productRepo: productRepo,
	}
}

// Create godoc
// @Summary      Crear solicitud de préstamo entre sucursales
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "from_branch_id, reason, lines"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	actor := GetActingContext(c)
	if actor.BranchID == "" || actor.UserID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	t, err := h.uc.CreateBorrowRequest(c.Context(), actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransferResponse(t))
}

// List godoc
// @Summary      Listar préstamos de la sucursal del actor
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TransferResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	actor := GetActingContext(c)
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	transfers, err := h.uc.ListByBranch(c.Context(), actor, page)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.TransferResponse, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, toTransferResponse(t))
	}
	return c.JSON(fiber.Map{"total": len(out), "transfers": out})
}

// GetByID devuelve un préstamo visible para la sucursal del actor.
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	t, err := h.uc.GetByID(c.Context(), GetActingContext(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTransferResponse(t))
}

// Approve godoc
// @Summary      Aprobar solicitud de préstamo (solo sucursal prestamista)
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TransferResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/approve [post]
func (h *TransferHandler) Approve(c *fiber.Ctx) error {
	t, err := h.uc.Approve(c.Context(), GetActingContext(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTransferResponse(t))
}

// Deny deniega la solicitud; deja el préstamo en estado terminal.
func (h *TransferHandler) Deny(c *fiber.Ctx) error {
	t, err := h.uc.Deny(c.Context(), GetActingContext(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTransferResponse(t))
}

// RecordReturns godoc
// @Summary      Registrar devoluciones acumuladas por línea
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordReturnsRequest  true  "cantidades devueltas acumuladas"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/returns [post]
func (h *TransferHandler) RecordReturns(c *fiber.Ctx) error {
	var in dto.RecordReturnsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	t, err := h.uc.RecordReturns(c.Context(), GetActingContext(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTransferResponse(t))
}

// ValueAtRisk devuelve el valor pendiente de devolución del préstamo.
func (h *TransferHandler) ValueAtRisk(c *fiber.Ctx) error {
	t, err := h.uc.GetByID(c.Context(), GetActingContext(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	v, err := h.valuation.ValueAtRisk(c.Context(), t)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ValueAtRiskResponse{TransferID: t.ID, ValueAtRisk: v})
}

// AuditTrail devuelve el historial de auditoría del préstamo.
func (h *TransferHandler) AuditTrail(c *fiber.Ctx) error {
	entries, err := h.uc.AuditTrail(c.Context(), GetActingContext(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.AuditEntryResponse{
			ID:         e.ID,
			TransferID: e.TransferID,
			UserID:     e.UserID,
			UserName:   e.UserName,
			Action:     e.Action,
			Details:    string(e.Details),
			CreatedAt:  e.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "entries": out})
}

// Slip genera el remito PDF del préstamo.
func (h *TransferHandler) Slip(c *fiber.Ctx) error {
	actor := GetActingContext(c)
	t, err := h.uc.GetByID(c.Context(), actor, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	from, err := h.branchRepo.GetByID(t.FromBranchID)
	if err != nil {
		return respondError(c, err)
	}
	to, err := h.branchRepo.GetByID(t.ToBranchID)
	if err != nil {
		return respondError(c, err)
	}
	if from == nil || to == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sucursal no encontrada"})
	}

	lines := make([]infrapdf.SlipLine, 0, len(t.Lines))
	for _, l := range t.Lines {
		p, err := h.productRepo.GetByID(l.ProductID)
		if err != nil {
			return respondError(c, err)
		}
		sku, name := l.ProductID, l.ProductID
		if p != nil {
			sku, name = p.SKU, p.Name
		}
		price, err := h.prices.UnitPrice(c.Context(), t.FromBranchID, l.ProductID)
		if err != nil {
			return respondError(c, err)
		}
		remaining := l.Remaining()
		lines = append(lines, infrapdf.SlipLine{
			SKU:         sku,
			ProductName: name,
			Lend:        l.LendQuantity,
			Returned:    l.ReturnedQuantity,
			Remaining:   remaining,
			UnitPrice:   price,
			Amount:      price.Mul(remaining),
		})
	}
	total, err := h.valuation.ValueAtRisk(c.Context(), t)
	if err != nil {
		return respondError(c, err)
	}

	pdfBytes, err := h.slips.GenerateTransferSlip(c.Context(), infrapdf.SlipData{
		Transfer:    t,
		From:        from,
		To:          to,
		Lines:       lines,
		ValueAtRisk: total,
	})
	if err != nil {
		return respondError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="remito-`+t.ID+`.pdf"`)
	return c.Send(pdfBytes)
}

func toTransferResponse(t *entity.Transfer) dto.TransferResponse {
	lines := make([]dto.TransferLineResponse, 0, len(t.Lines))
	for _, l := range t.Lines {
		lines = append(lines, dto.TransferLineResponse{
			BranchProductID:  l.BranchProductID,
			ProductID:        l.ProductID,
			LendQuantity:     l.LendQuantity,
			ReturnedQuantity: l.ReturnedQuantity,
			Remaining:        l.Remaining(),
		})
	}
	return dto.TransferResponse{
		ID:            t.ID,
		FromBranchID:  t.FromBranchID,
		ToBranchID:    t.ToBranchID,
		Type:          t.Type,
		Status:        t.Status,
		RequestStatus: t.RequestStatus,
		Reason:        t.Reason,
		Lines:         lines,
		Version:       t.Version,
		CreatedAt:     t.CreatedAt,
		CreatedBy:     t.CreatedBy,
		UpdatedAt:     t.UpdatedAt,
	}
}

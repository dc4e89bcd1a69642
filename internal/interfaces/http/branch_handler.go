package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/salon-stock-api/internal/application/dto"
	"github.com/jhoicas/salon-stock-api/internal/application/usecase"
	"github.com/jhoicas/salon-stock-api/internal/domain/entity"
)

// BranchHandler maneja las peticiones HTTP de sucursales (protegido).
type BranchHandler struct {
	uc *usecase.BranchUseCase
}

// NewBranchHandler construye el handler.
func NewBranchHandler(uc *usecase.BranchUseCase) *BranchHandler {
	return &BranchHandler{uc: uc}
}

// Create registra una sucursal nueva.
func (h *BranchHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBranchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	b, err := h.uc.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toBranchResponse(b))
}

// List devuelve todas las sucursales.
func (h *BranchHandler) List(c *fiber.Ctx) error {
	branches, err := h.uc.List()
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.BranchResponse, 0, len(branches))
	for _, b := range branches {
		out = append(out, toBranchResponse(b))
	}
	return c.JSON(fiber.Map{"total": len(out), "branches": out})
}

// GetByID devuelve una sucursal.
func (h *BranchHandler) GetByID(c *fiber.Ctx) error {
	b, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBranchResponse(b))
}

// Stock devuelve el stock y precios de una sucursal.
func (h *BranchHandler) Stock(c *fiber.Ctx) error {
	items, err := h.uc.Stock(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.BranchStockResponse, 0, len(items))
	for _, bp := range items {
		out = append(out, dto.BranchStockResponse{
			BranchProductID: bp.ID,
			ProductID:       bp.ProductID,
			Quantity:        bp.Quantity,
			Price:           bp.Price,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "stock": out})
}

func toBranchResponse(b *entity.Branch) dto.BranchResponse {
	return dto.BranchResponse{
		ID:        b.ID,
		Name:      b.Name,
		Address:   b.Address,
		Phone:     b.Phone,
		CreatedAt: b.CreatedAt,
	}
}

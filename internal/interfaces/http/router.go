package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/salon-stock-api/internal/application/auth"
	apptransfer "github.com/jhoicas/salon-stock-api/internal/application/transfer"
	"github.com/jhoicas/salon-stock-api/internal/application/usecase"
	"github.com/jhoicas/salon-stock-api/internal/domain/entity"
	"github.com/jhoicas/salon-stock-api/internal/domain/repository"
	infrapdf "github.com/jhoicas/salon-stock-api/internal/infrastructure/pdf"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	BranchUC    *usecase.BranchUseCase
	ProductUC   *usecase.ProductUseCase
	SupplierUC  *usecase.SupplierUseCase
	DashboardUC *usecase.DashboardUseCase
	BorrowUC    *apptransfer.BorrowUseCase
	ValuationUC *apptransfer.ValuationUseCase
	Prices      apptransfer.PriceSource
	Slips       *infrapdf.TransferSlipGenerator
	BranchRepo  repository.BranchRepository
	ProductRepo repository.ProductRepository
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Branches (protegido)
	branches := protected.Group("/branches")
	branchHandler := NewBranchHandler(deps.BranchUC)
	branches.Get("/", branchHandler.List)
	branches.Post("/", RequireRole(entity.RoleAdmin), branchHandler.Create)
	branches.Get("/:id", branchHandler.GetByID)
	branches.Get("/:id/stock", branchHandler.Stock)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", RequireRole(entity.RoleAdmin, entity.RoleGerente), productHandler.Create)
	products.Get("/:id", productHandler.GetByID)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Post("/", RequireRole(entity.RoleAdmin, entity.RoleGerente), supplierHandler.Create)
	suppliers.Get("/:id", supplierHandler.GetByID)

	// Transfers: workflow de préstamos entre sucursales (protegido).
	// Las rutas que mutan el préstamo exigen además rol admin o gerente.
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.BorrowUC, deps.ValuationUC, deps.Prices, deps.Slips, deps.BranchRepo, deps.ProductRepo)
	decide := RequireRole(entity.RoleAdmin, entity.RoleGerente)
	transfers.Post("/", decide, transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/approve", decide, transferHandler.Approve)
	transfers.Post("/:id/deny", decide, transferHandler.Deny)
	transfers.Post("/:id/returns", decide, transferHandler.RecordReturns)
	transfers.Get("/:id/value-at-risk", transferHandler.ValueAtRisk)
	transfers.Get("/:id/slip", transferHandler.Slip)
	transfers.Get("/:id/audit", transferHandler.AuditTrail)

	// Dashboard (protegido)
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.Summary)
}

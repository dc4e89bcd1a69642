package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/salon-stock-api/internal/application/auth"
	apptransfer "github.com/jhoicas/salon-stock-api/internal/application/transfer"
	"github.com/jhoicas/salon-stock-api/internal/application/usecase"
	"github.com/jhoicas/salon-stock-api/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/salon-stock-api/internal/infrastructure/pdf"
	"github.com/jhoicas/salon-stock-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/salon-stock-api/internal/interfaces/http"
	"github.com/jhoicas/salon-stock-api/pkg/config"
	"github.com/jhoicas/salon-stock-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	branchRepo := postgres.NewBranchRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	stockRepo := postgres.NewBranchProductRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	auditRecorder := apptransfer.NewAuditRecorder(auditRepo, log, cfg.Transfer.AuditStrict)
	borrowUC := apptransfer.NewBorrowUseCase(txRunner, transferRepo, branchRepo, auditRecorder)

	// Precios con caché read-through sobre branch_products; la valoración
	// consulta con timeout acotado por producto.
	prices := cache.NewPriceCache(stockRepo, time.Duration(cfg.Transfer.PriceCacheTTL)*time.Second)
	valuationUC := apptransfer.NewValuationUseCase(prices, transferRepo, time.Duration(cfg.Transfer.PriceTimeoutMS)*time.Millisecond)

	branchUC := usecase.NewBranchUseCase(branchRepo, stockRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	dashboardUC := usecase.NewDashboardUseCase(transferRepo, valuationUC, auditRecorder)

	authUC := auth.NewAuthUseCase(userRepo, branchRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// PDF: remito imprimible del préstamo
	slipGenerator := infrapdf.NewTransferSlipGenerator()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Salon Stock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		BranchUC:    branchUC,
		ProductUC:   productUC,
		SupplierUC:  supplierUC,
		DashboardUC: dashboardUC,
		BorrowUC:    borrowUC,
		ValuationUC: valuationUC,
		Prices:      prices,
		Slips:       slipGenerator,
		BranchRepo:  branchRepo,
		ProductRepo: productRepo,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("apagando servidor")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	log.Info().Msg("servidor detenido")
}

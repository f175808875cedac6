package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dquispe/tienda-pos/internal/application/auth"
	"github.com/dquispe/tienda-pos/internal/application/billing"
	"github.com/dquispe/tienda-pos/internal/application/cashbox"
	"github.com/dquispe/tienda-pos/internal/application/credit"
	"github.com/dquispe/tienda-pos/internal/application/inventory"
	"github.com/dquispe/tienda-pos/internal/application/usecase"
	"github.com/dquispe/tienda-pos/internal/infrastructure/postgres"
	httpRouter "github.com/dquispe/tienda-pos/internal/interfaces/http"
	"github.com/dquispe/tienda-pos/pkg/config"
	"github.com/dquispe/tienda-pos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
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

	storeRepo := postgres.NewStoreRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	comprobanteRepo := postgres.NewComprobanteRepository(pool)
	sessionRepo := postgres.NewCashSessionRepository(pool)
	cashMovRepo := postgres.NewCashMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	inventoryUC := inventory.NewUseCase(txRunner, productRepo, supplierRepo, movRepo, log)
	creditUC := credit.NewUseCase(txRunner, customerRepo, log)
	issueUC := billing.NewIssueUseCase(txRunner, inventoryUC, creditUC, productRepo, customerRepo, comprobanteRepo)
	voidUC := billing.NewVoidUseCase(txRunner, inventoryUC, creditUC)
	customerUC := billing.NewCustomerUseCase(customerRepo)
	cashboxUC := cashbox.NewUseCase(txRunner, sessionRepo, cashMovRepo, log)
	storeUC := usecase.NewStoreUseCase(storeRepo)
	productUC := usecase.NewProductUseCase(productRepo, inventoryUC)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	authUC := auth.NewUseCase(userRepo, storeRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		StoreUC:     storeUC,
		ProductUC:   productUC,
		SupplierUC:  supplierUC,
		InventoryUC: inventoryUC,
		IssueUC:     issueUC,
		VoidUC:      voidUC,
		CustomerUC:  customerUC,
		CashboxUC:   cashboxUC,
		CreditUC:    creditUC,
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

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

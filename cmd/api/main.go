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

	"github.com/jhoicas/storeflow-api/internal/application/auth"
	"github.com/jhoicas/storeflow-api/internal/application/catalog"
	"github.com/jhoicas/storeflow-api/internal/application/sales"
	"github.com/jhoicas/storeflow-api/internal/application/stock"
	"github.com/jhoicas/storeflow-api/internal/application/storeorder"
	"github.com/jhoicas/storeflow-api/internal/application/tasks"
	"github.com/jhoicas/storeflow-api/internal/application/transfer"
	infrapdf "github.com/jhoicas/storeflow-api/internal/infrastructure/pdf"
	"github.com/jhoicas/storeflow-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/storeflow-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/storeflow-api/internal/interfaces/http"
	"github.com/jhoicas/storeflow-api/pkg/config"
	"github.com/jhoicas/storeflow-api/pkg/logger"
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

	redisClient, err := infraredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer redisClient.Close()

	// Repositorios sobre el pool (lecturas fuera de transacción). Las
	// escrituras transaccionales crean sus repos dentro del TxRunner.
	userRepo := postgres.NewUserRepository(pool)
	brandRepo := postgres.NewBrandRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	orderRepo := postgres.NewStoreOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	taskStore := infraredis.NewTaskStore(redisClient)
	taskRunner := tasks.NewRunner(taskStore, log.Component("tasks"))

	authUC := auth.NewAuthUseCase(userRepo, brandRepo, storeRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	catalogUC := catalog.NewUseCase(brandRepo, storeRepo, productRepo)
	stockUC := stock.NewUseCase(txRunner, stockRepo, ledgerRepo, productRepo, storeRepo)
	bulkImporter := stock.NewBulkImporter(txRunner, productRepo, storeRepo, stock.ImportOptions{
		ChunkSize:    cfg.Tasks.ChunkSize,
		LockRetries:  cfg.Tasks.LockRetries,
		RetryBackoff: time.Duration(cfg.Tasks.RetryBackoffMS) * time.Millisecond,
	}, log.Component("bulk_import"))

	pdfGenerator := infrapdf.NewMarotoReceiptGenerator()
	salesUC := sales.NewUseCase(txRunner, saleRepo, productRepo, storeRepo, brandRepo, pdfGenerator)
	transferUC := transfer.NewUseCase(txRunner, transferRepo, productRepo, storeRepo)
	storeOrderUC := storeorder.NewUseCase(txRunner, orderRepo, productRepo, storeRepo)

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
		Title:    "Storeflow API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		CatalogUC:    catalogUC,
		StockUC:      stockUC,
		BulkImporter: bulkImporter,
		SalesUC:      salesUC,
		TransferUC:   transferUC,
		StoreOrderUC: storeOrderUC,
		TaskRunner:   taskRunner,
		JWTSecret:    cfg.JWT.Secret,
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

	// Deja terminar las cargas masivas en vuelo antes de soltar el pool.
	taskRunner.Wait()

	log.Info().Msg("aplicación detenida")
}

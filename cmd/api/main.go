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

	"github.com/jhoicas/Cartera-api/internal/application/auth"
	appledger "github.com/jhoicas/Cartera-api/internal/application/ledger"
	appshift "github.com/jhoicas/Cartera-api/internal/application/shift"
	apptreasury "github.com/jhoicas/Cartera-api/internal/application/treasury"
	infrapdf "github.com/jhoicas/Cartera-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Cartera-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Cartera-api/internal/interfaces/http"
	"github.com/jhoicas/Cartera-api/pkg/config"
	"github.com/jhoicas/Cartera-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Service: "cartera-api",
		Env:     cfg.App.Env,
		Level:   "info",
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

	// Repos sobre el pool (lecturas fuera de transacción); las escrituras usan
	// los repos atados a tx que construye el TxRunner.
	userRepo := postgres.NewUserRepository(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	eventRepo := postgres.NewLedgerEventRepository(pool)
	shiftRepo := postgres.NewShiftRepository(pool)
	treasuryRepo := postgres.NewTreasuryRepository(pool)
	priceCatalog := postgres.NewPriceCatalog(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Ledger.TxMaxAttempts)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	accountUC := appledger.NewAccountUseCase(txRunner, accountRepo)
	invoiceUC := appledger.NewInvoiceUseCase(txRunner, accountRepo, priceCatalog)
	paymentUC := appledger.NewPaymentUseCase(txRunner, shiftRepo, treasuryRepo)
	eventUC := appledger.NewEventUseCase(txRunner, eventRepo)
	statementUC := appledger.NewStatementUseCase(accountRepo, eventRepo, pdfGenerator)
	shiftUC := appshift.NewUseCase(txRunner, shiftRepo)
	treasuryUC := apptreasury.NewUseCase(treasuryRepo, shiftRepo)

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
		Title:    "Cartera API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		AccountUC:   accountUC,
		InvoiceUC:   invoiceUC,
		PaymentUC:   paymentUC,
		EventUC:     eventUC,
		StatementUC: statementUC,
		ShiftUC:     shiftUC,
		TreasuryUC:  treasuryUC,
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

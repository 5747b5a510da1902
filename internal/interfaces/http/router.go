package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cartera-api/internal/application/auth"
	appledger "github.com/jhoicas/Cartera-api/internal/application/ledger"
	appshift "github.com/jhoicas/Cartera-api/internal/application/shift"
	apptreasury "github.com/jhoicas/Cartera-api/internal/application/treasury"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	AccountUC   *appledger.AccountUseCase
	InvoiceUC   *appledger.InvoiceUseCase
	PaymentUC   *appledger.PaymentUseCase
	EventUC     *appledger.EventUseCase
	StatementUC *appledger.StatementUseCase
	ShiftUC     *appshift.UseCase
	TreasuryUC  *apptreasury.UseCase
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

	// Accounts y extractos (protegido)
	accounts := protected.Group("/accounts")
	accountHandler := NewAccountHandler(deps.AccountUC)
	ledgerHandler := NewLedgerHandler(deps.InvoiceUC, deps.PaymentUC, deps.EventUC, deps.StatementUC)
	accounts.Post("/", accountHandler.Create)
	accounts.Get("/", accountHandler.List)
	accounts.Get("/:id", accountHandler.GetByID)
	accounts.Get("/:id/statement", ledgerHandler.GetStatement)
	accounts.Get("/:id/statement/pdf", ledgerHandler.GetStatementPDF)

	// Invoices y payments (protegido)
	protected.Post("/invoices", ledgerHandler.CreateInvoice)
	protected.Post("/payments", ledgerHandler.ApplyPayment)

	// Eventos: edición y borrado, solo admin (protegido)
	events := protected.Group("/events", RequireRole(entity.RoleAdmin))
	events.Patch("/:id", ledgerHandler.EditEvent)
	events.Delete("/:id", ledgerHandler.DeleteEvent)

	// Shifts (protegido)
	shifts := protected.Group("/shifts")
	shiftHandler := NewShiftHandler(deps.ShiftUC)
	shifts.Post("/", shiftHandler.Start)
	shifts.Get("/open", shiftHandler.GetOpen)
	shifts.Post("/:id/expenses", shiftHandler.RecordExpense)
	shifts.Post("/:id/close", shiftHandler.Close)

	// Treasury (protegido)
	treasury := protected.Group("/treasury")
	treasuryHandler := NewTreasuryHandler(deps.TreasuryUC)
	treasury.Post("/transactions", RequireRole(entity.RoleAdmin, entity.RoleCajero), treasuryHandler.Record)
	treasury.Get("/balance", treasuryHandler.Balance)
	treasury.Get("/shifts/:id/transactions", treasuryHandler.ListByShift)
}

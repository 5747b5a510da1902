package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
)

// LedgerEventRepository define el puerto de persistencia para eventos de
// cartera, sus abonos y sus líneas de detalle.
type LedgerEventRepository interface {
	Create(ctx context.Context, ev *entity.LedgerEvent) error
	CreateLine(ctx context.Context, line *entity.EventLine) error
	CreatePartialPayment(ctx context.Context, pp *entity.PartialPayment) error

	// GetByID carga el evento con abonos y líneas. Devuelve nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.LedgerEvent, error)
	// GetByIDForUpdate bloquea la fila del evento dentro de la transacción
	// actual; evita que dos abonos concurrentes pisen total_paid.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.LedgerEvent, error)
	// ListByAccount trae TODOS los eventos de la cuenta con sus abonos,
	// frescos desde el almacén (el recalculador nunca confía en cachés).
	ListByAccount(ctx context.Context, accountID string) ([]*entity.LedgerEvent, error)

	// Update escribe monto, fecha, nota y campos auxiliares del evento.
	Update(ctx context.Context, ev *entity.LedgerEvent) error
	// UpdateTotalPaid escribe la caché total_paid de una factura y limpia el
	// abono único heredado (las filas de abono pasan a ser la única fuente).
	UpdateTotalPaid(ctx context.Context, id string, totalPaid decimal.Decimal) error
	// ReplaceLines sustituye el detalle completo de una factura.
	ReplaceLines(ctx context.Context, eventID string, lines []*entity.EventLine) error

	// Delete elimina el evento con sus abonos y líneas en cascada; las dos
	// representaciones de un evento fusionado caen juntas o ninguna.
	Delete(ctx context.Context, id string) error
}

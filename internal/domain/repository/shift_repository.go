package repository

import (
	"context"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
)

// ShiftRepository define el puerto de persistencia para turnos de caja.
type ShiftRepository interface {
	// Create inserta el turno. El almacén respalda el invariante "a lo sumo un
	// turno OPEN" (índice único parcial) y devuelve domain.ErrShiftAlreadyOpen
	// al violarlo.
	Create(ctx context.Context, shift *entity.Shift) error
	GetByID(ctx context.Context, id string) (*entity.Shift, error)
	// GetByIDForUpdate bloquea la fila del turno dentro de la transacción actual.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Shift, error)
	// GetOpen devuelve el turno OPEN actual, o nil si no hay ninguno.
	GetOpen(ctx context.Context) (*entity.Shift, error)
	// Update escribe estado y campos de cierre.
	Update(ctx context.Context, shift *entity.Shift) error
}

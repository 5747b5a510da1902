package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidAmount      = errors.New("monto inválido: debe ser mayor que cero")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// ErrPaymentExceedsInvoice: el abono supera el saldo pendiente de la factura.
	// Política fija: se rechaza, nunca se recorta en silencio. Un saldo a favor
	// se representa con un pago no vinculado.
	ErrPaymentExceedsInvoice = errors.New("el abono supera el saldo pendiente de la factura")

	// Errores del ciclo de turnos de caja.
	ErrShiftAlreadyOpen   = errors.New("ya existe un turno de caja abierto")
	ErrShiftNotFound      = errors.New("turno de caja no encontrado")
	ErrShiftAlreadyClosed = errors.New("el turno de caja ya está cerrado")

	// ErrConcurrentModification: la transacción se abortó por contención tras
	// agotar los reintentos.
	ErrConcurrentModification = errors.New("modificación concurrente: reintentos agotados")

	// ErrTreasurySideEffect: el movimiento de cartera quedó confirmado pero el
	// registro en tesorería falló. Error blando: el caller recibe el recibo y
	// debe conciliar tesorería por separado, no asumir que todo falló.
	ErrTreasurySideEffect = errors.New("movimiento de tesorería no registrado")
)

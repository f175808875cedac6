package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrProductNotFound    = errors.New("producto no encontrado en la tienda")
	ErrCustomerNotFound   = errors.New("cliente no encontrado en la tienda")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// ErrInvariantViolation indica que el Kardex y el stock del producto no
	// concilian. Es señal de un defecto de programación: se loguea con contexto
	// completo y la operación se aborta, nunca se repara en silencio.
	ErrInvariantViolation = errors.New("violación de invariante: kardex y stock no concilian")

	ErrNoOpenSession        = errors.New("no hay caja abierta para la tienda")
	ErrSessionAlreadyOpen   = errors.New("ya existe una caja abierta para la tienda")
	ErrSessionClosed        = errors.New("la caja ya está cerrada")
	ErrAmountExceedsBalance = errors.New("el monto excede la deuda del cliente")
	ErrAlreadyVoid          = errors.New("el comprobante ya está anulado")
)

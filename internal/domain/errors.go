package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// InsufficientStockError detalla qué producto no alcanza para el descuento solicitado.
// errors.Is(err, ErrInsufficientStock) es true para cualquier *InsufficientStockError.
type InsufficientStockError struct {
	ProductID string
	Available int
	Requested int
}

// NewInsufficientStock construye el error con los datos para diagnóstico del cliente.
func NewInsufficientStock(productID string, available, requested int) *InsufficientStockError {
	return &InsufficientStockError{ProductID: productID, Available: available, Requested: requested}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: producto %s (disponible %d, solicitado %d)",
		ErrInsufficientStock.Error(), e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrTenantNotFound    = errors.New("no existe una asociación con ese email")
	ErrProductNotFound   = errors.New("producto no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidQuantity   = errors.New("la cantidad debe ser mayor a 0")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// InsufficientStockError detalla un faltante de stock en un retiro.
// Lleva los datos que la UI muestra tal cual: producto, solicitado, disponible y unidad.
type InsufficientStockError struct {
	ProductName string
	Requested   int64
	Available   int64
	Unit        string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf(
		"stock insuficiente para %q: solicitado %d%s, disponible %d%s",
		e.ProductName, e.Requested, e.Unit, e.Available, e.Unit,
	)
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

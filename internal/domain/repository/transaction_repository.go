package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// TransactionRepository puerto de persistencia del libro de movimientos.
// Solo inserta y lee: las entradas del libro son inmutables.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.StockTransaction) error
	// ListByTenant devuelve las entradas más recientes primero, enriquecidas
	// con producto y categoría. limit <= 0 significa sin tope.
	ListByTenant(ctx context.Context, tenantID string, limit int) ([]*entity.TransactionView, error)
	CountByTenant(ctx context.Context, tenantID string) (int64, error)
}

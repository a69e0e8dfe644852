package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ProductFilter filtros opcionales para listar productos.
// Reemplazo tipado del constructor dinámico de filtros de la UI.
type ProductFilter struct {
	NameContains string   // substring case-insensitive sobre el nombre
	ExcludeIDs   []string // productos ya seleccionados que no deben volver
}

// ProductRepository puerto de persistencia para productos.
// Quantity solo se muta por IncrementQuantity/DecrementQuantityIfAvailable,
// siempre dentro de la transacción del libro de movimientos.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByTenantAndID devuelve (nil, nil) si no existe bajo el tenant.
	GetByTenantAndID(ctx context.Context, tenantID, id string) (*entity.Product, error)
	ListByTenant(ctx context.Context, tenantID string, filter ProductFilter) ([]*entity.Product, error)
	// ListAlertEnabled lista los productos del tenant con alertas activadas.
	ListAlertEnabled(ctx context.Context, tenantID string) ([]*entity.Product, error)

	// IncrementQuantity suma qty al stock. Devuelve false si el producto no
	// existe bajo el tenant (0 filas afectadas).
	IncrementQuantity(ctx context.Context, tenantID, productID string, qty int64) (bool, error)
	// DecrementQuantityIfAvailable resta qty solo si quantity >= qty
	// (decremento condicional: la verificación va en el mismo UPDATE).
	// Devuelve false si no había stock suficiente o el producto no existe.
	DecrementQuantityIfAvailable(ctx context.Context, tenantID, productID string, qty int64) (bool, error)

	// UpdateAlertSettings muta la configuración de alertas del producto y
	// devuelve el producto actualizado, o (nil, nil) si no existe.
	UpdateAlertSettings(ctx context.Context, tenantID, productID string, minQuantity int64, alertEnabled bool) (*entity.Product, error)
}

package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// CategoryRepository puerto de persistencia para categorías.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	// GetByID devuelve (nil, nil) si no existe bajo el tenant.
	GetByID(ctx context.Context, tenantID, id string) (*entity.Category, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*entity.Category, error)
}

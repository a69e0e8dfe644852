package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// TenantRepository puerto de persistencia para asociaciones.
type TenantRepository interface {
	// GetByEmail devuelve el tenant del email o (nil, nil) si no existe.
	GetByEmail(ctx context.Context, email string) (*entity.Tenant, error)
	Create(ctx context.Context, tenant *entity.Tenant) error
}

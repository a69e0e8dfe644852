// Package tenant resuelve la identidad del llamante (email) a su asociación,
// creándola de forma perezosa la primera vez que se ve un email autenticado.
package tenant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Resolver caso de uso de resolución de tenant.
type Resolver struct {
	tenants repository.TenantRepository
}

// NewResolver construye el caso de uso.
func NewResolver(tenants repository.TenantRepository) *Resolver {
	return &Resolver{tenants: tenants}
}

// Resolve busca la asociación por email. Devuelve (nil, nil) si el email está
// vacío o no hay asociación registrada.
func (r *Resolver) Resolve(ctx context.Context, email string) (*entity.Tenant, error) {
	if email == "" {
		return nil, nil
	}
	t, err := r.tenants.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("resolver tenant: %w", err)
	}
	return t, nil
}

// ResolveOrCreate devuelve la asociación del email, creándola con name si no
// existe. Idempotente: llamadas repetidas con un email ya registrado no hacen
// nada, sin importar el name recibido. Con email vacío la llamada es inerte
// (simplificación deliberada: el middleware ya validó el token).
func (r *Resolver) ResolveOrCreate(ctx context.Context, email, name string) (*entity.Tenant, error) {
	if email == "" {
		return nil, nil
	}
	existing, err := r.tenants.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("buscar tenant: %w", err)
	}
	if existing != nil {
		return existing, nil
	}
	if name == "" {
		return nil, nil
	}
	t := &entity.Tenant{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := r.tenants.Create(ctx, t); err != nil {
		// Carrera con otro request del mismo email: el registro ya quedó creado.
		if again, lookupErr := r.tenants.GetByEmail(ctx, email); lookupErr == nil && again != nil {
			return again, nil
		}
		return nil, fmt.Errorf("crear tenant: %w", err)
	}
	return t, nil
}

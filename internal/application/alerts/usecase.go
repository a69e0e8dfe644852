// Package alerts deriva alertas de stock bajo a partir del estado actual de
// los productos. La reconciliación re-evalúa todo el inventario del tenant en
// cada llamada (es barata) y se invoca antes de cada lectura de alertas.
package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// UseCase motor de alertas de stock.
type UseCase struct {
	tenants  repository.TenantRepository
	products repository.ProductRepository
	alerts   repository.AlertRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	tenants repository.TenantRepository,
	products repository.ProductRepository,
	alerts repository.AlertRepository,
) *UseCase {
	return &UseCase{tenants: tenants, products: products, alerts: alerts}
}

// Reconcile re-deriva el estado de alertas del tenant y devuelve solo las
// alertas recién creadas. Por cada producto con alertas activadas:
//   - quantity < minQuantity: crea la alerta si no hay una activa (idempotente;
//     el índice único parcial respalda el chequeo bajo concurrencia);
//   - quantity >= minQuantity: resuelve las activas que hubiera.
//
// Tenant inexistente devuelve lista vacía: la reconciliación se invoca de
// forma oportunista en cada carga de la vista.
func (uc *UseCase) Reconcile(ctx context.Context, email string) ([]*entity.StockAlert, error) {
	tenant, err := uc.lookupTenant(ctx, email)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return []*entity.StockAlert{}, nil
	}

	products, err := uc.products.ListAlertEnabled(ctx, tenant.ID)
	if err != nil {
		return nil, fmt.Errorf("listar productos con alerta: %w", err)
	}

	now := time.Now()
	created := []*entity.StockAlert{}
	for _, p := range products {
		if p.Quantity < p.MinQuantity {
			alert := &entity.StockAlert{
				ID:        uuid.New().String(),
				TenantID:  tenant.ID,
				ProductID: p.ID,
				Message:   fmt.Sprintf("Stock bajo: %s (%d%s / min: %d%s)", p.Name, p.Quantity, p.Unit, p.MinQuantity, p.Unit),
				Status:    entity.AlertStatusActive,
				CreatedAt: now,
			}
			wasCreated, err := uc.alerts.CreateIfAbsent(ctx, alert)
			if err != nil {
				return nil, fmt.Errorf("crear alerta: %w", err)
			}
			if wasCreated {
				created = append(created, alert)
			}
			continue
		}
		// Cantidad recuperada: resolver las alertas activas del producto.
		if err := uc.alerts.ResolveForProduct(ctx, tenant.ID, p.ID, now); err != nil {
			return nil, fmt.Errorf("resolver alertas del producto: %w", err)
		}
	}
	return created, nil
}

// ListActive devuelve las alertas activas del tenant, más reciente primero,
// enriquecidas con producto y categoría. Reconcilia antes de leer
// (read-through), así la vista nunca muestra alertas obsoletas.
func (uc *UseCase) ListActive(ctx context.Context, email string) ([]*entity.AlertView, error) {
	if _, err := uc.Reconcile(ctx, email); err != nil {
		return nil, err
	}
	tenant, err := uc.lookupTenant(ctx, email)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return []*entity.AlertView{}, nil
	}
	views, err := uc.alerts.ListActive(ctx, tenant.ID)
	if err != nil {
		return nil, fmt.Errorf("listar alertas activas: %w", err)
	}
	return views, nil
}

// Resolve marca una alerta como resuelta sin importar el stock actual
// (override manual del operador).
func (uc *UseCase) Resolve(ctx context.Context, email, alertID string) (*entity.StockAlert, error) {
	tenant, err := uc.lookupTenant(ctx, email)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrTenantNotFound
	}
	alert, err := uc.alerts.Resolve(ctx, tenant.ID, alertID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("resolver alerta: %w", err)
	}
	if alert == nil {
		return nil, domain.ErrNotFound
	}
	return alert, nil
}

// UpdateSettings muta la configuración de alertas del producto. No reconcilia:
// el caller dispara Reconcile aparte o espera la siguiente lectura.
func (uc *UseCase) UpdateSettings(ctx context.Context, email, productID string, minQuantity int64, alertEnabled bool) (*entity.Product, error) {
	if minQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	tenant, err := uc.lookupTenant(ctx, email)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrTenantNotFound
	}
	product, err := uc.products.UpdateAlertSettings(ctx, tenant.ID, productID, minQuantity, alertEnabled)
	if err != nil {
		return nil, fmt.Errorf("actualizar configuración de alerta: %w", err)
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

// CountActive devuelve el número de alertas activas para el badge de la UI.
// Best-effort: cualquier falla (tenant inexistente incluido) devuelve 0.
func (uc *UseCase) CountActive(ctx context.Context, email string) int {
	tenant, err := uc.lookupTenant(ctx, email)
	if err != nil || tenant == nil {
		return 0
	}
	count, err := uc.alerts.CountActive(ctx, tenant.ID)
	if err != nil {
		return 0
	}
	return count
}

func (uc *UseCase) lookupTenant(ctx context.Context, email string) (*entity.Tenant, error) {
	if email == "" {
		return nil, nil
	}
	tenant, err := uc.tenants.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("buscar tenant: %w", err)
	}
	return tenant, nil
}

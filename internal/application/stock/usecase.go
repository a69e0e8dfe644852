// Package stock implementa el libro de movimientos: el protocolo que mantiene
// Product.Quantity consistente con la suma de entradas del libro
// (quantity = Σ IN - Σ OUT), de forma atómica por llamada.
package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// LedgerUseCase muta cantidades de producto y registra el historial inmutable.
type LedgerUseCase struct {
	txRunner     TxRunner
	tenants      repository.TenantRepository
	products     repository.ProductRepository
	transactions repository.TransactionRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	tenants repository.TenantRepository,
	products repository.ProductRepository,
	transactions repository.TransactionRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:     txRunner,
		tenants:      tenants,
		products:     products,
		transactions: transactions,
	}
}

// WithdrawItem una línea de un retiro por lote.
type WithdrawItem struct {
	ProductID string
	Quantity  int64
}

// WithdrawResult resultado estructurado del retiro. El retiro reporta en vez
// de lanzar: la UI muestra Message tal cual al usuario final.
type WithdrawResult struct {
	Success bool
	Message string
}

// Replenish incrementa el stock de un producto y registra la entrada IN,
// ambos dentro de la misma transacción. Rechaza antes de mutar si la cantidad
// no es positiva, el tenant no existe o el producto no pertenece al tenant.
func (uc *LedgerUseCase) Replenish(ctx context.Context, email, productID string, quantity int64) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	tenant, err := uc.resolveTenant(ctx, email)
	if err != nil {
		return err
	}

	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		transactions repository.TransactionRepository,
	) error {
		ok, err := products.IncrementQuantity(ctx, tenant.ID, productID, quantity)
		if err != nil {
			return fmt.Errorf("incrementar stock: %w", err)
		}
		// 0 filas afectadas: el producto no existe bajo este tenant. Se
		// rechaza explícito en vez de dejar pasar un update silencioso.
		if !ok {
			return domain.ErrProductNotFound
		}
		return transactions.Create(ctx, &entity.StockTransaction{
			ID:        uuid.New().String(),
			TenantID:  tenant.ID,
			ProductID: productID,
			Type:      entity.TransactionTypeIN,
			Quantity:  quantity,
			CreatedAt: now,
		})
	})
}

// Withdraw deduce stock para una lista de productos y registra las salidas OUT.
// Protocolo en dos fases:
//
//  1. Validación (solo lectura): existencia, cantidad > 0 y suficiencia por
//     ítem. Si cualquier ítem falla, la operación completa se rechaza sin
//     mutar nada, con un mensaje que identifica el producto y el faltante.
//  2. Commit: una sola transacción; por ítem, decremento condicional
//     (quantity = quantity - $q WHERE quantity >= $q) más la entrada OUT.
//     El decremento condicional re-verifica la suficiencia dentro del commit,
//     así la validación previa es solo un fast-fail y dos retiros
//     concurrentes no pueden sobrevender contra lecturas viejas.
//
// Las fallas de validación y de suficiencia vuelven en el resultado; el error
// de retorno queda para fallas de storage (el lote completo ya hizo rollback).
func (uc *LedgerUseCase) Withdraw(ctx context.Context, email string, items []WithdrawItem) (WithdrawResult, error) {
	tenant, err := uc.resolveTenant(ctx, email)
	if err != nil {
		return WithdrawResult{Success: false, Message: err.Error()}, nil
	}
	if len(items) == 0 {
		return WithdrawResult{Success: false, Message: "el retiro no tiene ítems"}, nil
	}

	// ── Fase 1: validación previa, sin mutaciones ────────────────────────────
	if err := uc.validateWithdraw(ctx, tenant.ID, items); err != nil {
		return WithdrawResult{Success: false, Message: err.Error()}, nil
	}

	// ── Fase 2: commit atómico ───────────────────────────────────────────────
	now := time.Now()
	err = uc.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		transactions repository.TransactionRepository,
	) error {
		for _, item := range items {
			ok, err := products.DecrementQuantityIfAvailable(ctx, tenant.ID, item.ProductID, item.Quantity)
			if err != nil {
				return fmt.Errorf("decrementar stock: %w", err)
			}
			if !ok {
				// Carrera perdida contra otro retiro (o producto eliminado
				// entre fases): reconstruir el faltante con una relectura.
				return uc.shortfallError(ctx, products, tenant.ID, item)
			}
			if err := transactions.Create(ctx, &entity.StockTransaction{
				ID:        uuid.New().String(),
				TenantID:  tenant.ID,
				ProductID: item.ProductID,
				Type:      entity.TransactionTypeOUT,
				Quantity:  item.Quantity,
				CreatedAt: now,
			}); err != nil {
				return fmt.Errorf("registrar salida: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		var insufficient *domain.InsufficientStockError
		if errors.As(err, &insufficient) || errors.Is(err, domain.ErrProductNotFound) {
			return WithdrawResult{Success: false, Message: err.Error()}, nil
		}
		// Falla de storage: el TxRunner ya hizo rollback del lote completo.
		return WithdrawResult{Success: false, Message: "no se pudo completar el retiro"}, err
	}
	return WithdrawResult{Success: true}, nil
}

// validateWithdraw verifica cada línea contra el estado actual. No muta nada.
func (uc *LedgerUseCase) validateWithdraw(ctx context.Context, tenantID string, items []WithdrawItem) error {
	for _, item := range items {
		product, err := uc.products.GetByTenantAndID(ctx, tenantID, item.ProductID)
		if err != nil {
			return fmt.Errorf("leer producto: %w", err)
		}
		if product == nil {
			return fmt.Errorf("%w: producto con id %s inexistente", domain.ErrProductNotFound, item.ProductID)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: la cantidad para %q debe ser > 0", domain.ErrInvalidQuantity, product.Name)
		}
		if product.Quantity < item.Quantity {
			return &domain.InsufficientStockError{
				ProductName: product.Name,
				Requested:   item.Quantity,
				Available:   product.Quantity,
				Unit:        product.Unit,
			}
		}
	}
	return nil
}

// shortfallError arma el error de suficiencia tras un decremento condicional
// fallido, releyendo el producto dentro de la misma transacción.
func (uc *LedgerUseCase) shortfallError(ctx context.Context, products repository.ProductRepository, tenantID string, item WithdrawItem) error {
	product, err := products.GetByTenantAndID(ctx, tenantID, item.ProductID)
	if err != nil {
		return fmt.Errorf("releer producto: %w", err)
	}
	if product == nil {
		return fmt.Errorf("%w: producto con id %s inexistente", domain.ErrProductNotFound, item.ProductID)
	}
	return &domain.InsufficientStockError{
		ProductName: product.Name,
		Requested:   item.Quantity,
		Available:   product.Quantity,
		Unit:        product.Unit,
	}
}

// ListTransactions devuelve el historial del tenant, más reciente primero,
// enriquecido con producto y categoría. limit <= 0 significa sin tope.
// Si el tenant no existe devuelve lista vacía (lectura oportunista).
func (uc *LedgerUseCase) ListTransactions(ctx context.Context, email string, limit int) ([]*entity.TransactionView, error) {
	tenant, err := uc.lookupTenant(ctx, email)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return []*entity.TransactionView{}, nil
	}
	views, err := uc.transactions.ListByTenant(ctx, tenant.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("listar transacciones: %w", err)
	}
	return views, nil
}

// resolveTenant busca el tenant y convierte la ausencia en ErrTenantNotFound.
func (uc *LedgerUseCase) resolveTenant(ctx context.Context, email string) (*entity.Tenant, error) {
	tenant, err := uc.lookupTenant(ctx, email)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrTenantNotFound
	}
	return tenant, nil
}

func (uc *LedgerUseCase) lookupTenant(ctx context.Context, email string) (*entity.Tenant, error) {
	if email == "" {
		return nil, nil
	}
	tenant, err := uc.tenants.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("buscar tenant: %w", err)
	}
	return tenant, nil
}

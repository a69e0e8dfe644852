package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, tenant_id, name, description, price, quantity, unit, category_id, image_url, min_quantity, alert_enabled, created_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto con su cantidad inicial.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.TenantID, product.Name, product.Description,
		product.Price, product.Quantity, product.Unit, product.CategoryID,
		product.ImageURL, product.MinQuantity, product.AlertEnabled, product.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByTenantAndID obtiene un producto del tenant. Devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetByTenantAndID(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products WHERE id = $1 AND tenant_id = $2`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id, tenantID).Scan(
		&p.ID, &p.TenantID, &p.Name, &p.Description, &p.Price, &p.Quantity,
		&p.Unit, &p.CategoryID, &p.ImageURL, &p.MinQuantity, &p.AlertEnabled, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// ListByTenant lista productos del tenant con filtros opcionales
// (substring de nombre case-insensitive, ids excluidos).
func (r *ProductRepo) ListByTenant(ctx context.Context, tenantID string, filter repository.ProductFilter) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products WHERE tenant_id = $1`
	args := []any{tenantID}
	pos := 2
	if filter.NameContains != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", pos)
		args = append(args, "%"+filter.NameContains+"%")
		pos++
	}
	if len(filter.ExcludeIDs) > 0 {
		query += fmt.Sprintf(" AND id != ALL($%d)", pos)
		args = append(args, filter.ExcludeIDs)
		pos++
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// ListAlertEnabled lista los productos del tenant con alertas activadas.
func (r *ProductRepo) ListAlertEnabled(ctx context.Context, tenantID string) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products WHERE tenant_id = $1 AND alert_enabled ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list alert-enabled products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// IncrementQuantity suma qty al stock del producto, re-verificando pertenencia
// al tenant en el WHERE. Devuelve false si no afectó filas.
func (r *ProductRepo) IncrementQuantity(ctx context.Context, tenantID, productID string, qty int64) (bool, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET quantity = quantity + $3 WHERE id = $1 AND tenant_id = $2`,
		productID, tenantID, qty,
	)
	if err != nil {
		return false, fmt.Errorf("increment quantity: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// DecrementQuantityIfAvailable resta qty solo si hay stock suficiente.
// La condición quantity >= $3 va en el mismo UPDATE: bajo concurrencia la fila
// queda bloqueada y ningún par de retiros puede dejar la cantidad negativa.
func (r *ProductRepo) DecrementQuantityIfAvailable(ctx context.Context, tenantID, productID string, qty int64) (bool, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET quantity = quantity - $3 WHERE id = $1 AND tenant_id = $2 AND quantity >= $3`,
		productID, tenantID, qty,
	)
	if err != nil {
		return false, fmt.Errorf("decrement quantity: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// UpdateAlertSettings muta la configuración de alertas y devuelve el producto
// actualizado, o (nil, nil) si no existe bajo el tenant.
func (r *ProductRepo) UpdateAlertSettings(ctx context.Context, tenantID, productID string, minQuantity int64, alertEnabled bool) (*entity.Product, error) {
	query := `
		UPDATE products SET min_quantity = $3, alert_enabled = $4
		WHERE id = $1 AND tenant_id = $2
		RETURNING ` + productColumns
	var p entity.Product
	err := r.q.QueryRow(ctx, query, productID, tenantID, minQuantity, alertEnabled).Scan(
		&p.ID, &p.TenantID, &p.Name, &p.Description, &p.Price, &p.Quantity,
		&p.Unit, &p.CategoryID, &p.ImageURL, &p.MinQuantity, &p.AlertEnabled, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update alert settings: %w", err)
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]*entity.Product, error) {
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.Description, &p.Price, &p.Quantity,
			&p.Unit, &p.CategoryID, &p.ImageURL, &p.MinQuantity, &p.AlertEnabled, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

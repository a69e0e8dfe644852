package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). Solo INSERT y SELECT: las entradas son inmutables.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create persiste una entrada del libro.
func (r *TransactionRepo) Create(ctx context.Context, tx *entity.StockTransaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_transactions (id, tenant_id, product_id, type, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.TenantID, tx.ProductID, tx.Type, tx.Quantity, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock transaction: %w", err)
	}
	return nil
}

// ListByTenant lista las entradas del tenant, más reciente primero,
// enriquecidas con producto y categoría. limit <= 0 significa sin tope.
func (r *TransactionRepo) ListByTenant(ctx context.Context, tenantID string, limit int) ([]*entity.TransactionView, error) {
	query := `
		SELECT t.id, t.tenant_id, t.product_id, t.type, t.quantity, t.created_at,
		       p.name, c.name, p.price, p.unit, p.image_url
		FROM stock_transactions t
		JOIN products p ON p.id = t.product_id
		JOIN categories c ON c.id = p.category_id
		WHERE t.tenant_id = $1
		ORDER BY t.created_at DESC`
	args := []any{tenantID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.TransactionView
	for rows.Next() {
		var v entity.TransactionView
		if err := rows.Scan(&v.ID, &v.TenantID, &v.ProductID, &v.Type, &v.Quantity, &v.CreatedAt,
			&v.ProductName, &v.CategoryName, &v.Price, &v.Unit, &v.ImageURL); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// CountByTenant cuenta las entradas del libro del tenant.
func (r *TransactionRepo) CountByTenant(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM stock_transactions WHERE tenant_id = $1`, tenantID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}

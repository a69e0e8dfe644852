package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas agregadas de solo lectura para reportes.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// OverviewStats calcula el rollup global del tenant en una sola ronda:
// conteos de productos, categorías y movimientos, más Σ price × quantity.
func (r *ReportRepo) OverviewStats(ctx context.Context, tenantID string) (*repository.OverviewStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM products WHERE tenant_id = $1),
			(SELECT COUNT(*) FROM categories WHERE tenant_id = $1),
			(SELECT COUNT(*) FROM stock_transactions WHERE tenant_id = $1),
			(SELECT COALESCE(SUM(price * quantity), 0) FROM products WHERE tenant_id = $1)`
	var stats repository.OverviewStats
	err := r.q.QueryRow(ctx, query, tenantID).Scan(
		&stats.TotalProducts, &stats.TotalCategories, &stats.TotalTransactions, &stats.StockValue,
	)
	if err != nil {
		return nil, fmt.Errorf("overview stats: %w", err)
	}
	return &stats, nil
}

// CategoryDistribution top categorías por cantidad de productos, descendente.
// El desempate por created_at mantiene el orden estable entre ejecuciones.
func (r *ReportRepo) CategoryDistribution(ctx context.Context, tenantID string, top int) ([]repository.CategoryCount, error) {
	query := `
		SELECT c.name, COUNT(p.id)
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		WHERE c.tenant_id = $1
		GROUP BY c.id, c.name, c.created_at
		HAVING COUNT(p.id) > 0
		ORDER BY COUNT(p.id) DESC, c.created_at
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, tenantID, top)
	if err != nil {
		return nil, fmt.Errorf("category distribution: %w", err)
	}
	defer rows.Close()
	var list []repository.CategoryCount
	for rows.Next() {
		var c repository.CategoryCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// ListProductsWithCategory lista los productos del tenant anotados con el
// nombre de su categoría.
func (r *ReportRepo) ListProductsWithCategory(ctx context.Context, tenantID string) ([]*repository.ProductWithCategory, error) {
	query := `
		SELECT p.id, p.tenant_id, p.name, p.description, p.price, p.quantity,
		       p.unit, p.category_id, p.image_url, p.min_quantity, p.alert_enabled, p.created_at,
		       c.name
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.tenant_id = $1
		ORDER BY p.created_at DESC`
	rows, err := r.q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list products with category: %w", err)
	}
	defer rows.Close()
	var list []*repository.ProductWithCategory
	for rows.Next() {
		var p repository.ProductWithCategory
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.Description, &p.Price, &p.Quantity,
			&p.Unit, &p.CategoryID, &p.ImageURL, &p.MinQuantity, &p.AlertEnabled, &p.CreatedAt,
			&p.CategoryName); err != nil {
			return nil, fmt.Errorf("scan product with category: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

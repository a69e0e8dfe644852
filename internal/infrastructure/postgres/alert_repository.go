package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementación de AlertRepository sobre PostgreSQL (usable con pool o tx).
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

// CreateIfAbsent crea la alerta solo si el producto no tiene una activa.
// El índice único parcial uq_stock_alerts_active (product_id WHERE
// status = 'active') hace que dos reconciliaciones concurrentes no puedan
// duplicarla: la que pierde cae en ON CONFLICT DO NOTHING.
func (r *AlertRepo) CreateIfAbsent(ctx context.Context, alert *entity.StockAlert) (bool, error) {
	query := `
		INSERT INTO stock_alerts (id, tenant_id, product_id, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (product_id) WHERE status = 'active' DO NOTHING`
	cmd, err := r.q.Exec(ctx, query,
		alert.ID, alert.TenantID, alert.ProductID, alert.Message, alert.Status, alert.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("create alert: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// ResolveForProduct resuelve todas las alertas activas del producto.
func (r *AlertRepo) ResolveForProduct(ctx context.Context, tenantID, productID string, at time.Time) error {
	_, err := r.q.Exec(ctx, `
		UPDATE stock_alerts SET status = 'resolved', resolved_at = $3
		WHERE tenant_id = $1 AND product_id = $2 AND status = 'active'`,
		tenantID, productID, at,
	)
	if err != nil {
		return fmt.Errorf("resolve alerts for product: %w", err)
	}
	return nil
}

// Resolve resuelve una alerta puntual. Devuelve (nil, nil) si no existe bajo el tenant.
func (r *AlertRepo) Resolve(ctx context.Context, tenantID, alertID string, at time.Time) (*entity.StockAlert, error) {
	query := `
		UPDATE stock_alerts SET status = 'resolved', resolved_at = $3
		WHERE id = $1 AND tenant_id = $2
		RETURNING id, tenant_id, product_id, message, status, created_at, resolved_at`
	var a entity.StockAlert
	err := r.q.QueryRow(ctx, query, alertID, tenantID, at).Scan(
		&a.ID, &a.TenantID, &a.ProductID, &a.Message, &a.Status, &a.CreatedAt, &a.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve alert: %w", err)
	}
	return &a, nil
}

// ListActive lista las alertas activas del tenant, más reciente primero,
// enriquecidas con producto y categoría.
func (r *AlertRepo) ListActive(ctx context.Context, tenantID string) ([]*entity.AlertView, error) {
	query := `
		SELECT a.id, a.tenant_id, a.product_id, a.message, a.status, a.created_at, a.resolved_at,
		       p.name, c.name, p.quantity, p.min_quantity, p.unit
		FROM stock_alerts a
		JOIN products p ON p.id = a.product_id
		JOIN categories c ON c.id = p.category_id
		WHERE a.tenant_id = $1 AND a.status = 'active'
		ORDER BY a.created_at DESC`
	rows, err := r.q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list active alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.AlertView
	for rows.Next() {
		var v entity.AlertView
		if err := rows.Scan(&v.ID, &v.TenantID, &v.ProductID, &v.Message, &v.Status, &v.CreatedAt, &v.ResolvedAt,
			&v.ProductName, &v.CategoryName, &v.Quantity, &v.MinQuantity, &v.Unit); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// CountActive cuenta las alertas activas del tenant.
func (r *AlertRepo) CountActive(ctx context.Context, tenantID string) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM stock_alerts WHERE tenant_id = $1 AND status = 'active'`, tenantID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active alerts: %w", err)
	}
	return count, nil
}

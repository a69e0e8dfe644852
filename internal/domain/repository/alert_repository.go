package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// AlertRepository puerto de persistencia para alertas de stock.
type AlertRepository interface {
	// CreateIfAbsent crea la alerta solo si el producto no tiene ya una activa.
	// Devuelve false si ya existía (el índice único parcial respalda el chequeo).
	CreateIfAbsent(ctx context.Context, alert *entity.StockAlert) (bool, error)
	// ResolveForProduct resuelve todas las alertas activas del producto.
	ResolveForProduct(ctx context.Context, tenantID, productID string, at time.Time) error
	// Resolve resuelve una alerta puntual (override manual).
	// Devuelve (nil, nil) si no existe bajo el tenant.
	Resolve(ctx context.Context, tenantID, alertID string, at time.Time) (*entity.StockAlert, error)
	ListActive(ctx context.Context, tenantID string) ([]*entity.AlertView, error)
	CountActive(ctx context.Context, tenantID string) (int, error)
}

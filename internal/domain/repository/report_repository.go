package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// OverviewStats rollup global del inventario de un tenant.
type OverviewStats struct {
	TotalProducts     int
	TotalCategories   int
	TotalTransactions int64
	StockValue        decimal.Decimal // Σ price × quantity
}

// CategoryCount cantidad de productos por categoría.
type CategoryCount struct {
	Name  string
	Count int
}

// ProductWithCategory producto anotado con el nombre de su categoría.
type ProductWithCategory struct {
	entity.Product
	CategoryName string
}

// ReportRepository consultas de solo lectura para el agregador de reportes.
type ReportRepository interface {
	OverviewStats(ctx context.Context, tenantID string) (*OverviewStats, error)
	// CategoryDistribution devuelve las top categorías por cantidad de
	// productos, descendente; empates en orden de inserción (estable).
	CategoryDistribution(ctx context.Context, tenantID string, top int) ([]CategoryCount, error)
	ListProductsWithCategory(ctx context.Context, tenantID string) ([]*ProductWithCategory, error)
}

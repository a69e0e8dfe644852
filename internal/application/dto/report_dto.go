package dto

import (
	"github.com/shopspring/decimal"
)

// OverviewStatsDTO estadísticas globales del inventario.
type OverviewStatsDTO struct {
	TotalProducts     int             `json:"total_products"`
	TotalCategories   int             `json:"total_categories"`
	TotalTransactions int64           `json:"total_transactions"`
	StockValue        decimal.Decimal `json:"stock_value"`
}

// CategoryCountDTO una barra del gráfico de distribución por categoría.
type CategoryCountDTO struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// CriticalProductDTO producto en estado crítico (stock bajo o agotado).
type CriticalProductDTO struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Quantity     int64           `json:"quantity"`
	Unit         string          `json:"unit"`
	Price        decimal.Decimal `json:"price"`
	CategoryName string          `json:"category_name"`
}

// StockSummaryDTO partición del inventario por nivel de stock.
// El corte usa la constante global del widget (no el mínimo por producto).
type StockSummaryDTO struct {
	InStockCount     int                  `json:"in_stock_count"`
	LowStockCount    int                  `json:"low_stock_count"`
	OutOfStockCount  int                  `json:"out_of_stock_count"`
	CriticalProducts []CriticalProductDTO `json:"critical_products"`
}

// StockReportDTO texto generado por el colaborador de IA.
type StockReportDTO struct {
	Report string `json:"report"`
}

// ProductDTO producto para respuestas HTTP (configuración de alertas).
type ProductDTO struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Quantity     int64           `json:"quantity"`
	Unit         string          `json:"unit"`
	Price        decimal.Decimal `json:"price"`
	MinQuantity  int64           `json:"min_quantity"`
	AlertEnabled bool            `json:"alert_enabled"`
}

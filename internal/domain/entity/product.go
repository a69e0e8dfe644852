package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario de una asociación.
// Quantity es el nivel de stock autoritativo y solo se muta a través del
// libro de movimientos (Replenish/Withdraw); nunca por edición directa.
// MinQuantity y AlertEnabled configuran el motor de alertas por producto.
type Product struct {
	ID           string
	TenantID     string
	Name         string
	Description  string
	Price        decimal.Decimal // no negativo
	Quantity     int64           // no negativo
	Unit         string          // etiqueta: kg, L, unidad...
	CategoryID   string
	ImageURL     string
	MinQuantity  int64 // umbral de alerta por producto
	AlertEnabled bool
	CreatedAt    time.Time
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de stock.
const (
	TransactionTypeIN  = "IN"  // entrada (reabastecimiento)
	TransactionTypeOUT = "OUT" // salida (retiro)
)

// StockTransaction es una entrada inmutable del libro de movimientos.
// Nunca se actualiza ni se borra. Para cualquier producto:
// quantity_actual = Σ(IN) - Σ(OUT) desde su creación (la cantidad inicial
// cuenta como un IN implícito).
type StockTransaction struct {
	ID        string
	TenantID  string
	ProductID string
	Type      string // IN | OUT
	Quantity  int64  // siempre positivo
	CreatedAt time.Time
}

// TransactionView es una entrada del libro enriquecida con datos del producto
// para mostrar en el historial (lista materializada, no stream).
type TransactionView struct {
	StockTransaction
	ProductName  string
	CategoryName string
	Price        decimal.Decimal
	Unit         string
	ImageURL     string
}

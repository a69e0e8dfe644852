package entity

import "time"

// Estados de una alerta de stock.
const (
	AlertStatusActive   = "active"
	AlertStatusResolved = "resolved"
)

// StockAlert es un registro derivado: señala que la cantidad de un producto
// cayó por debajo de su mínimo configurado. A lo sumo una alerta activa por
// producto (índice único parcial en la DB como red de seguridad).
type StockAlert struct {
	ID         string
	TenantID   string
	ProductID  string
	Message    string
	Status     string // active | resolved
	CreatedAt  time.Time
	ResolvedAt *time.Time // nil mientras esté activa
}

// AlertView es una alerta enriquecida con producto y categoría para la vista.
type AlertView struct {
	StockAlert
	ProductName  string
	CategoryName string
	Quantity     int64
	MinQuantity  int64
	Unit         string
}

package dto

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// AlertSettingsRequest configuración de alertas de un producto.
type AlertSettingsRequest struct {
	MinQuantity  int64 `json:"min_quantity" validate:"gte=0"`
	AlertEnabled bool  `json:"alert_enabled"`
}

// AlertDTO alerta para la vista (enriquecida con producto y categoría).
type AlertDTO struct {
	ID           string     `json:"id"`
	ProductID    string     `json:"product_id"`
	Message      string     `json:"message"`
	Status       string     `json:"status"`
	ProductName  string     `json:"product_name,omitempty"`
	CategoryName string     `json:"category_name,omitempty"`
	Quantity     int64      `json:"quantity,omitempty"`
	MinQuantity  int64      `json:"min_quantity,omitempty"`
	Unit         string     `json:"unit,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
}

// AlertDTOFromEntity convierte una alerta sin enriquecer.
func AlertDTOFromEntity(a *entity.StockAlert) AlertDTO {
	return AlertDTO{
		ID:         a.ID,
		ProductID:  a.ProductID,
		Message:    a.Message,
		Status:     a.Status,
		CreatedAt:  a.CreatedAt,
		ResolvedAt: a.ResolvedAt,
	}
}

// AlertDTOFromView convierte una alerta enriquecida.
func AlertDTOFromView(v *entity.AlertView) AlertDTO {
	out := AlertDTOFromEntity(&v.StockAlert)
	out.ProductName = v.ProductName
	out.CategoryName = v.CategoryName
	out.Quantity = v.Quantity
	out.MinQuantity = v.MinQuantity
	out.Unit = v.Unit
	return out
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ReplenishRequest entrada para reabastecer un producto.
type ReplenishRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

// WithdrawItemRequest una línea de retiro.
type WithdrawItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

// WithdrawRequest retiro por lote: o entra todo o no entra nada.
type WithdrawRequest struct {
	Items []WithdrawItemRequest `json:"items" validate:"required,min=1,dive"`
}

// WithdrawResponse resultado estructurado del retiro (la UI muestra Message tal cual).
type WithdrawResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// TransactionDTO entrada del libro enriquecida para el historial.
type TransactionDTO struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	Type         string          `json:"type"`
	Quantity     int64           `json:"quantity"`
	ProductName  string          `json:"product_name"`
	CategoryName string          `json:"category_name"`
	Price        decimal.Decimal `json:"price"`
	Unit         string          `json:"unit"`
	ImageURL     string          `json:"image_url,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TransactionDTOFromView convierte la vista de dominio al DTO HTTP.
func TransactionDTOFromView(v *entity.TransactionView) TransactionDTO {
	return TransactionDTO{
		ID:           v.ID,
		ProductID:    v.ProductID,
		Type:         v.Type,
		Quantity:     v.Quantity,
		ProductName:  v.ProductName,
		CategoryName: v.CategoryName,
		Price:        v.Price,
		Unit:         v.Unit,
		ImageURL:     v.ImageURL,
		CreatedAt:    v.CreatedAt,
	}
}

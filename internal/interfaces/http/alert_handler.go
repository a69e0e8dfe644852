package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/alerts"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/pkg/validator"
)

// AlertHandler maneja las peticiones HTTP del motor de alertas (protegido).
type AlertHandler struct {
	uc *alerts.UseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *alerts.UseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// ListActive godoc
// @Summary      Alertas activas
// @Description  Reconcilia el estado de alertas contra el stock actual y devuelve
//
//	las activas, más reciente primero, enriquecidas con producto y categoría.
//
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) ListActive(c *fiber.Ctx) error {
	views, err := h.uc.ListActive(c.Context(), GetEmail(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.AlertDTO, 0, len(views))
	for _, v := range views {
		out = append(out, dto.AlertDTOFromView(v))
	}
	return c.JSON(fiber.Map{
		"total":  len(out),
		"alerts": out,
	})
}

// Reconcile godoc
// @Summary      Reconciliar alertas
// @Description  Re-evalúa todos los productos con alertas activadas y devuelve
//
//	solo las alertas recién creadas en esta pasada.
//
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/alerts/reconcile [post]
func (h *AlertHandler) Reconcile(c *fiber.Ctx) error {
	created, err := h.uc.Reconcile(c.Context(), GetEmail(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.AlertDTO, 0, len(created))
	for _, a := range created {
		out = append(out, dto.AlertDTOFromEntity(a))
	}
	return c.JSON(fiber.Map{
		"created": len(out),
		"alerts":  out,
	})
}

// Resolve godoc
// @Summary      Resolver una alerta manualmente
// @Description  Marca la alerta como resuelta sin importar el stock actual.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/resolve [patch]
func (h *AlertHandler) Resolve(c *fiber.Ctx) error {
	alert, err := h.uc.Resolve(c.Context(), GetEmail(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "TENANT_NOT_FOUND", Message: "asociación no registrada"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "alerta no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.AlertDTOFromEntity(alert))
}

// Count godoc
// @Summary      Contador de alertas activas
// @Description  Para el badge de la UI. Best-effort: cualquier falla devuelve 0.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/alerts/count [get]
func (h *AlertHandler) Count(c *fiber.Ctx) error {
	count := h.uc.CountActive(c.Context(), GetEmail(c))
	return c.JSON(fiber.Map{"count": count})
}

// UpdateSettings godoc
// @Summary      Configurar alertas de un producto
// @Description  Muta el umbral mínimo y el flag de alertas. No reconcilia; el
//
//	nuevo umbral surte efecto en la siguiente lectura de alertas.
//
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.AlertSettingsRequest  true  "min_quantity (>= 0), alert_enabled"
// @Success      200   {object}  dto.ProductDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/alert-settings [put]
func (h *AlertHandler) UpdateSettings(c *fiber.Ctx) error {
	var in dto.AlertSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Describe(errs)})
	}

	product, err := h.uc.UpdateSettings(c.Context(), GetEmail(c), c.Params("id"), in.MinQuantity, in.AlertEnabled)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "min_quantity no puede ser negativo"})
		}
		if errors.Is(err, domain.ErrTenantNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "TENANT_NOT_FOUND", Message: "asociación no registrada"})
		}
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.ProductDTO{
		ID:           product.ID,
		Name:         product.Name,
		Quantity:     product.Quantity,
		Unit:         product.Unit,
		Price:        product.Price,
		MinQuantity:  product.MinQuantity,
		AlertEnabled: product.AlertEnabled,
	})
}

package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/reports"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

// ReportHandler maneja las peticiones HTTP del agregador de reportes (protegido).
type ReportHandler struct {
	uc *reports.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Overview godoc
// @Summary      Estadísticas globales del inventario
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OverviewStatsDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/overview [get]
func (h *ReportHandler) Overview(c *fiber.Ctx) error {
	stats, err := h.uc.Overview(c.Context(), GetEmail(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(stats)
}

// CategoryDistribution godoc
// @Summary      Distribución de productos por categoría
// @Description  Top 5 categorías por cantidad de productos, descendente.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.CategoryCountDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/category-distribution [get]
func (h *ReportHandler) CategoryDistribution(c *fiber.Ctx) error {
	counts, err := h.uc.CategoryDistribution(c.Context(), GetEmail(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(counts)
}

// StockSummary godoc
// @Summary      Resumen de stock por nivel
// @Description  Particiona el inventario con el corte fijo del widget (100 uds):
//
//	en stock, stock bajo y agotados, con la lista de productos críticos.
//
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockSummaryDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/stock-summary [get]
func (h *ReportHandler) StockSummary(c *fiber.Ctx) error {
	summary, err := h.uc.StockSummary(c.Context(), GetEmail(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(summary)
}

// Generate godoc
// @Summary      Generar reporte de inventario con IA
// @Description  Redacta un reporte ejecutivo a partir del resumen de stock.
//
//	Best-effort: si el proveedor de IA falta o falla, el campo
//	report trae un mensaje descriptivo en lugar de un error HTTP.
//
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockReportDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/generate [post]
func (h *ReportHandler) Generate(c *fiber.Ctx) error {
	report, err := h.uc.Generate(c.Context(), GetEmail(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.StockReportDTO{Report: report})
}

// ExportPDF godoc
// @Summary      Exportar el resumen de stock en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/stock-summary/pdf [get]
func (h *ReportHandler) ExportPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.uc.GeneratePDF(c.Context(), GetEmail(c))
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "TENANT_NOT_FOUND", Message: "asociación no registrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="reporte-inventario.pdf"`)
	return c.Send(pdfBytes)
}

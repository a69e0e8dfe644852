package reports

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
)

// StockReportPDFGenerator puerto de salida para la exportación en PDF del
// resumen de stock.
type StockReportPDFGenerator interface {
	GenerateStockReportPDF(
		ctx context.Context,
		tenantName string,
		overview *dto.OverviewStatsDTO,
		summary *dto.StockSummaryDTO,
	) ([]byte, error)
}

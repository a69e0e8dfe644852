// Package reports contiene el agregador de reportes: rollups de solo lectura
// sobre productos y libro de movimientos, más el reporte generado por IA.
package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const (
	// SummaryLowStockMax corte fijo del widget de resumen: <= 100 unidades es
	// "stock bajo", 0 es "agotado". Es una constante de negocio global,
	// independiente del MinQuantity configurable por producto que usa el motor
	// de alertas. Dos nociones de "stock bajo" conviven a propósito.
	SummaryLowStockMax = 100

	// distributionTop número de categorías en el gráfico de distribución.
	distributionTop = 5

	// generateTimeout tope para la llamada al colaborador de IA.
	generateTimeout = 20 * time.Second
)

// UseCase agregador de reportes.
type UseCase struct {
	tenants   repository.TenantRepository
	reports   repository.ReportRepository
	generator ports.ReportGenerator
	pdf       StockReportPDFGenerator
}

// NewUseCase construye el caso de uso. generator y pdf pueden ser nil; en ese
// caso Generate devuelve el fallback y GeneratePDF un error descriptivo.
func NewUseCase(
	tenants repository.TenantRepository,
	reports repository.ReportRepository,
	generator ports.ReportGenerator,
	pdf StockReportPDFGenerator,
) *UseCase {
	return &UseCase{tenants: tenants, reports: reports, generator: generator, pdf: pdf}
}

// Overview devuelve las estadísticas globales del inventario. Tenant
// inexistente devuelve el struct en ceros (la UI lo pinta igual).
func (uc *UseCase) Overview(ctx context.Context, email string) (*dto.OverviewStatsDTO, error) {
	zero := &dto.OverviewStatsDTO{StockValue: decimal.Zero}
	tenant, err := uc.lookupTenant(ctx, email)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return zero, nil
	}
	stats, err := uc.reports.OverviewStats(ctx, tenant.ID)
	if err != nil {
		return nil, fmt.Errorf("overview stats: %w", err)
	}
	return &dto.OverviewStatsDTO{
		TotalProducts:     stats.TotalProducts,
		TotalCategories:   stats.TotalCategories,
		TotalTransactions: stats.TotalTransactions,
		StockValue:        stats.StockValue,
	}, nil
}

// CategoryDistribution devuelve las top 5 categorías por cantidad de
// productos, descendente, con empates estables.
func (uc *UseCase) CategoryDistribution(ctx context.Context, email string) ([]dto.CategoryCountDTO, error) {
	tenant, err := uc.lookupTenant(ctx, email)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return []dto.CategoryCountDTO{}, nil
	}
	counts, err := uc.reports.CategoryDistribution(ctx, tenant.ID, distributionTop)
	if err != nil {
		return nil, fmt.Errorf("distribución por categoría: %w", err)
	}
	out := make([]dto.CategoryCountDTO, 0, len(counts))
	for _, c := range counts {
		out = append(out, dto.CategoryCountDTO{Name: c.Name, Value: c.Count})
	}
	return out, nil
}

// StockSummary particiona el inventario por nivel de stock usando el corte
// fijo SummaryLowStockMax: en stock (> 100), bajo (1..100), agotado (0).
// Críticos = bajos ∪ agotados, anotados con su categoría.
func (uc *UseCase) StockSummary(ctx context.Context, email string) (*dto.StockSummaryDTO, error) {
	empty := &dto.StockSummaryDTO{CriticalProducts: []dto.CriticalProductDTO{}}
	tenant, err := uc.lookupTenant(ctx, email)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return empty, nil
	}
	products, err := uc.reports.ListProductsWithCategory(ctx, tenant.ID)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}

	summary := &dto.StockSummaryDTO{CriticalProducts: []dto.CriticalProductDTO{}}
	for _, p := range products {
		switch {
		case p.Quantity == 0:
			summary.OutOfStockCount++
		case p.Quantity <= SummaryLowStockMax:
			summary.LowStockCount++
		default:
			summary.InStockCount++
			continue
		}
		summary.CriticalProducts = append(summary.CriticalProducts, dto.CriticalProductDTO{
			ID:           p.ID,
			Name:         p.Name,
			Quantity:     p.Quantity,
			Unit:         p.Unit,
			Price:        p.Price,
			CategoryName: p.CategoryName,
		})
	}
	return summary, nil
}

// Generate arma el prompt con el resumen de stock serializado en JSON, llama
// al colaborador de generación de texto y devuelve su salida tal cual.
// Si el colaborador falta o falla, devuelve un string de fallback descriptivo
// en lugar de propagar el error (el reporte es best-effort).
func (uc *UseCase) Generate(ctx context.Context, email string) (string, error) {
	summary, err := uc.StockSummary(ctx, email)
	if err != nil {
		return "", err
	}
	if uc.generator == nil {
		return "Proveedor de IA no configurado. No es posible generar el reporte.", nil
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("serializar resumen: %w", err)
	}

	genCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	report, err := uc.generator.GenerateStockReport(genCtx, string(payload))
	if err != nil {
		return fmt.Sprintf("Error al generar el reporte: %v", err), nil
	}
	return report, nil
}

// GeneratePDF exporta el resumen de stock como PDF. Las dos consultas de
// lectura corren en paralelo.
func (uc *UseCase) GeneratePDF(ctx context.Context, email string) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("generador PDF no configurado")
	}
	tenant, err := uc.lookupTenant(ctx, email)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrTenantNotFound
	}

	type overviewResult struct {
		stats *dto.OverviewStatsDTO
		err   error
	}
	type summaryResult struct {
		summary *dto.StockSummaryDTO
		err     error
	}
	overviewCh := make(chan overviewResult, 1)
	summaryCh := make(chan summaryResult, 1)

	go func() {
		stats, err := uc.Overview(ctx, email)
		overviewCh <- overviewResult{stats, err}
	}()
	go func() {
		summary, err := uc.StockSummary(ctx, email)
		summaryCh <- summaryResult{summary, err}
	}()

	overview := <-overviewCh
	summary := <-summaryCh
	if overview.err != nil {
		return nil, fmt.Errorf("pdf: overview: %w", overview.err)
	}
	if summary.err != nil {
		return nil, fmt.Errorf("pdf: resumen: %w", summary.err)
	}

	return uc.pdf.GenerateStockReportPDF(ctx, tenant.Name, overview.stats, summary.summary)
}

func (uc *UseCase) lookupTenant(ctx context.Context, email string) (*entity.Tenant, error) {
	if email == "" {
		return nil, nil
	}
	tenant, err := uc.tenants.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("buscar tenant: %w", err)
	}
	return tenant, nil
}

package reports_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/application/reports"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Stubs en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	testEmail    = "asociacion@example.com"
	unknownEmail = "nadie@example.com"
	testTenantID = "00000000-0000-0000-0000-00000000000a"
)

type stubTenantRepo struct{}

func (r *stubTenantRepo) GetByEmail(_ context.Context, email string) (*entity.Tenant, error) {
	if email == testEmail {
		return &entity.Tenant{ID: testTenantID, Email: testEmail, Name: "Asociación de Prueba"}, nil
	}
	return nil, nil
}

func (r *stubTenantRepo) Create(_ context.Context, _ *entity.Tenant) error { return nil }

type stubReportRepo struct {
	stats        *repository.OverviewStats
	distribution []repository.CategoryCount
	products     []*repository.ProductWithCategory
}

func (r *stubReportRepo) OverviewStats(_ context.Context, _ string) (*repository.OverviewStats, error) {
	return r.stats, nil
}

func (r *stubReportRepo) CategoryDistribution(_ context.Context, _ string, top int) ([]repository.CategoryCount, error) {
	if len(r.distribution) > top {
		return r.distribution[:top], nil
	}
	return r.distribution, nil
}

func (r *stubReportRepo) ListProductsWithCategory(_ context.Context, _ string) ([]*repository.ProductWithCategory, error) {
	return r.products, nil
}

// stubGenerator captura el prompt recibido y devuelve un texto fijo o un error.
type stubGenerator struct {
	received string
	report   string
	err      error
}

func (g *stubGenerator) GenerateStockReport(_ context.Context, summaryJSON string) (string, error) {
	g.received = summaryJSON
	return g.report, g.err
}

type stubPDFGenerator struct{ called bool }

func (g *stubPDFGenerator) GenerateStockReportPDF(
	_ context.Context, _ string, _ *dto.OverviewStatsDTO, _ *dto.StockSummaryDTO,
) ([]byte, error) {
	g.called = true
	return []byte("%PDF-1.7"), nil
}

func productWithCategory(name string, quantity, minQuantity int64, category string) *repository.ProductWithCategory {
	return &repository.ProductWithCategory{
		Product: entity.Product{
			ID:          name,
			TenantID:    testTenantID,
			Name:        name,
			Price:       decimal.NewFromInt(1000),
			Quantity:    quantity,
			Unit:        "und",
			MinQuantity: minQuantity,
		},
		CategoryName: category,
	}
}

func newUseCase(repo *stubReportRepo, gen *stubGenerator, pdf *stubPDFGenerator) *reports.UseCase {
	var g ports.ReportGenerator
	if gen != nil {
		g = gen
	}
	var p reports.StockReportPDFGenerator
	if pdf != nil {
		p = pdf
	}
	return reports.NewUseCase(&stubTenantRepo{}, repo, g, p)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests StockSummary — partición con corte fijo
// ──────────────────────────────────────────────────────────────────────────────

func TestStockSummary_ParticionPorCorteFijo(t *testing.T) {
	repo := &stubReportRepo{products: []*repository.ProductWithCategory{
		productWithCategory("Agotado", 0, 5, "Granos"),
		productWithCategory("Justo en el corte", 100, 5, "Granos"),
		productWithCategory("Bajo", 40, 5, "Lácteos"),
		productWithCategory("Sobrado", 101, 5, "Lácteos"),
	}}
	uc := newUseCase(repo, nil, nil)

	summary, err := uc.StockSummary(context.Background(), testEmail)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.InStockCount, "solo > 100 cuenta como en stock")
	assert.Equal(t, 2, summary.LowStockCount, "1..100 inclusive es stock bajo")
	assert.Equal(t, 1, summary.OutOfStockCount)
	require.Len(t, summary.CriticalProducts, 3, "críticos = bajos + agotados")
	assert.Equal(t, "Granos", summary.CriticalProducts[0].CategoryName,
		"cada crítico lleva su categoría")
}

// El corte del widget es una constante global: un producto con umbral de
// alerta altísimo pero stock > 100 NO es crítico para el resumen.
func TestStockSummary_IndependienteDelUmbralPorProducto(t *testing.T) {
	repo := &stubReportRepo{products: []*repository.ProductWithCategory{
		productWithCategory("Umbral alto", 150, 500, "Granos"),
	}}
	uc := newUseCase(repo, nil, nil)

	summary, err := uc.StockSummary(context.Background(), testEmail)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.InStockCount)
	assert.Empty(t, summary.CriticalProducts)
}

func TestStockSummary_TenantInexistente_ResumenVacio(t *testing.T) {
	uc := newUseCase(&stubReportRepo{}, nil, nil)
	summary, err := uc.StockSummary(context.Background(), unknownEmail)
	require.NoError(t, err)
	assert.Zero(t, summary.InStockCount)
	assert.Empty(t, summary.CriticalProducts)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Overview y CategoryDistribution
// ──────────────────────────────────────────────────────────────────────────────

func TestOverview_RollupCompleto(t *testing.T) {
	repo := &stubReportRepo{stats: &repository.OverviewStats{
		TotalProducts:     12,
		TotalCategories:   3,
		TotalTransactions: 48,
		StockValue:        decimal.NewFromInt(2_500_000),
	}}
	uc := newUseCase(repo, nil, nil)

	stats, err := uc.Overview(context.Background(), testEmail)
	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalProducts)
	assert.Equal(t, int64(48), stats.TotalTransactions)
	assert.True(t, stats.StockValue.Equal(decimal.NewFromInt(2_500_000)))
}

func TestOverview_TenantInexistente_TodoEnCeros(t *testing.T) {
	uc := newUseCase(&stubReportRepo{}, nil, nil)
	stats, err := uc.Overview(context.Background(), unknownEmail)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalProducts)
	assert.True(t, stats.StockValue.IsZero())
}

func TestCategoryDistribution_Top5Descendente(t *testing.T) {
	repo := &stubReportRepo{distribution: []repository.CategoryCount{
		{Name: "Granos", Count: 9},
		{Name: "Lácteos", Count: 7},
		{Name: "Aseo", Count: 5},
		{Name: "Bebidas", Count: 3},
		{Name: "Carnes", Count: 2},
		{Name: "Otros", Count: 1}, // fuera del top 5
	}}
	uc := newUseCase(repo, nil, nil)

	counts, err := uc.CategoryDistribution(context.Background(), testEmail)
	require.NoError(t, err)
	require.Len(t, counts, 5)
	assert.Equal(t, "Granos", counts[0].Name)
	assert.Equal(t, 9, counts[0].Value)
	assert.Equal(t, "Carnes", counts[4].Name)
}

func TestCategoryDistribution_TenantInexistente_ListaVacia(t *testing.T) {
	uc := newUseCase(&stubReportRepo{}, nil, nil)
	counts, err := uc.CategoryDistribution(context.Background(), unknownEmail)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Generate — reporte IA best-effort
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerate_PasaResumenSerializadoAlColaborador(t *testing.T) {
	repo := &stubReportRepo{products: []*repository.ProductWithCategory{
		productWithCategory("Bajo", 40, 5, "Granos"),
	}}
	gen := &stubGenerator{report: "Reporte ejecutivo de prueba."}
	uc := newUseCase(repo, gen, nil)

	report, err := uc.Generate(context.Background(), testEmail)
	require.NoError(t, err)
	assert.Equal(t, "Reporte ejecutivo de prueba.", report)

	// El colaborador debe recibir el resumen como JSON válido.
	var payload dto.StockSummaryDTO
	require.NoError(t, json.Unmarshal([]byte(gen.received), &payload))
	assert.Equal(t, 1, payload.LowStockCount)
}

func TestGenerate_SinProveedor_Fallback(t *testing.T) {
	uc := newUseCase(&stubReportRepo{}, nil, nil)
	report, err := uc.Generate(context.Background(), testEmail)
	require.NoError(t, err)
	assert.Equal(t, "Proveedor de IA no configurado. No es posible generar el reporte.", report)
}

func TestGenerate_ProveedorFalla_FallbackDescriptivo(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("HTTP 429")}
	uc := newUseCase(&stubReportRepo{}, gen, nil)

	report, err := uc.Generate(context.Background(), testEmail)
	require.NoError(t, err, "la falla del proveedor no se propaga como error")
	assert.Contains(t, report, "Error al generar el reporte")
	assert.Contains(t, report, "HTTP 429")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests GeneratePDF
// ──────────────────────────────────────────────────────────────────────────────

func TestGeneratePDF_InvocaGenerador(t *testing.T) {
	repo := &stubReportRepo{
		stats:    &repository.OverviewStats{TotalProducts: 1, StockValue: decimal.NewFromInt(1000)},
		products: []*repository.ProductWithCategory{productWithCategory("Café", 10, 5, "Granos")},
	}
	pdf := &stubPDFGenerator{}
	uc := newUseCase(repo, nil, pdf)

	out, err := uc.GeneratePDF(context.Background(), testEmail)
	require.NoError(t, err)
	assert.True(t, pdf.called)
	assert.NotEmpty(t, out)
}

func TestGeneratePDF_TenantInexistente_Rechaza(t *testing.T) {
	uc := newUseCase(&stubReportRepo{}, nil, &stubPDFGenerator{})
	_, err := uc.GeneratePDF(context.Background(), unknownEmail)
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
}

func TestGeneratePDF_SinGenerador_Rechaza(t *testing.T) {
	uc := newUseCase(&stubReportRepo{}, nil, nil)
	_, err := uc.GeneratePDF(context.Background(), testEmail)
	assert.Error(t, err)
}

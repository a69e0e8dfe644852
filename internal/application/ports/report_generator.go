package ports

import "context"

// ReportGenerator define el puerto de salida hacia el colaborador de generación
// de texto. Cualquier adaptador (Gemini, Anthropic, mock) debe implementar esta
// interfaz; la aplicación solo conoce este contrato.
type ReportGenerator interface {
	// GenerateStockReport recibe el resumen de stock serializado como JSON y
	// devuelve el reporte en prosa, tal cual lo produce el modelo.
	// El contexto debe llevar timeout para no bloquear el request.
	GenerateStockReport(ctx context.Context, summaryJSON string) (string, error)
}

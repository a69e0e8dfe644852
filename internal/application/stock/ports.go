package stock

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el decremento de stock y la
// entrada del libro se apliquen juntos o ninguno (all-or-nothing).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		transactions repository.TransactionRepository,
	) error) error
}

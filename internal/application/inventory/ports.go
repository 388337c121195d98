package inventory

import (
	"context"

	"github.com/jhoicas/hrims-stock/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Levels       repository.StockLevelRepository
	Transactions repository.StockTransactionRepository
	Requests     repository.RequestRepository
	Transfers    repository.StockTransferRepository
}

// TxRunner ejecuta fn dentro de una unidad atómica: si fn devuelve error no se persiste nada.
// Implementado en infrastructure/postgres y infrastructure/memory.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}

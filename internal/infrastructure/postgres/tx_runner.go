package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendemia/crm-api/internal/application/campaign"
	"github.com/vendemia/crm-api/internal/domain/repository"
)

// Ensure TxRunner implements campaign.TxRunner.
var _ campaign.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunCampaign inicia una transacción, ejecuta fn con un repositorio de campañas
// atado a la tx y hace Commit o Rollback. Sostiene el todo-o-nada de la creación
// de campañas y la atomicidad transición-de-lote + contador.
func (r *TxRunner) RunCampaign(ctx context.Context, fn func(repo repository.CampaignRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewCampaignRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

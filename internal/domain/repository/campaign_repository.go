package repository

import (
	"context"
	"time"

	"github.com/vendemia/crm-api/internal/domain/entity"
)

// CampaignRepository define el puerto de persistencia para campañas y lotes.
// Las transiciones de estado son compare-and-set a nivel de fila y los contadores
// se actualizan con incrementos atómicos en un solo statement, nunca con
// read-modify-write sobre la fila de campaña.
type CampaignRepository interface {
	CreateCampaign(ctx context.Context, c *entity.Campaign) error
	CreateBatch(ctx context.Context, b *entity.CampaignBatch) error
	GetCampaignByID(ctx context.Context, id string) (*entity.Campaign, error)
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Campaign, error)
	GetBatchByID(ctx context.Context, id string) (*entity.CampaignBatch, error)
	ListBatchesByCampaign(ctx context.Context, campaignID string) ([]*entity.CampaignBatch, error)

	// MarkBatchProcessing transiciona pending -> processing. Devuelve el id de la
	// campaña y false si el lote no estaba pending.
	MarkBatchProcessing(ctx context.Context, batchID string) (campaignID string, ok bool, err error)
	// FinishBatch transiciona processing -> sent|failed estampando processed_at.
	// Devuelve false si el lote no estaba processing.
	FinishBatch(ctx context.Context, batchID, status string, processedAt time.Time) (campaignID string, ok bool, err error)
	// RetryBatch transiciona failed -> pending (reintento manual de operador).
	RetryBatch(ctx context.Context, batchID string) (campaignID string, ok bool, err error)

	// IncrementOutcome suma 1 a batches_sent o batches_failed y devuelve la campaña con
	// los contadores ya actualizados (UPDATE ... RETURNING).
	IncrementOutcome(ctx context.Context, campaignID, outcome string) (*entity.Campaign, error)
	// DecrementFailed resta 1 a batches_failed solo si la campaña no está en estado
	// terminal (un reintento no reabre campañas completadas).
	DecrementFailed(ctx context.Context, campaignID string) (bool, error)
	MarkCampaignInProgress(ctx context.Context, campaignID string) error
	MarkCampaignCompleted(ctx context.Context, campaignID string, completedAt time.Time) error
}

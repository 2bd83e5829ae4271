package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vendemia/crm-api/internal/domain/entity"
	"github.com/vendemia/crm-api/internal/domain/repository"
)

var _ repository.CampaignRepository = (*CampaignRepo)(nil)

// CampaignRepo implementación del puerto CampaignRepository sobre PostgreSQL.
// Los snapshots de contactos y los mapeos de plantilla viajan como JSONB; las
// transiciones de estado son compare-and-set en el WHERE y los contadores se
// mueven con incrementos en un solo statement (nunca read-modify-write).
type CampaignRepo struct {
	q Querier
}

// NewCampaignRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCampaignRepository(q Querier) *CampaignRepo {
	return &CampaignRepo{q: q}
}

const campaignColumns = `id, tenant_id, channel, status, total_contacts, total_batches, batches_sent, batches_failed, mappings, created_at, completed_at`

// CreateCampaign persiste la campaña recién lanzada.
func (r *CampaignRepo) CreateCampaign(ctx context.Context, c *entity.Campaign) error {
	query := `
		INSERT INTO campaigns (` + campaignColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.TenantID, c.Channel, c.Status, c.TotalContacts, c.TotalBatches,
		c.BatchesSent, c.BatchesFailed, c.Mappings, c.CreatedAt, c.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

// CreateBatch persiste un lote con su snapshot de contactos.
func (r *CampaignRepo) CreateBatch(ctx context.Context, b *entity.CampaignBatch) error {
	query := `
		INSERT INTO campaign_batches (id, campaign_id, batch_number, total_batches, status, scheduled_for, processed_at, contacts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.CampaignID, b.BatchNumber, b.TotalBatches, b.Status,
		b.ScheduledFor, b.ProcessedAt, b.Contacts,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("batch number %d duplicado en campaña %s: %w", b.BatchNumber, b.CampaignID, err)
		}
		return fmt.Errorf("insert campaign batch: %w", err)
	}
	return nil
}

// GetCampaignByID obtiene una campaña por ID.
func (r *CampaignRepo) GetCampaignByID(ctx context.Context, id string) (*entity.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`
	c, err := scanCampaign(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get campaign by id: %w", err)
	}
	return c, nil
}

// ListByTenant lista campañas por tenant con paginación.
func (r *CampaignRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Campaign, error) {
	query := `
		SELECT ` + campaignColumns + `
		FROM campaigns WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()
	var list []*entity.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

const batchColumns = `id, campaign_id, batch_number, total_batches, status, scheduled_for, processed_at, contacts`

// GetBatchByID obtiene un lote por ID.
func (r *CampaignRepo) GetBatchByID(ctx context.Context, id string) (*entity.CampaignBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM campaign_batches WHERE id = $1`
	b, err := scanBatch(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch by id: %w", err)
	}
	return b, nil
}

// ListBatchesByCampaign lista los lotes de la campaña en orden de batch_number.
func (r *CampaignRepo) ListBatchesByCampaign(ctx context.Context, campaignID string) ([]*entity.CampaignBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM campaign_batches WHERE campaign_id = $1 ORDER BY batch_number`
	rows, err := r.q.Query(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list campaign batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.CampaignBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// MarkBatchProcessing transiciona pending -> processing (CAS en el WHERE).
func (r *CampaignRepo) MarkBatchProcessing(ctx context.Context, batchID string) (string, bool, error) {
	return r.transitionBatch(ctx,
		`UPDATE campaign_batches SET status = 'processing'
		 WHERE id = $1 AND status = 'pending'
		 RETURNING campaign_id`, batchID)
}

// FinishBatch transiciona processing -> sent|failed estampando processed_at.
func (r *CampaignRepo) FinishBatch(ctx context.Context, batchID, status string, processedAt time.Time) (string, bool, error) {
	query := `
		UPDATE campaign_batches SET status = $2, processed_at = $3
		WHERE id = $1 AND status = 'processing'
		RETURNING campaign_id`
	var campaignID string
	err := r.q.QueryRow(ctx, query, batchID, status, processedAt).Scan(&campaignID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("finish batch: %w", err)
	}
	return campaignID, true, nil
}

// RetryBatch transiciona failed -> pending (reintento manual).
func (r *CampaignRepo) RetryBatch(ctx context.Context, batchID string) (string, bool, error) {
	return r.transitionBatch(ctx,
		`UPDATE campaign_batches SET status = 'pending', processed_at = NULL
		 WHERE id = $1 AND status = 'failed'
		 RETURNING campaign_id`, batchID)
}

func (r *CampaignRepo) transitionBatch(ctx context.Context, query, batchID string) (string, bool, error) {
	var campaignID string
	err := r.q.QueryRow(ctx, query, batchID).Scan(&campaignID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("transition batch: %w", err)
	}
	return campaignID, true, nil
}

// IncrementOutcome suma 1 al contador del resultado y devuelve la campaña con los
// contadores ya actualizados. El incremento va en el propio UPDATE: dos lotes que
// terminan a la vez no pueden pisarse el contador.
func (r *CampaignRepo) IncrementOutcome(ctx context.Context, campaignID, outcome string) (*entity.Campaign, error) {
	column := "batches_failed"
	if outcome == entity.BatchSent {
		column = "batches_sent"
	}
	query := fmt.Sprintf(`
		UPDATE campaigns SET %s = %s + 1
		WHERE id = $1
		RETURNING %s`, column, column, campaignColumns)
	c, err := scanCampaign(r.q.QueryRow(ctx, query, campaignID))
	if err != nil {
		return nil, fmt.Errorf("increment campaign counter: %w", err)
	}
	return c, nil
}

// DecrementFailed resta 1 a batches_failed si la campaña sigue abierta.
func (r *CampaignRepo) DecrementFailed(ctx context.Context, campaignID string) (bool, error) {
	query := `
		UPDATE campaigns SET batches_failed = batches_failed - 1
		WHERE id = $1 AND status IN ('pending', 'in_progress') AND batches_failed > 0`
	tag, err := r.q.Exec(ctx, query, campaignID)
	if err != nil {
		return false, fmt.Errorf("decrement campaign failed counter: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkCampaignInProgress pending -> in_progress (primer lote tomado).
func (r *CampaignRepo) MarkCampaignInProgress(ctx context.Context, campaignID string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE campaigns SET status = 'in_progress' WHERE id = $1 AND status = 'pending'`,
		campaignID,
	)
	if err != nil {
		return fmt.Errorf("mark campaign in progress: %w", err)
	}
	return nil
}

// MarkCampaignCompleted cierra la campaña y estampa completed_at.
func (r *CampaignRepo) MarkCampaignCompleted(ctx context.Context, campaignID string, completedAt time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE campaigns SET status = 'completed', completed_at = $2
		 WHERE id = $1 AND status <> 'completed'`,
		campaignID, completedAt,
	)
	if err != nil {
		return fmt.Errorf("mark campaign completed: %w", err)
	}
	return nil
}

func scanCampaign(row rowScanner) (*entity.Campaign, error) {
	var c entity.Campaign
	err := row.Scan(
		&c.ID, &c.TenantID, &c.Channel, &c.Status, &c.TotalContacts, &c.TotalBatches,
		&c.BatchesSent, &c.BatchesFailed, &c.Mappings, &c.CreatedAt, &c.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanBatch(row rowScanner) (*entity.CampaignBatch, error) {
	var b entity.CampaignBatch
	err := row.Scan(
		&b.ID, &b.CampaignID, &b.BatchNumber, &b.TotalBatches, &b.Status,
		&b.ScheduledFor, &b.ProcessedAt, &b.Contacts,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

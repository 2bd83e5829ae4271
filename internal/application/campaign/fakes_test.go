package campaign_test

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/vendemia/crm-api/internal/domain/entity"
	"github.com/vendemia/crm-api/internal/domain/repository"
)

// fakeCampaignRepo implementación en memoria del puerto de campañas, con la misma
// semántica compare-and-set que el adaptador PostgreSQL.
type fakeCampaignRepo struct {
	campaigns map[string]*entity.Campaign
	batches   map[string]*entity.CampaignBatch

	failBatchAt int // si > 0, CreateBatch falla en la n-ésima llamada
	batchCalls  int
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{
		campaigns: make(map[string]*entity.Campaign),
		batches:   make(map[string]*entity.CampaignBatch),
	}
}

func (f *fakeCampaignRepo) CreateCampaign(_ context.Context, c *entity.Campaign) error {
	cp := *c
	f.campaigns[c.ID] = &cp
	return nil
}

func (f *fakeCampaignRepo) CreateBatch(_ context.Context, b *entity.CampaignBatch) error {
	f.batchCalls++
	if f.failBatchAt > 0 && f.batchCalls == f.failBatchAt {
		return errors.New("fallo simulado al insertar lote")
	}
	cp := *b
	f.batches[b.ID] = &cp
	return nil
}

func (f *fakeCampaignRepo) GetCampaignByID(_ context.Context, id string) (*entity.Campaign, error) {
	return f.campaigns[id], nil
}

func (f *fakeCampaignRepo) ListByTenant(_ context.Context, tenantID string, _, _ int) ([]*entity.Campaign, error) {
	var out []*entity.Campaign
	for _, c := range f.campaigns {
		if c.TenantID == tenantID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCampaignRepo) GetBatchByID(_ context.Context, id string) (*entity.CampaignBatch, error) {
	return f.batches[id], nil
}

func (f *fakeCampaignRepo) ListBatchesByCampaign(_ context.Context, campaignID string) ([]*entity.CampaignBatch, error) {
	var out []*entity.CampaignBatch
	for _, b := range f.batches {
		if b.CampaignID == campaignID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BatchNumber < out[j].BatchNumber })
	return out, nil
}

func (f *fakeCampaignRepo) MarkBatchProcessing(_ context.Context, batchID string) (string, bool, error) {
	b, ok := f.batches[batchID]
	if !ok || b.Status != entity.BatchPending {
		return "", false, nil
	}
	b.Status = entity.BatchProcessing
	return b.CampaignID, true, nil
}

func (f *fakeCampaignRepo) FinishBatch(_ context.Context, batchID, status string, processedAt time.Time) (string, bool, error) {
	b, ok := f.batches[batchID]
	if !ok || b.Status != entity.BatchProcessing {
		return "", false, nil
	}
	b.Status = status
	b.ProcessedAt = &processedAt
	return b.CampaignID, true, nil
}

func (f *fakeCampaignRepo) RetryBatch(_ context.Context, batchID string) (string, bool, error) {
	b, ok := f.batches[batchID]
	if !ok || b.Status != entity.BatchFailed {
		return "", false, nil
	}
	b.Status = entity.BatchPending
	b.ProcessedAt = nil
	return b.CampaignID, true, nil
}

func (f *fakeCampaignRepo) IncrementOutcome(_ context.Context, campaignID, outcome string) (*entity.Campaign, error) {
	c, ok := f.campaigns[campaignID]
	if !ok {
		return nil, errors.New("campaña no encontrada")
	}
	if outcome == entity.BatchSent {
		c.BatchesSent++
	} else {
		c.BatchesFailed++
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCampaignRepo) DecrementFailed(_ context.Context, campaignID string) (bool, error) {
	c, ok := f.campaigns[campaignID]
	if !ok || c.Status == entity.CampaignCompleted || c.Status == entity.CampaignFailed || c.BatchesFailed == 0 {
		return false, nil
	}
	c.BatchesFailed--
	return true, nil
}

func (f *fakeCampaignRepo) MarkCampaignInProgress(_ context.Context, campaignID string) error {
	c, ok := f.campaigns[campaignID]
	if ok && c.Status == entity.CampaignPending {
		c.Status = entity.CampaignInProgress
	}
	return nil
}

func (f *fakeCampaignRepo) MarkCampaignCompleted(_ context.Context, campaignID string, completedAt time.Time) error {
	c, ok := f.campaigns[campaignID]
	if ok && c.Status != entity.CampaignCompleted {
		c.Status = entity.CampaignCompleted
		c.CompletedAt = &completedAt
	}
	return nil
}

// fakeTxRunner ejecuta fn directamente contra el repo en memoria. Si fn falla,
// descarta las escrituras hechas durante la "transacción" (rollback simulado).
type fakeTxRunner struct {
	repo *fakeCampaignRepo
}

func (t *fakeTxRunner) RunCampaign(ctx context.Context, fn func(repo repository.CampaignRepository) error) error {
	snapCampaigns := make(map[string]*entity.Campaign, len(t.repo.campaigns))
	for k, v := range t.repo.campaigns {
		cp := *v
		snapCampaigns[k] = &cp
	}
	snapBatches := make(map[string]*entity.CampaignBatch, len(t.repo.batches))
	for k, v := range t.repo.batches {
		cp := *v
		snapBatches[k] = &cp
	}
	if err := fn(t.repo); err != nil {
		t.repo.campaigns = snapCampaigns
		t.repo.batches = snapBatches
		return err
	}
	return nil
}

package usecase

import (
	"context"

	"github.com/vendemia/crm-api/internal/application/authz"
	appcampaign "github.com/vendemia/crm-api/internal/application/campaign"
	"github.com/vendemia/crm-api/internal/application/dto"
	"github.com/vendemia/crm-api/internal/domain"
	"github.com/vendemia/crm-api/internal/domain/entity"
	"github.com/vendemia/crm-api/internal/domain/repository"
)

// CampaignUseCase capa fina entre la API y el orquestador: resuelve la selección
// de contactos bajo visibilidad, congela los snapshots y delega el ciclo de vida.
type CampaignUseCase struct {
	contacts         repository.ContactRepository
	campaigns        repository.CampaignRepository
	orch             *appcampaign.Orchestrator
	guard            *authz.TenantGuard
	visibility       *authz.VisibilityFilter
	defaultBatchSize int
}

// NewCampaignUseCase construye el caso de uso.
func NewCampaignUseCase(
	contacts repository.ContactRepository,
	campaigns repository.CampaignRepository,
	orch *appcampaign.Orchestrator,
	guard *authz.TenantGuard,
	visibility *authz.VisibilityFilter,
	defaultBatchSize int,
) *CampaignUseCase {
	return &CampaignUseCase{
		contacts:         contacts,
		campaigns:        campaigns,
		orch:             orch,
		guard:            guard,
		visibility:       visibility,
		defaultBatchSize: defaultBatchSize,
	}
}

// Create valida los mapeos (falla rápido, antes del orquestador), resuelve la
// selección dentro del tenant y bajo la visibilidad del actor, y lanza la campaña.
func (uc *CampaignUseCase) Create(ctx context.Context, scope authz.UserScope, in dto.CreateCampaignRequest) (*dto.CampaignResponse, error) {
	mappings := toEntityMappings(in.Mappings)
	if err := appcampaign.ValidateMappings(mappings); err != nil {
		return nil, err
	}
	if len(in.ContactIDs) == 0 {
		return nil, &domain.ValidationError{Field: "contact_ids", Reason: "la selección de contactos está vacía"}
	}
	batchSize := in.BatchSize
	if batchSize <= 0 {
		batchSize = uc.defaultBatchSize
	}

	contacts, err := uc.contacts.GetByIDs(ctx, scope.TenantID, in.ContactIDs)
	if err != nil {
		return nil, err
	}
	if len(contacts) != len(in.ContactIDs) {
		return nil, &domain.ValidationError{Field: "contact_ids", Reason: "la selección contiene contactos inexistentes"}
	}
	// La denegación es explícita: un contacto fuera de visibilidad rechaza el
	// lanzamiento completo, nunca se recorta en silencio la selección.
	snapshots := make([]entity.CampaignContactSnapshot, 0, len(contacts))
	for _, c := range contacts {
		if !uc.visibility.CanSeeContact(c, scope) {
			return nil, &domain.AccessDeniedError{Reason: "la selección contiene contactos fuera de tu visibilidad"}
		}
		snapshots = append(snapshots, entity.CampaignContactSnapshot{
			ID:         c.ID,
			Nombre:     c.Nombre,
			Numero:     c.Numero,
			Attributes: c.Attributes,
		})
	}

	camp, err := uc.orch.CreateCampaign(ctx, appcampaign.CreateCampaignInput{
		TenantID:  scope.TenantID,
		Channel:   in.Channel,
		Selection: snapshots,
		Mappings:  mappings,
		BatchSize: batchSize,
	})
	if err != nil {
		return nil, err
	}
	return toCampaignResponse(camp), nil
}

// Get devuelve una campaña del tenant del solicitante con su progreso.
func (uc *CampaignUseCase) Get(ctx context.Context, scope authz.UserScope, id string) (*dto.CampaignResponse, error) {
	camp, err := uc.fetchGuarded(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	return toCampaignResponse(camp), nil
}

// List lista las campañas del tenant del solicitante.
func (uc *CampaignUseCase) List(ctx context.Context, scope authz.UserScope, page dto.PageRequest) ([]*dto.CampaignResponse, error) {
	page.DefaultPage()
	list, err := uc.campaigns.ListByTenant(ctx, scope.TenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CampaignResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCampaignResponse(c))
	}
	return out, nil
}

// Batches lista los lotes de una campaña del tenant del solicitante.
func (uc *CampaignUseCase) Batches(ctx context.Context, scope authz.UserScope, campaignID string) ([]*dto.BatchResponse, error) {
	if _, err := uc.fetchGuarded(ctx, scope, campaignID); err != nil {
		return nil, err
	}
	batches, err := uc.campaigns.ListBatchesByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, &dto.BatchResponse{
			ID:           b.ID,
			BatchNumber:  b.BatchNumber,
			TotalBatches: b.TotalBatches,
			Status:       b.Status,
			ContactCount: len(b.Contacts),
			ScheduledFor: b.ScheduledFor,
			ProcessedAt:  b.ProcessedAt,
		})
	}
	return out, nil
}

// RetryBatch reintento manual de un lote fallido de una campaña del tenant.
func (uc *CampaignUseCase) RetryBatch(ctx context.Context, scope authz.UserScope, campaignID, batchID string) error {
	if _, err := uc.fetchGuarded(ctx, scope, campaignID); err != nil {
		return err
	}
	batch, err := uc.campaigns.GetBatchByID(ctx, batchID)
	if err != nil {
		return err
	}
	if batch == nil || batch.CampaignID != campaignID {
		return domain.ErrNotFound
	}
	return uc.orch.RetryBatch(ctx, batchID)
}

func (uc *CampaignUseCase) fetchGuarded(ctx context.Context, scope authz.UserScope, id string) (*entity.Campaign, error) {
	camp, err := uc.campaigns.GetCampaignByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if camp == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.guard.AssertTenantAccess(camp.TenantID, scope, "campaña"); err != nil {
		return nil, err
	}
	return camp, nil
}

func toEntityMappings(in []dto.MappingDTO) []entity.TemplateVariableMapping {
	out := make([]entity.TemplateVariableMapping, 0, len(in))
	for _, m := range in {
		out = append(out, entity.TemplateVariableMapping{
			Position:     m.Position,
			VariableName: m.VariableName,
			Source:       m.Source,
			Value:        m.Value,
		})
	}
	return out
}

func toCampaignResponse(c *entity.Campaign) *dto.CampaignResponse {
	return &dto.CampaignResponse{
		ID:            c.ID,
		Channel:       c.Channel,
		Status:        c.Status,
		TotalContacts: c.TotalContacts,
		TotalBatches:  c.TotalBatches,
		BatchesSent:   c.BatchesSent,
		BatchesFailed: c.BatchesFailed,
		Progress:      appcampaign.Progress(c),
		CreatedAt:     c.CreatedAt,
		CompletedAt:   c.CompletedAt,
	}
}

package campaign

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/vendemia/crm-api/internal/domain"
	"github.com/vendemia/crm-api/internal/domain/entity"
	"github.com/vendemia/crm-api/internal/domain/repository"
)

// Config parámetros del orquestador.
type Config struct {
	// BatchInterval separación entre el scheduled_for de lotes consecutivos.
	BatchInterval time.Duration
}

// Orchestrator parte una selección de contactos en lotes ordenados y lleva su
// ciclo de vida hasta el cierre de la campaña. La entrega física de mensajes
// es de un sistema externo que reporta resultados vía RecordBatchOutcome.
type Orchestrator struct {
	repo repository.CampaignRepository
	tx   TxRunner
	cfg  Config
}

// NewOrchestrator construye el orquestador.
func NewOrchestrator(repo repository.CampaignRepository, tx TxRunner, cfg Config) *Orchestrator {
	return &Orchestrator{repo: repo, tx: tx, cfg: cfg}
}

// CreateCampaignInput selección congelada y parámetros de lanzamiento.
type CreateCampaignInput struct {
	TenantID  string
	Channel   string
	Selection []entity.CampaignContactSnapshot
	Mappings  []entity.TemplateVariableMapping
	BatchSize int
}

// CreateCampaign congela la selección en snapshots, la parte en lotes contiguos de
// BatchSize (el último puede ser menor) y persiste campaña y lotes en una sola
// transacción. Si cualquier lote falla al persistir, TODO hace rollback y el
// llamador recibe BatchCreationError: una campaña jamás existe con lotes parciales.
func (o *Orchestrator) CreateCampaign(ctx context.Context, in CreateCampaignInput) (*entity.Campaign, error) {
	if in.Channel != entity.ChannelWhatsApp && in.Channel != entity.ChannelCalls {
		return nil, &domain.ValidationError{Field: "channel", Reason: fmt.Sprintf("canal %q no soportado", in.Channel)}
	}
	if in.BatchSize <= 0 {
		return nil, &domain.ValidationError{Field: "batch_size", Reason: "debe ser mayor que cero"}
	}
	if len(in.Selection) == 0 {
		return nil, &domain.ValidationError{Field: "contact_ids", Reason: "la selección de contactos está vacía"}
	}
	if err := ValidateMappings(in.Mappings); err != nil {
		return nil, err
	}

	total := len(in.Selection)
	totalBatches := (total + in.BatchSize - 1) / in.BatchSize
	now := time.Now().UTC()

	camp := &entity.Campaign{
		ID:            uuid.New().String(),
		TenantID:      in.TenantID,
		Channel:       in.Channel,
		Status:        entity.CampaignPending,
		TotalContacts: total,
		TotalBatches:  totalBatches,
		Mappings:      in.Mappings,
		CreatedAt:     now,
	}

	err := o.tx.RunCampaign(ctx, func(repo repository.CampaignRepository) error {
		if err := repo.CreateCampaign(ctx, camp); err != nil {
			return err
		}
		for i := 0; i < totalBatches; i++ {
			lo := i * in.BatchSize
			hi := lo + in.BatchSize
			if hi > total {
				hi = total
			}
			batch := &entity.CampaignBatch{
				ID:           uuid.New().String(),
				CampaignID:   camp.ID,
				BatchNumber:  i + 1,
				TotalBatches: totalBatches,
				Status:       entity.BatchPending,
				ScheduledFor: now.Add(time.Duration(i) * o.cfg.BatchInterval),
				Contacts:     in.Selection[lo:hi],
			}
			if err := repo.CreateBatch(ctx, batch); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, &domain.BatchCreationError{CampaignID: camp.ID, Cause: err}
	}
	return camp, nil
}

// MarkBatchProcessing registra que el sistema de entrega tomó el lote:
// pending -> processing, y la campaña pasa a in_progress con el primer lote tomado.
func (o *Orchestrator) MarkBatchProcessing(ctx context.Context, batchID string) error {
	campaignID, ok, err := o.repo.MarkBatchProcessing(ctx, batchID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrConflict
	}
	return o.repo.MarkCampaignInProgress(ctx, campaignID)
}

// RecordBatchOutcome transiciona el lote de processing al estado terminal reportado
// e incrementa atómicamente el contador correspondiente de la campaña, todo en una
// transacción. Cuando sent+failed alcanza el total, la campaña pasa a completed y se
// estampa completed_at; "completed" cubre campañas con lotes fallidos (no existe un
// terminal mixto aparte).
func (o *Orchestrator) RecordBatchOutcome(ctx context.Context, batchID, outcome string, processedAt time.Time) error {
	if outcome != entity.BatchSent && outcome != entity.BatchFailed {
		return &domain.ValidationError{Field: "outcome", Reason: fmt.Sprintf("resultado %q desconocido", outcome)}
	}
	return o.tx.RunCampaign(ctx, func(repo repository.CampaignRepository) error {
		campaignID, ok, err := repo.FinishBatch(ctx, batchID, outcome, processedAt)
		if err != nil {
			return err
		}
		if !ok {
			// Lote inexistente o fuera de processing: resultado duplicado o fuera de orden.
			return domain.ErrConflict
		}
		camp, err := repo.IncrementOutcome(ctx, campaignID, outcome)
		if err != nil {
			return err
		}
		if camp.BatchesSent+camp.BatchesFailed == camp.TotalBatches {
			return repo.MarkCampaignCompleted(ctx, campaignID, processedAt)
		}
		return nil
	})
}

// RetryBatch reintento manual de operador: failed -> pending, descontando el
// contador batches_failed. No hay reintento automático, y una campaña ya
// completada no se reabre (el reintento se rechaza con ErrConflict).
func (o *Orchestrator) RetryBatch(ctx context.Context, batchID string) error {
	return o.tx.RunCampaign(ctx, func(repo repository.CampaignRepository) error {
		campaignID, ok, err := repo.RetryBatch(ctx, batchID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		applied, err := repo.DecrementFailed(ctx, campaignID)
		if err != nil {
			return err
		}
		if !applied {
			return domain.ErrConflict
		}
		return nil
	})
}

// Progress porcentaje de lotes enviados, redondeado. 0 cuando la campaña no tiene
// lotes (saturación, sin división por cero).
func Progress(c *entity.Campaign) int {
	if c.TotalBatches == 0 {
		return 0
	}
	return int(math.Round(100 * float64(c.BatchesSent) / float64(c.TotalBatches)))
}

package campaign

import (
	"context"

	"github.com/vendemia/crm-api/internal/domain/repository"
)

// TxRunner ejecuta fn con un CampaignRepository atado a una transacción.
// Si fn devuelve error se hace rollback completo: una campaña nunca queda con
// un conjunto parcial de lotes, y la transición de lote más el incremento de
// contador del resultado son atómicos entre sí.
type TxRunner interface {
	RunCampaign(ctx context.Context, fn func(repo repository.CampaignRepository) error) error
}

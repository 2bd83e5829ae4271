package entity

import "time"

// Canales de envío de campaña.
const (
	ChannelWhatsApp = "whatsapp"
	ChannelCalls    = "calls"
)

// Estados de campaña. La campaña solo transiciona hacia adelante; "completed"
// cubre también campañas con lotes fallidos (no existe un terminal mixto aparte).
const (
	CampaignPending    = "pending"
	CampaignInProgress = "in_progress"
	CampaignCompleted  = "completed"
	CampaignFailed     = "failed" // solo por aborto explícito de operador, nunca automático
)

// Estados de lote: pending -> processing -> {sent | failed}.
// failed puede volver a pending por reintento manual de operador.
const (
	BatchPending    = "pending"
	BatchProcessing = "processing"
	BatchSent       = "sent"
	BatchFailed     = "failed"
)

// Campaign se crea una sola vez, al lanzamiento, desde una selección congelada
// de contactos. Invariantes:
//   - TotalBatches == ceil(TotalContacts / batchSize vigente al lanzar)
//   - BatchesSent + BatchesFailed <= TotalBatches en todo momento
//   - status == completed sii BatchesSent+BatchesFailed == TotalBatches
type Campaign struct {
	ID            string
	TenantID      string
	Channel       string // whatsapp, calls
	Status        string
	TotalContacts int
	TotalBatches  int
	BatchesSent   int
	BatchesFailed int
	Mappings      []TemplateVariableMapping // persistidas en la campaña para auditoría
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

// CampaignBatch lote de contactos con número contiguo 1..TotalBatches, único por campaña.
// La lista de contactos es un snapshot inmutable tomado al crear el lote: la campaña
// es reproducible aunque el contacto original cambie después.
type CampaignBatch struct {
	ID           string
	CampaignID   string
	BatchNumber  int
	TotalBatches int
	Status       string
	ScheduledFor time.Time
	ProcessedAt  *time.Time
	Contacts     []CampaignContactSnapshot
}

// CampaignContactSnapshot copia de los campos del contacto al momento de crear el lote.
type CampaignContactSnapshot struct {
	ID         string            `json:"id"`
	Nombre     string            `json:"nombre"`
	Numero     string            `json:"numero"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

package dto

import "time"

// MappingDTO mapeo de una posición de plantilla a su fuente de valor.
type MappingDTO struct {
	Position     int    `json:"position"`
	VariableName string `json:"variable_name"`
	Source       string `json:"source"` // fixed_field, custom_field, static_value
	Value        string `json:"value"`
}

// CreateCampaignRequest lanzamiento de una campaña sobre una selección de contactos.
type CreateCampaignRequest struct {
	Channel    string       `json:"channel"` // whatsapp, calls
	ContactIDs []string     `json:"contact_ids"`
	Mappings   []MappingDTO `json:"mappings"`
	BatchSize  int          `json:"batch_size"` // 0 = usar el por defecto configurado
}

// CampaignResponse estado de una campaña con su progreso calculado.
type CampaignResponse struct {
	ID            string     `json:"id"`
	Channel       string     `json:"channel"`
	Status        string     `json:"status"`
	TotalContacts int        `json:"total_contacts"`
	TotalBatches  int        `json:"total_batches"`
	BatchesSent   int        `json:"batches_sent"`
	BatchesFailed int        `json:"batches_failed"`
	Progress      int        `json:"progress"` // porcentaje 0..100
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at"`
}

// BatchResponse estado de un lote (sin el snapshot completo de contactos).
type BatchResponse struct {
	ID           string     `json:"id"`
	BatchNumber  int        `json:"batch_number"`
	TotalBatches int        `json:"total_batches"`
	Status       string     `json:"status"`
	ContactCount int        `json:"contact_count"`
	ScheduledFor time.Time  `json:"scheduled_for"`
	ProcessedAt  *time.Time `json:"processed_at"`
}

// BatchOutcomeRequest reporte del sistema externo de entrega sobre un lote.
type BatchOutcomeRequest struct {
	Outcome     string     `json:"outcome"` // sent, failed
	ProcessedAt *time.Time `json:"processed_at"`
}

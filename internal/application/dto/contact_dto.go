package dto

import "time"

// ListContactsRequest parámetros de listado de contactos. La visibilidad por rol
// se aplica del lado del servidor; estos filtros solo estrechan dentro de lo visible.
type ListContactsRequest struct {
	Search   string `query:"search"`
	StatusID string `query:"status_id"`
	PageRequest
}

// ContactResponse representación pública de un contacto.
type ContactResponse struct {
	ID         string            `json:"id"`
	Nombre     string            `json:"nombre"`
	Numero     string            `json:"numero"`
	LocationID *string           `json:"location_id"`
	AssignedTo *string           `json:"assigned_to"`
	StatusID   string            `json:"status_id"`
	Attributes map[string]string `json:"attributes,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// AssignContactRequest asignación de un contacto a un comercial.
type AssignContactRequest struct {
	UserID string `json:"user_id"`
}

// VisibleIDsResponse resultado de la materialización de ids visibles.
// restricted=false significa "sin restricción" (no filtrar), no conjunto vacío.
type VisibleIDsResponse struct {
	Restricted bool     `json:"restricted"`
	IDs        []string `json:"ids,omitempty"`
}

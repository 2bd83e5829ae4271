package entity

import "time"

// Contact representa un contacto/lead del tenant. La UI del CRM lo muta libremente;
// este núcleo solo lee los campos de visibilidad y escribe la asignación.
type Contact struct {
	ID         string
	TenantID   string
	Nombre     string
	Numero     string // teléfono en formato E.164
	LocationID *string
	AssignedTo *string // id del comercial asignado
	StatusID   string
	Attributes map[string]string // campos personalizados (JSONB)
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

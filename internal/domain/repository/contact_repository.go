package repository

import (
	"context"

	"github.com/vendemia/crm-api/internal/domain/entity"
)

// ContactFilter predicados componibles para consultas de contactos. El filtro de
// visibilidad (authz) lo estrecha antes de llegar al adaptador de persistencia,
// que lo traduce a WHERE; la regla de autorización nunca vive en SQL.
type ContactFilter struct {
	TenantID string
	// Search término ya normalizado (sin acentos, minúsculas) contra nombre/número.
	Search   string
	StatusID *string
	// AssignedTo restringe a contactos asignados a ese usuario (rol comercial).
	AssignedTo *string
	// LocationID restringe a la sede indicada (rol director_sede). Un puntero a cadena
	// vacía no casa con ninguna fila (director de sede sin sede configurada).
	LocationID *string
	// IncludeUnassignedLocation junto con LocationID, admite también location_id IS NULL.
	IncludeUnassignedLocation bool
	Limit                     int
	Offset                    int
}

// ContactRepository define el puerto de persistencia para Contact.
type ContactRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Contact, error)
	// GetByIDs resuelve una selección de contactos dentro de un tenant (para snapshots de campaña).
	GetByIDs(ctx context.Context, tenantID string, ids []string) ([]*entity.Contact, error)
	List(ctx context.Context, f ContactFilter) ([]*entity.Contact, error)
	// ListIDs devuelve como máximo cap ids que cumplen el filtro. El recorte al
	// superar cap es silencioso: limitación documentada, no garantía de corrección.
	ListIDs(ctx context.Context, f ContactFilter, cap int) ([]string, error)
	Assign(ctx context.Context, contactID, userID string) error
}

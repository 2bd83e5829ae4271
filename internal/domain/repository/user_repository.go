package repository

import (
	"context"

	"github.com/vendemia/crm-api/internal/domain/entity"
	"github.com/vendemia/crm-api/internal/domain/hierarchy"
)

// RoleUpdate nuevo estado comercial a persistir sobre un usuario.
type RoleUpdate struct {
	ComercialRole *hierarchy.Role // nil revoca el rol
	LocationID    *string
	ExternalID    *string
}

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.User, error)
	// UpdateComercialRole aplica el cambio de rol solo si el rol comercial actual del
	// objetivo sigue siendo expectedCurrent (compare-and-set sobre la fila): dos
	// otorgamientos concurrentes validados contra el mismo estado no pueden ganar ambos.
	// Devuelve false si la precondición ya no se cumple.
	UpdateComercialRole(ctx context.Context, targetID string, expectedCurrent *hierarchy.Role, update RoleUpdate) (bool, error)
}

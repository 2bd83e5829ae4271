package usecase

import (
	"context"

	"github.com/vendemia/crm-api/internal/application/auth"
	"github.com/vendemia/crm-api/internal/application/authz"
	"github.com/vendemia/crm-api/internal/application/dto"
	"github.com/vendemia/crm-api/internal/domain"
	"github.com/vendemia/crm-api/internal/domain/hierarchy"
	"github.com/vendemia/crm-api/internal/domain/repository"
)

// ComercialUseCase gestión del equipo comercial: listado, roles asignables y
// cambio de rol validado por la jerarquía.
type ComercialUseCase struct {
	users repository.UserRepository
	guard *authz.TenantGuard
}

// NewComercialUseCase construye el caso de uso.
func NewComercialUseCase(users repository.UserRepository, guard *authz.TenantGuard) *ComercialUseCase {
	return &ComercialUseCase{users: users, guard: guard}
}

// List lista los usuarios del tenant del solicitante.
func (uc *ComercialUseCase) List(ctx context.Context, scope authz.UserScope, page dto.PageRequest) ([]*dto.UserResponse, error) {
	page.DefaultPage()
	list, err := uc.users.ListByTenant(ctx, scope.TenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, auth.ToUserResponse(u))
	}
	return out, nil
}

// AssignableRoles roles que el solicitante puede ofrecer en un selector:
// solo los de rango estrictamente mayor que el suyo.
func (uc *ComercialUseCase) AssignableRoles(scope authz.UserScope) []string {
	roles := hierarchy.AssignableRoles(scope.Rank())
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

// UpdateRole valida y aplica un cambio de rol comercial. La persistencia es un
// compare-and-set contra el rol con el que se validó: si otro otorgamiento
// concurrente ganó, se responde ErrConflict y el cliente debe recargar.
func (uc *ComercialUseCase) UpdateRole(ctx context.Context, scope authz.UserScope, targetID string, in dto.UpdateRoleRequest) (*dto.UserResponse, error) {
	target, err := uc.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.guard.AssertTenantAccess(target.TenantID, scope, "usuario"); err != nil {
		return nil, err
	}

	var requested *hierarchy.Role
	if in.ComercialRole != nil {
		r := hierarchy.Role(*in.ComercialRole)
		requested = &r
	}
	if err := authz.ValidateAssignment(scope, authz.AssignmentRequest{
		TargetCurrentRole: target.ComercialRole,
		RequestedRole:     requested,
		RequestedLocation: in.LocationID,
		ExternalID:        in.ExternalID,
	}); err != nil {
		return nil, err
	}

	applied, err := uc.users.UpdateComercialRole(ctx, targetID, target.ComercialRole, repository.RoleUpdate{
		ComercialRole: requested,
		LocationID:    in.LocationID,
		ExternalID:    in.ExternalID,
	})
	if err != nil {
		return nil, err
	}
	if !applied {
		// El rol del objetivo cambió entre la validación y la escritura.
		return nil, domain.ErrConflict
	}

	updated, err := uc.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return auth.ToUserResponse(updated), nil
}

// Package authz implementa el núcleo de autorización: resolución de alcance,
// aislamiento de tenant, visibilidad de contactos y validación de cambios de rol.
// El alcance (UserScope) se construye una vez por petición y se pasa explícito
// como parámetro: no existe contexto de autenticación global ni ambiente.
package authz

import (
	"context"

	"github.com/vendemia/crm-api/internal/domain"
	"github.com/vendemia/crm-api/internal/domain/entity"
	"github.com/vendemia/crm-api/internal/domain/hierarchy"
	"github.com/vendemia/crm-api/internal/domain/repository"
)

// UserScope identidad efectiva del solicitante durante una petición.
// Inmutable una vez resuelto; nunca se persiste.
type UserScope struct {
	UserID        string
	TenantID      string // vacío solo para super admins
	IsSuperAdmin  bool
	ComercialRole *hierarchy.Role // nil = dueño/admin del tenant, sin restricción
	LocationID    *string
}

// Rank rango jerárquico del solicitante (menor = más poder).
func (s UserScope) Rank() int {
	return hierarchy.Rank(s.ComercialRole)
}

// ScopeResolver deriva el UserScope desde el perfil persistido del usuario de sesión.
type ScopeResolver struct {
	users repository.UserRepository
}

// NewScopeResolver construye el resolutor con el puerto de perfiles.
func NewScopeResolver(users repository.UserRepository) *ScopeResolver {
	return &ScopeResolver{users: users}
}

// ResolveScope resuelve el alcance del usuario autenticado. Lectura pura, sin efectos.
//   - ErrAuthentication si no hay id de sesión.
//   - ErrProfileNotFound si no existe fila de perfil.
//   - ErrMissingTenant si el perfil no tiene tenant y no es super admin
//     (a los super admins se les permite tenant nulo).
func (r *ScopeResolver) ResolveScope(ctx context.Context, sessionUserID string) (UserScope, error) {
	if sessionUserID == "" {
		return UserScope{}, domain.ErrAuthentication
	}
	u, err := r.users.GetByID(ctx, sessionUserID)
	if err != nil {
		return UserScope{}, err
	}
	if u == nil {
		return UserScope{}, domain.ErrProfileNotFound
	}
	if u.TenantID == "" && !u.IsSuperAdmin() {
		return UserScope{}, domain.ErrMissingTenant
	}
	return scopeFromUser(u), nil
}

func scopeFromUser(u *entity.User) UserScope {
	return UserScope{
		UserID:        u.ID,
		TenantID:      u.TenantID,
		IsSuperAdmin:  u.IsSuperAdmin(),
		ComercialRole: u.ComercialRole,
		LocationID:    u.LocationID,
	}
}

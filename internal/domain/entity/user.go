package entity

import (
	"time"

	"github.com/vendemia/crm-api/internal/domain/hierarchy"
)

// Roles de cuenta (ortogonales al rol comercial).
const (
	AccountRoleUserClient = "user_client"
	AccountRoleSuperAdmin = "super_admin"
)

// User representa un usuario del sistema (pertenece a un Tenant, salvo super admins).
// El rol comercial y la sede solo se mutan vía operaciones validadas por
// RoleAssignmentValidator; ExternalID es el identificador de conciliación con el
// CRM externo y es obligatorio en todo otorgamiento de rol comercial.
type User struct {
	ID            string
	TenantID      string // vacío solo para super_admin
	Email         string
	PasswordHash  string // bcrypt hash, nunca plano en dominio después de persistir
	FullName      string
	AccountRole   string // user_client, super_admin
	ComercialRole *hierarchy.Role
	LocationID    *string // sede; obligatoria para director_sede
	ExternalID    *string
	Status        string // active, inactive, suspended
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsSuperAdmin reporta si la cuenta es super admin de plataforma.
func (u *User) IsSuperAdmin() bool {
	return u.AccountRole == AccountRoleSuperAdmin
}

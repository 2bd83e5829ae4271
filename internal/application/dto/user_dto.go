package dto

import "time"

// RegisterRequest alta de usuario dentro de un tenant.
type RegisterRequest struct {
	TenantID string `json:"tenant_id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse representación pública de un usuario.
type UserResponse struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenant_id,omitempty"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	AccountRole   string    `json:"account_role"`
	ComercialRole *string   `json:"comercial_role"`
	LocationID    *string   `json:"location_id"`
	ExternalID    *string   `json:"external_id"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LoginResponse token y usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UpdateRoleRequest cambio de rol comercial sobre un usuario objetivo.
// comercial_role null revoca el rol.
type UpdateRoleRequest struct {
	ComercialRole *string `json:"comercial_role"`
	LocationID    *string `json:"location_id"`
	ExternalID    *string `json:"external_id"`
}

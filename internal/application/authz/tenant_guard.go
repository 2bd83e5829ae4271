package authz

import (
	"github.com/vendemia/crm-api/internal/domain"
	"github.com/vendemia/crm-api/pkg/logger"
)

// TenantGuard hace cumplir el aislamiento entre organizaciones. Es el único
// componente autorizado a registrar en el hot path de autorización: las
// violaciones de aislamiento dejan rastro auditable independiente de lo que el
// llamador haga con el error; las denegaciones ordinarias no se registran aquí.
type TenantGuard struct {
	log *logger.Logger
}

// NewTenantGuard construye el guard con el logger de seguridad.
func NewTenantGuard(log *logger.Logger) *TenantGuard {
	return &TenantGuard{log: log}
}

// AssertTenantAccess verifica que el recurso pertenezca al tenant del solicitante.
// No-op para super admins. Ante una discrepancia emite un registro estructurado
// de violación de seguridad y devuelve AccessDeniedError.
func (g *TenantGuard) AssertTenantAccess(resourceTenantID string, scope UserScope, resourceType string) error {
	if scope.IsSuperAdmin {
		return nil
	}
	if resourceTenantID == scope.TenantID {
		return nil
	}
	g.log.Warn().
		Str("event", "tenant_isolation_violation").
		Str("user_id", scope.UserID).
		Str("scope_tenant_id", scope.TenantID).
		Str("resource_tenant_id", resourceTenantID).
		Str("resource_type", resourceType).
		Msg("acceso a recurso de otra organización bloqueado")
	return &domain.AccessDeniedError{Resource: resourceType}
}

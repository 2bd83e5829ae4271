package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendemia/crm-api/internal/application/authz"
	"github.com/vendemia/crm-api/internal/domain"
	"github.com/vendemia/crm-api/pkg/logger"
)

func TestAssertTenantAccess_MismoTenant(t *testing.T) {
	guard := authz.NewTenantGuard(logger.NewNop())
	scope := authz.UserScope{UserID: "u1", TenantID: "t1"}

	assert.NoError(t, guard.AssertTenantAccess("t1", scope, "contacto"))
}

func TestAssertTenantAccess_TenantDistinto_Deniega(t *testing.T) {
	guard := authz.NewTenantGuard(logger.NewNop())
	scope := authz.UserScope{UserID: "u1", TenantID: "t1"}

	err := guard.AssertTenantAccess("t2", scope, "contacto")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
	assert.Contains(t, err.Error(), "contacto no pertenece a tu organización")
}

// Un super admin nunca es bloqueado por tenant, incluso sin tenant propio.
func TestAssertTenantAccess_SuperAdminPasaSiempre(t *testing.T) {
	guard := authz.NewTenantGuard(logger.NewNop())
	scope := authz.UserScope{UserID: "sa", IsSuperAdmin: true}

	assert.NoError(t, guard.AssertTenantAccess("t1", scope, "campaña"))
	assert.NoError(t, guard.AssertTenantAccess("t2", scope, "campaña"))
}

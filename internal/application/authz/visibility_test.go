package authz_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendemia/crm-api/internal/application/authz"
	"github.com/vendemia/crm-api/internal/domain/entity"
	"github.com/vendemia/crm-api/internal/domain/hierarchy"
	"github.com/vendemia/crm-api/internal/domain/repository"
)

// escenario estándar: un tenant con dos sedes, un contacto sin sede y contactos
// asignados a distintos comerciales.
func contactsFixture() *fakeContactRepo {
	return &fakeContactRepo{contacts: []*entity.Contact{
		{ID: "c1", TenantID: "t1", LocationID: strPtr("sede-A"), AssignedTo: strPtr("com1")},
		{ID: "c2", TenantID: "t1", LocationID: strPtr("sede-A"), AssignedTo: strPtr("com2")},
		{ID: "c3", TenantID: "t1", LocationID: strPtr("sede-B"), AssignedTo: strPtr("com1")},
		{ID: "c4", TenantID: "t1", LocationID: nil, AssignedTo: nil},
		{ID: "c5", TenantID: "t2", LocationID: strPtr("sede-A"), AssignedTo: strPtr("com1")},
	}}
}

func newFilter(includeUnassigned bool, repo *fakeContactRepo) *authz.VisibilityFilter {
	return authz.NewVisibilityFilter(authz.VisibilityConfig{
		IncludeUnassignedInSede: includeUnassigned,
		VisibleIDsCap:           5000,
	}, repo)
}

func listVisible(t *testing.T, v *authz.VisibilityFilter, repo *fakeContactRepo, scope authz.UserScope) []string {
	t.Helper()
	f := v.ApplyVisibility(repository.ContactFilter{}, scope)
	contacts, err := repo.List(context.Background(), f)
	require.NoError(t, err)
	ids := make([]string, 0, len(contacts))
	for _, c := range contacts {
		ids = append(ids, c.ID)
	}
	return ids
}

// Sin rol comercial o director general: acceso total al tenant, nada de otros tenants.
func TestApplyVisibility_AccesoTotalAlTenant(t *testing.T) {
	repo := contactsFixture()
	v := newFilter(false, repo)

	adminScope := authz.UserScope{UserID: "adm", TenantID: "t1"}
	assert.ElementsMatch(t, []string{"c1", "c2", "c3", "c4"}, listVisible(t, v, repo, adminScope))

	generalScope := authz.UserScope{
		UserID: "dg", TenantID: "t1",
		ComercialRole: rolePtr(hierarchy.DirectorComercialGeneral),
	}
	assert.ElementsMatch(t, []string{"c1", "c2", "c3", "c4"}, listVisible(t, v, repo, generalScope))
}

// Un comercial nunca recibe un contacto asignado a otro usuario.
func TestApplyVisibility_ComercialSoloVeAsignados(t *testing.T) {
	repo := contactsFixture()
	v := newFilter(false, repo)
	scope := authz.UserScope{
		UserID: "com1", TenantID: "t1",
		ComercialRole: rolePtr(hierarchy.Comercial),
	}

	ids := listVisible(t, v, repo, scope)
	assert.ElementsMatch(t, []string{"c1", "c3"}, ids,
		"un comercial solo ve contactos con assigned_to = su propio id")
}

// Director de sede estricto: solo su sede, los contactos sin sede quedan fuera.
func TestApplyVisibility_DirectorSedeEstricto(t *testing.T) {
	repo := contactsFixture()
	v := newFilter(false, repo)
	scope := authz.UserScope{
		UserID: "ds", TenantID: "t1",
		ComercialRole: rolePtr(hierarchy.DirectorSede),
		LocationID:    strPtr("sede-A"),
	}

	ids := listVisible(t, v, repo, scope)
	assert.ElementsMatch(t, []string{"c1", "c2"}, ids,
		"con la variante estricta, el contacto sin sede (c4) queda excluido")
}

// Variante amplia: la sede propia más los contactos sin sede.
func TestApplyVisibility_DirectorSedeConNoAsignados(t *testing.T) {
	repo := contactsFixture()
	v := newFilter(true, repo)
	scope := authz.UserScope{
		UserID: "ds", TenantID: "t1",
		ComercialRole: rolePtr(hierarchy.DirectorSede),
		LocationID:    strPtr("sede-A"),
	}

	ids := listVisible(t, v, repo, scope)
	assert.ElementsMatch(t, []string{"c1", "c2", "c4"}, ids,
		"con include_unassigned, el contacto sin sede (c4) entra")
}

// Director de sede sin sede configurada: no ve nada (falla cerrado).
func TestApplyVisibility_DirectorSedeSinSede(t *testing.T) {
	repo := contactsFixture()
	v := newFilter(false, repo)
	scope := authz.UserScope{
		UserID: "ds", TenantID: "t1",
		ComercialRole: rolePtr(hierarchy.DirectorSede),
	}

	assert.Empty(t, listVisible(t, v, repo, scope))
}

// Un rol desconocido cae al caso más restrictivo.
func TestApplyVisibility_RolDesconocidoFallaCerrado(t *testing.T) {
	repo := contactsFixture()
	v := newFilter(false, repo)
	scope := authz.UserScope{
		UserID: "x", TenantID: "t1",
		ComercialRole: rolePtr(hierarchy.Role("gerente_zonal")),
	}

	assert.Empty(t, listVisible(t, v, repo, scope))
}

func TestCanSeeContact(t *testing.T) {
	repo := contactsFixture()
	v := newFilter(false, repo)

	comercial := authz.UserScope{UserID: "com1", TenantID: "t1", ComercialRole: rolePtr(hierarchy.Comercial)}
	assert.True(t, v.CanSeeContact(&entity.Contact{ID: "c1", TenantID: "t1", AssignedTo: strPtr("com1")}, comercial))
	assert.False(t, v.CanSeeContact(&entity.Contact{ID: "c2", TenantID: "t1", AssignedTo: strPtr("com2")}, comercial))
	assert.False(t, v.CanSeeContact(&entity.Contact{ID: "c4", TenantID: "t1"}, comercial))

	sede := authz.UserScope{UserID: "ds", TenantID: "t1", ComercialRole: rolePtr(hierarchy.DirectorSede), LocationID: strPtr("sede-A")}
	assert.True(t, v.CanSeeContact(&entity.Contact{ID: "c1", TenantID: "t1", LocationID: strPtr("sede-A")}, sede))
	assert.False(t, v.CanSeeContact(&entity.Contact{ID: "c3", TenantID: "t1", LocationID: strPtr("sede-B")}, sede))
	assert.False(t, v.CanSeeContact(&entity.Contact{ID: "c4", TenantID: "t1"}, sede),
		"variante estricta: el contacto sin sede no es visible")
}

// restricted=false significa "no filtrar", nunca "conjunto vacío".
func TestVisibleContactIDs_SinRestriccion(t *testing.T) {
	repo := contactsFixture()
	v := newFilter(false, repo)

	ids, restricted, err := v.VisibleContactIDs(context.Background(), authz.UserScope{UserID: "adm", TenantID: "t1"})
	require.NoError(t, err)
	assert.False(t, restricted)
	assert.Nil(t, ids)
}

func TestVisibleContactIDs_ComercialRestringido(t *testing.T) {
	repo := contactsFixture()
	v := newFilter(false, repo)
	scope := authz.UserScope{UserID: "com2", TenantID: "t1", ComercialRole: rolePtr(hierarchy.Comercial)}

	ids, restricted, err := v.VisibleContactIDs(context.Background(), scope)
	require.NoError(t, err)
	assert.True(t, restricted)
	assert.ElementsMatch(t, []string{"c2"}, ids)
}

// El tope de ids recorta en silencio, sin error.
func TestVisibleContactIDs_RespetaTope(t *testing.T) {
	repo := &fakeContactRepo{}
	for i := 0; i < 10; i++ {
		repo.contacts = append(repo.contacts, &entity.Contact{
			ID: string(rune('a' + i)), TenantID: "t1", AssignedTo: strPtr("com1"),
		})
	}
	v := authz.NewVisibilityFilter(authz.VisibilityConfig{VisibleIDsCap: 3}, repo)
	scope := authz.UserScope{UserID: "com1", TenantID: "t1", ComercialRole: rolePtr(hierarchy.Comercial)}

	ids, restricted, err := v.VisibleContactIDs(context.Background(), scope)
	require.NoError(t, err)
	assert.True(t, restricted)
	assert.Len(t, ids, 3)
}

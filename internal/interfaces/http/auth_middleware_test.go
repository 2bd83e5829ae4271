package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendemia/crm-api/internal/application/authz"
	"github.com/vendemia/crm-api/internal/domain/entity"
	"github.com/vendemia/crm-api/internal/domain/hierarchy"
	"github.com/vendemia/crm-api/internal/domain/repository"
	apphttp "github.com/vendemia/crm-api/internal/interfaces/http"
	pkgjwt "github.com/vendemia/crm-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testTenantID  = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "crm-comercial-test"
	testExpMin    = 60
)

// fakeUserRepo perfil en memoria para ScopeMiddleware.
type fakeUserRepo struct {
	users map[string]*entity.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error { f.users[u.ID] = u; return nil }

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) ListByTenant(_ context.Context, tenantID string, _, _ int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range f.users {
		if u.TenantID == tenantID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateComercialRole(_ context.Context, targetID string, _ *hierarchy.Role, update repository.RoleUpdate) (bool, error) {
	u, ok := f.users[targetID]
	if !ok {
		return false, nil
	}
	u.ComercialRole = update.ComercialRole
	return true, nil
}

// buildTestApp construye una aplicación Fiber mínima con AuthMiddleware +
// ScopeMiddleware y un handler que expone el alcance resuelto.
func buildTestApp(users map[string]*entity.User) *fiber.App {
	app := fiber.New()
	resolver := authz.NewScopeResolver(&fakeUserRepo{users: users})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.ScopeMiddleware(resolver),
		func(c *fiber.Ctx) error {
			scope, _ := apphttp.GetScope(c)
			role := ""
			if scope.ComercialRole != nil {
				role = string(*scope.ComercialRole)
			}
			return c.JSON(fiber.Map{
				"user_id":        scope.UserID,
				"tenant_id":      scope.TenantID,
				"comercial_role": role,
			})
		},
	)
	return app
}

func tokenFor(t *testing.T, userID, tenantID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, tenantID, entity.AccountRoleUserClient, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func activeUser(role *hierarchy.Role) *entity.User {
	now := time.Now()
	return &entity.User{
		ID:            testUserID,
		TenantID:      testTenantID,
		Email:         "ana@example.com",
		FullName:      "Ana",
		AccountRole:   entity.AccountRoleUserClient,
		ComercialRole: role,
		Status:        "active",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(map[string]*entity.User{testUserID: activeUser(nil)})
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(map[string]*entity.User{testUserID: activeUser(nil)})
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FormatoIncorrecto_Retorna401(t *testing.T) {
	app := buildTestApp(map[string]*entity.User{testUserID: activeUser(nil)})
	resp := doRequest(t, app, "Basic abc123")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ScopeMiddleware — el rol comercial viene del perfil, no del token
// ──────────────────────────────────────────────────────────────────────────────

func TestScopeMiddleware_ResuelveRolDesdePerfil(t *testing.T) {
	role := hierarchy.Comercial
	app := buildTestApp(map[string]*entity.User{testUserID: activeUser(&role)})

	resp := doRequest(t, app, tokenFor(t, testUserID, testTenantID))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testTenantID, body["tenant_id"])
	assert.Equal(t, string(hierarchy.Comercial), body["comercial_role"],
		"el rol debe salir del perfil persistido")
}

func TestScopeMiddleware_CambioDeRolSurteEfectoSinNuevoToken(t *testing.T) {
	role := hierarchy.Comercial
	users := map[string]*entity.User{testUserID: activeUser(&role)}
	app := buildTestApp(users)
	token := tokenFor(t, testUserID, testTenantID)

	resp := doRequest(t, app, token)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// El perfil cambia de rol; el mismo token debe reflejarlo en la siguiente petición.
	promoted := hierarchy.DirectorSede
	users[testUserID].ComercialRole = &promoted

	resp = doRequest(t, app, token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(hierarchy.DirectorSede), body["comercial_role"])
}

func TestScopeMiddleware_PerfilInexistente_Retorna401(t *testing.T) {
	app := buildTestApp(map[string]*entity.User{})
	resp := doRequest(t, app, tokenFor(t, testUserID, testTenantID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestScopeMiddleware_PerfilSinTenant_Retorna403(t *testing.T) {
	u := activeUser(nil)
	u.TenantID = ""
	app := buildTestApp(map[string]*entity.User{testUserID: u})

	resp := doRequest(t, app, tokenFor(t, testUserID, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TENANT")
}

func TestScopeMiddleware_SuperAdminSinTenant_Pasa(t *testing.T) {
	u := activeUser(nil)
	u.TenantID = ""
	u.AccountRole = entity.AccountRoleSuperAdmin
	app := buildTestApp(map[string]*entity.User{testUserID: u})

	resp := doRequest(t, app, tokenFor(t, testUserID, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"super admin sin tenant debe poder operar")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests JWT pkg — integridad del generate/parse
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testTenantID, entity.AccountRoleUserClient, testIssuer, testExpMin)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, tenantID, role, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)

	assert.Equal(t, testUserID, userID)
	assert.Equal(t, testTenantID, tenantID)
	assert.Equal(t, entity.AccountRoleUserClient, role)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testTenantID, entity.AccountRoleUserClient, testIssuer, -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testTenantID, entity.AccountRoleUserClient, testIssuer, testExpMin)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}

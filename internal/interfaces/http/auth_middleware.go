package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/vendemia/crm-api/internal/application/authz"
	"github.com/vendemia/crm-api/internal/application/dto"
	"github.com/vendemia/crm-api/pkg/jwt"
)

// Locals keys en Fiber.
const (
	LocalUserID      = "user_id"
	LocalTenantID    = "tenant_id"
	LocalAccountRole = "account_role"
	LocalScope       = "user_scope"
)

// AuthMiddleware valida el Bearer Token JWT y extrae UserID, TenantID y rol de
// cuenta a c.Locals. El rol comercial NO viene del token: lo resuelve
// ScopeMiddleware desde el perfil persistido en cada petición.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, tenantID, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalTenantID, tenantID)
		c.Locals(LocalAccountRole, role)
		return c.Next()
	}
}

// ScopeMiddleware resuelve el alcance efectivo del usuario de sesión desde su
// perfil persistido y lo deja en c.Locals. Va siempre detrás de AuthMiddleware:
// un cambio de rol comercial surte efecto en la siguiente petición, sin esperar
// a que expire el token.
func ScopeMiddleware(resolver *authz.ScopeResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := resolver.ResolveScope(c.UserContext(), GetUserID(c))
		if err != nil {
			return respondError(c, err)
		}
		c.Locals(LocalScope, scope)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetTenantID devuelve el TenantID del contexto (después del middleware de auth).
func GetTenantID(c *fiber.Ctx) string {
	v := c.Locals(LocalTenantID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetAccountRole devuelve el rol de cuenta del contexto.
func GetAccountRole(c *fiber.Ctx) string {
	v := c.Locals(LocalAccountRole)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetScope devuelve el alcance resuelto (después de ScopeMiddleware).
func GetScope(c *fiber.Ctx) (authz.UserScope, bool) {
	v := c.Locals(LocalScope)
	if v == nil {
		return authz.UserScope{}, false
	}
	s, ok := v.(authz.UserScope)
	return s, ok
}

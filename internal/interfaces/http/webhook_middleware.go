package http

import (
	"crypto/subtle"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"golang.org/x/time/rate"

	"github.com/vendemia/crm-api/internal/application/dto"
)

// WebhookAuth exige el token compartido del sistema de entrega en X-Webhook-Token.
func WebhookAuth(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token == "" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "WEBHOOK_DISABLED", Message: "webhook no configurado"})
		}
		got := c.Get("X-Webhook-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token de webhook inválido"})
		}
		return c.Next()
	}
}

// batchLimiter limitador por lote: un proveedor que reintenta en bucle sobre el
// mismo batchId no debe saturar la base. Los limitadores se crean bajo demanda.
type batchLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perMin   int
}

func newBatchLimiter(perMin int) *batchLimiter {
	return &batchLimiter{limiters: make(map[string]*rate.Limiter), perMin: perMin}
}

func (bl *batchLimiter) allow(key string) bool {
	bl.mu.Lock()
	defer bl.mu.Unlock()
	lim, ok := bl.limiters[key]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(float64(bl.perMin)/60.0), bl.perMin)
		bl.limiters[key] = lim
	}
	return lim.Allow()
}

// WebhookRateLimit limita las llamadas por minuto y por batchId.
func WebhookRateLimit(perMin int) fiber.Handler {
	bl := newBatchLimiter(perMin)
	return func(c *fiber.Ctx) error {
		// c.Params apunta al buffer reutilizable de fiber; hay que copiar el
		// valor antes de usarlo como clave persistente del mapa.
		if !bl.allow(utils.CopyString(c.Params("batchId"))) {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiadas llamadas para este lote"})
		}
		return c.Next()
	}
}

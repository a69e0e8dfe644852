package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/tenant"
	"github.com/jhoicas/Almacen-api/pkg/jwt"
)

// Locals keys para Email y Name en Fiber.
const (
	LocalEmail = "email"
	LocalName  = "name"
)

// IdentityMiddleware valida el Bearer Token JWT, extrae email y name a
// c.Locals y registra la asociación de forma perezosa: el primer request
// autenticado de un email nuevo crea su tenant. La creación es best-effort;
// si falla, el request sigue y las lecturas caen en el camino de tenant
// inexistente (vacío/cero).
func IdentityMiddleware(jwtSecret string, resolver *tenant.Resolver) fiber.Handler {
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
		email, name, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalEmail, email)
		c.Locals(LocalName, name)

		if resolver != nil {
			if _, err := resolver.ResolveOrCreate(c.Context(), email, name); err != nil {
				log.Warn().Err(err).Str("email", email).Msg("no se pudo registrar el tenant")
			}
		}
		return c.Next()
	}
}

// GetEmail devuelve el email del contexto (después del middleware de identidad).
func GetEmail(c *fiber.Ctx) string {
	v := c.Locals(LocalEmail)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetName devuelve el name del contexto (después del middleware de identidad).
func GetName(c *fiber.Ctx) string {
	v := c.Locals(LocalName)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

package auth

import (
	"slices"
	"strings"

	"punto-express/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUserRoleKey = "user_role"
	CtxClaimsKey   = "claims"
)

// JWTMiddleware exige "Authorization: Bearer <token>" y deja los claims en Locals.
func JWTMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheme, token, found := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
		if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Se requiere 'Authorization: Bearer <token>'")
		}

		claims, err := ParseToken(secret, token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Token inválido o vencido")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserRoleKey, claims.Role)
		c.Locals(CtxClaimsKey, claims)

		return c.Next()
	}
}

// RequireRole deja pasar solo a los roles indicados.
func RequireRole(allowed ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(CtxClaimsKey).(*Claims)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "No se pudo obtener el rol")
		}
		if !slices.Contains(allowed, claims.Role) {
			return fiber.NewError(fiber.StatusForbidden, "No tiene permiso para esta operación")
		}
		return c.Next()
	}
}

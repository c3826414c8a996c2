package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wsfe-api/internal/application/dto"
	domwsfe "github.com/jhoicas/wsfe-api/internal/domain/wsfe"
	"github.com/jhoicas/wsfe-api/pkg/jwt"
)

// LocalCuit clave de Locals con la CUIT extraída del ticket de acceso.
const LocalCuit = "cuit"

// tokenErrorBody cuerpo de rechazo por token, con el error 600 del protocolo.
type tokenErrorBody struct {
	Errores []domwsfe.ServiceError `json:"errores"`
}

// AuthMiddleware valida el ticket de acceso (Bearer) y deja la CUIT en
// c.Locals. Un token vencido responde el error 600 del protocolo; un token
// ausente o ilegible también se rechaza antes de llegar al negocio.
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
		cuit, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(tokenErrorBody{
					Errores: []domwsfe.ServiceError{{
						Code: domwsfe.CodeTokenExpired,
						Msg:  "ValidacionDeToken: No validaron las fechas del token GenTime, ExpTime, NowUTC",
					}},
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido"})
		}
		c.Locals(LocalCuit, cuit)
		return c.Next()
	}
}

// GetCuit devuelve la CUIT del contexto (después del middleware de auth).
func GetCuit(c *fiber.Ctx) string {
	v := c.Locals(LocalCuit)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

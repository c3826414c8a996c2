package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wsfe-api/internal/application/dto"
	"github.com/jhoicas/wsfe-api/pkg/jwt"
)

// AuthHandler emite tickets de acceso (análogo mínimo del LoginCms del WSAA).
// El motor de autorización no participa: solo valida tokens ya emitidos.
type AuthHandler struct {
	secret     string
	issuer     string
	expMinutes int
}

// NewAuthHandler construye el handler.
func NewAuthHandler(secret, issuer string, expMinutes int) *AuthHandler {
	return &AuthHandler{secret: secret, issuer: issuer, expMinutes: expMinutes}
}

// Login emite un ticket de acceso para la CUIT informada.
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Cuit == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cuit requerida"})
	}
	token, err := jwt.Generate(h.secret, in.Cuit, h.issuer, h.expMinutes)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	exp := time.Now().Add(time.Duration(h.expMinutes) * time.Minute)
	return c.JSON(dto.LoginResponse{Token: token, ExpirationTime: exp.Format(time.RFC3339)})
}

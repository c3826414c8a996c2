package http

import (
	"github.com/gofiber/fiber/v2"

	appwsfe "github.com/jhoicas/wsfe-api/internal/application/wsfe"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthorizeUC *appwsfe.AuthorizeUseCase
	CAEAUC      *appwsfe.CAEAUseCase
	QueryUC     *appwsfe.QueryUseCase
	Clock       appwsfe.Clock
	JWTSecret   string
	JWTIssuer   string
	JWTExpMin   int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público): emisión de tickets de acceso
	authHandler := NewAuthHandler(deps.JWTSecret, deps.JWTIssuer, deps.JWTExpMin)
	api.Post("/auth/login", authHandler.Login)

	wsfeHandler := NewWSFEHandler(deps.AuthorizeUC, deps.CAEAUC, deps.QueryUC, deps.Clock)

	// FEDummy (público): estado del servicio
	api.Get("/wsfev1/dummy", wsfeHandler.FEDummy)

	// Rutas protegidas (requieren ticket de acceso)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	wsfev1 := protected.Group("/wsfev1")
	wsfev1.Post("/fecae-solicitar", wsfeHandler.FECAESolicitar)
	wsfev1.Get("/comp-ultimo-autorizado", wsfeHandler.FECompUltimoAutorizado)
	wsfev1.Get("/comp-consultar", wsfeHandler.FECompConsultar)
	wsfev1.Post("/caea-solicitar", wsfeHandler.FECAEASolicitar)
	wsfev1.Get("/caea-consultar", wsfeHandler.FECAEAConsultar)
	wsfev1.Post("/caea-reg-informativo", wsfeHandler.FECAEARegInformativo)
	wsfev1.Post("/caea-sin-movimiento", wsfeHandler.FECAEASinMovimientoInformar)

	// Catálogos de referencia (protegido, como en el servicio real)
	params := protected.Group("/params")
	paramsHandler := NewParamsHandler()
	params.Get("/tipos-iva", paramsHandler.TiposIva)
	params.Get("/tipos-tributos", paramsHandler.TiposTributos)
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appwsfe "github.com/jhoicas/wsfe-api/internal/application/wsfe"
	"github.com/jhoicas/wsfe-api/internal/infrastructure/codes"
	"github.com/jhoicas/wsfe-api/internal/infrastructure/memory"
	infrapg "github.com/jhoicas/wsfe-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/wsfe-api/internal/interfaces/http"
	"github.com/jhoicas/wsfe-api/pkg/config"
	"github.com/jhoicas/wsfe-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando autorizador de comprobantes")

	ctx := context.Background()

	// Backend de persistencia: memoria (default) o PostgreSQL.
	var (
		runner appwsfe.TxRunner
		stores appwsfe.Stores
		pinger appwsfe.Pinger
	)
	switch cfg.Storage.Driver {
	case "postgres":
		pool, err := infrapg.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := infrapg.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración de esquema")
		}
		runner = infrapg.NewTxRunner(pool)
		stores = appwsfe.Stores{
			Sequences: infrapg.NewSequenceRepository(pool),
			Receipts:  infrapg.NewReceiptRepository(pool),
			CAEA:      infrapg.NewCAEARepository(pool),
		}
		pinger = pool
	default:
		store := memory.NewStore()
		runner = memory.NewTxRunner(store)
		stores = appwsfe.Stores{Sequences: store, Receipts: store, CAEA: store}
	}

	clock := appwsfe.Clock(time.Now)
	generator := codes.NewGenerator()

	authorizeUC := appwsfe.NewAuthorizeUseCase(runner, generator, clock, log)
	caeaUC := appwsfe.NewCAEAUseCase(runner, stores, generator, clock, log)
	queryUC := appwsfe.NewQueryUseCase(stores, pinger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthorizeUC: authorizeUC,
		CAEAUC:      caeaUC,
		QueryUC:     queryUC,
		Clock:       clock,
		JWTSecret:   cfg.JWT.Secret,
		JWTIssuer:   cfg.JWT.Issuer,
		JWTExpMin:   cfg.JWT.Expiration,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

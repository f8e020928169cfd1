package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/jhoicas/gestion-pyme/internal/bootstrap"
	httpRouter "github.com/jhoicas/gestion-pyme/internal/interfaces/http"
	"github.com/jhoicas/gestion-pyme/migrations"
	"github.com/jhoicas/gestion-pyme/pkg/config"
	"github.com/jhoicas/gestion-pyme/pkg/logger"
	"github.com/jhoicas/gestion-pyme/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	if cfg.Storage.Driver == config.StoragePostgres && cfg.DB.AutoMigrate {
		if err := migrations.Up(cfg.DB.MigrateURL()); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	storage, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacenamiento")
	}
	defer storage.Close()

	metrics.Register()
	svc := bootstrap.NewServices(storage, cfg, log)

	app := httpRouter.NewApp(cfg.App.Name, log.Named("http"))
	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:    cfg.App.Name,
		CompanyUC:  svc.Companies,
		CustomerUC: svc.Customers,
		SupplierUC: svc.Suppliers,
		ProductUC:  svc.Products,
		Ledger:     svc.Ledger,
		Reports:    svc.Reports,
		AuthUC:     svc.Auth,
		Audit:      svc.Audit,
		Monitor:    svc.Monitor,
		Resolver:   svc.Resolver,
		Sessions:   httpRouter.NewSessionStore(cfg.Session),
		JWTSecret:  cfg.JWT.Secret,
		Log:        log.Named("http"),
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

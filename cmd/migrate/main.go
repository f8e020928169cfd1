// migrate aplica o revierte las migraciones embebidas sobre PostgreSQL.
//
// Uso: go run ./cmd/migrate <up|down|version> [N]
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/jhoicas/gestion-pyme/migrations"
	"github.com/jhoicas/gestion-pyme/pkg/config"
	"github.com/jhoicas/gestion-pyme/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.Level})

	if err := run(cfg, log, os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
}

func run(cfg *config.Config, log *logger.Logger, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("uso: migrate <up|down|version> [N]")
	}

	m, err := migrations.New(cfg.DB.MigrateURL())
	if err != nil {
		return err
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			log.Warn().Err(srcErr).Msg("cerrar fuente de migraciones")
		}
		if dbErr != nil {
			log.Warn().Err(dbErr).Msg("cerrar conexión de migraciones")
		}
	}()

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("up: %w", err)
		}
		log.Info().Msg("migraciones aplicadas")

	case "down":
		steps := 1
		if len(args) > 1 {
			steps, err = strconv.Atoi(args[1])
			if err != nil || steps <= 0 {
				return fmt.Errorf("cantidad de pasos inválida: %q", args[1])
			}
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("down: %w", err)
		}
		log.Info().Int("steps", steps).Msg("migraciones revertidas")

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("version: %w", err)
		}
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("versión del esquema")

	default:
		return fmt.Errorf("comando desconocido: %s (use up, down o version)", args[0])
	}
	return nil
}

package migrations

import (
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// New crea una instancia de golang-migrate con los scripts embebidos. databaseURL usa el esquema
// pgx5:// (ver config.DBConfig.MigrateURL).
func New(databaseURL string) (*migrate.Migrate, error) {
	src, err := iofs.New(FS, ".")
	if err != nil {
		return nil, fmt.Errorf("fuente de migraciones: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("crear instancia de migrate: %w", err)
	}
	return m, nil
}

// Up aplica las migraciones pendientes. Sin cambios devuelve migrate.ErrNoChange.
func Up(databaseURL string) error {
	m, err := New(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}

// provision da de alta una empresa con su configuración y su administrador, y opcionalmente
// un superusuario para las rutas /admin.
//
// Uso:
//
//	go run ./cmd/provision --name "Acme" --admin-email ana@acme.test --admin-password secreto123
//	go run ./cmd/provision --superuser-email root@pyme.test --superuser-password secreto123
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jhoicas/gestion-pyme/internal/application/audit"
	"github.com/jhoicas/gestion-pyme/internal/application/dto"
	"github.com/jhoicas/gestion-pyme/internal/bootstrap"
	"github.com/jhoicas/gestion-pyme/pkg/config"
	"github.com/jhoicas/gestion-pyme/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	company           dto.ProvisionCompanyRequest
	taxRate           string
	superuserEmail    string
	superuserPassword string
}

func run() error {
	var opts options
	flagSet := pflag.NewFlagSet("provision", pflag.ContinueOnError)
	flagSet.StringVar(&opts.company.Name, "name", "", "razón social de la empresa")
	flagSet.StringVar(&opts.company.TaxID, "tax-id", "", "RUC/NIT de la empresa")
	flagSet.StringVar(&opts.company.Email, "email", "", "email de la empresa")
	flagSet.StringVar(&opts.company.Currency, "currency", "", "moneda ISO 4217 (por defecto USD)")
	flagSet.StringVar(&opts.taxRate, "tax-rate", "", "tasa de impuesto por defecto en porcentaje (por defecto 12)")
	flagSet.StringVar(&opts.company.Timezone, "timezone", "", "zona horaria IANA")
	flagSet.BoolVar(&opts.company.IsDemo, "demo", false, "marcar la empresa como demo")
	flagSet.StringVar(&opts.company.AdminEmail, "admin-email", "", "email del administrador de la empresa")
	flagSet.StringVar(&opts.company.AdminName, "admin-name", "", "nombre del administrador")
	flagSet.StringVar(&opts.company.AdminPassword, "admin-password", "", "contraseña si el administrador no existe")
	flagSet.StringVar(&opts.superuserEmail, "superuser-email", "", "crear un superusuario con este email")
	flagSet.StringVar(&opts.superuserPassword, "superuser-password", "", "contraseña del superusuario")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if opts.company.Name == "" && opts.superuserEmail == "" {
		flagSet.PrintDefaults()
		return fmt.Errorf("indique --name o --superuser-email")
	}
	if opts.taxRate != "" {
		rate, err := decimal.NewFromString(opts.taxRate)
		if err != nil {
			return fmt.Errorf("--tax-rate inválido: %w", err)
		}
		opts.company.TaxRateDefault = &rate
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	if cfg.Storage.Driver != config.StoragePostgres {
		return fmt.Errorf("provision requiere STORAGE_DRIVER=postgres")
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.Level})

	ctx := context.Background()
	storage, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer storage.Close()
	svc := bootstrap.NewServices(storage, cfg, log)

	if opts.superuserEmail != "" {
		if len(opts.superuserPassword) < 8 {
			return fmt.Errorf("--superuser-password debe tener al menos 8 caracteres")
		}
		u, err := svc.Auth.CreateUser(ctx, dto.CreateUserRequest{
			Email:      opts.superuserEmail,
			Password:   opts.superuserPassword,
			SuperAdmin: true,
		})
		if err != nil {
			return fmt.Errorf("crear superusuario: %w", err)
		}
		log.Info().Str("user_id", u.ID).Str("email", u.Email).Msg("superusuario creado")
	}

	if opts.company.Name == "" {
		return nil
	}
	if opts.company.AdminEmail == "" {
		return fmt.Errorf("--admin-email es obligatorio al crear una empresa")
	}
	company, err := svc.Companies.Provision(ctx, opts.company, audit.Actor{})
	if err != nil {
		return fmt.Errorf("crear empresa: %w", err)
	}
	log.Info().Str("company_id", company.ID).Str("name", company.Name).Msg("empresa creada")
	return nil
}

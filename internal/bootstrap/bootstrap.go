// Package bootstrap arma el grafo de dependencias compartido por los binarios.
package bootstrap

import (
	"context"
	"fmt"

	appaudit "github.com/jhoicas/gestion-pyme/internal/application/audit"
	"github.com/jhoicas/gestion-pyme/internal/application/auth"
	"github.com/jhoicas/gestion-pyme/internal/application/ledger"
	"github.com/jhoicas/gestion-pyme/internal/application/reports"
	"github.com/jhoicas/gestion-pyme/internal/application/tenancy"
	"github.com/jhoicas/gestion-pyme/internal/application/usecase"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
	"github.com/jhoicas/gestion-pyme/internal/infrastructure/memory"
	"github.com/jhoicas/gestion-pyme/internal/infrastructure/postgres"
	"github.com/jhoicas/gestion-pyme/pkg/config"
	"github.com/jhoicas/gestion-pyme/pkg/logger"
)

// Storage repositorios del backend elegido y su runner de transacciones.
type Storage struct {
	Repos repository.Repos
	Tx    repository.TxRunner
	close func()
}

// Close libera las conexiones del backend.
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStorage abre el backend configurado en STORAGE_DRIVER.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return MemoryStorage(memory.NewStore()), nil
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		return &Storage{
			Repos: postgres.NewRepos(pool),
			Tx:    postgres.NewTxRunner(pool),
			close: pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("driver de almacenamiento desconocido: %q", cfg.Storage.Driver)
}

// MemoryStorage envuelve un store en memoria.
func MemoryStorage(store *memory.Store) *Storage {
	return &Storage{Repos: store.Repos(), Tx: store}
}

// Services casos de uso de la aplicación.
type Services struct {
	Audit     *appaudit.Service
	Monitor   *appaudit.Monitor
	Resolver  *tenancy.Resolver
	Auth      *auth.AuthUseCase
	Companies *usecase.CompanyUseCase
	Customers *usecase.CustomerUseCase
	Suppliers *usecase.SupplierUseCase
	Products  *usecase.ProductUseCase
	Ledger    *ledger.Service
	Reports   *reports.ReportUseCase
}

// NewServices construye los casos de uso sobre el almacenamiento.
func NewServices(st *Storage, cfg *config.Config, log *logger.Logger) *Services {
	repos := st.Repos
	auditSvc := appaudit.NewService(repos.Audit, log.Named("audit"))
	monitor := appaudit.NewMonitor(auditSvc, repos.Audit, repos.Companies, log.Named("security"), appaudit.MonitorConfig{
		Window:    cfg.Security.MassDeletionWindow,
		Threshold: cfg.Security.MassDeletionThreshold,
	})
	catalog := usecase.CatalogDeps{
		Tx:      st.Tx,
		Repos:   repos,
		Audit:   auditSvc,
		Monitor: monitor,
		Log:     log.Named("catalog"),
	}
	return &Services{
		Audit:    auditSvc,
		Monitor:  monitor,
		Resolver: tenancy.NewResolver(repos.Memberships, repos.Companies, auditSvc, log.Named("security")),
		Auth: auth.NewAuthUseCase(repos.Users, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}, log.Named("auth")),
		Companies: usecase.NewCompanyUseCase(st.Tx, repos, auditSvc, log.Named("companies")),
		Customers: usecase.NewCustomerUseCase(catalog),
		Suppliers: usecase.NewSupplierUseCase(catalog),
		Products:  usecase.NewProductUseCase(catalog),
		Ledger: ledger.NewService(st.Tx, repos.Operations, auditSvc, monitor, log.Named("ledger"), ledger.Config{
			ReverseStockOnCancel: cfg.Ledger.ReverseStockOnCancel,
		}),
		Reports: reports.NewReportUseCase(repos.Reports, repos.Products),
	}
}

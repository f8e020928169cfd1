package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appaudit "github.com/jhoicas/gestion-pyme/internal/application/audit"
	"github.com/jhoicas/gestion-pyme/internal/application/dto"
	"github.com/jhoicas/gestion-pyme/internal/application/ledger"
	"github.com/jhoicas/gestion-pyme/internal/application/reports"
	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/infrastructure/memory"
	"github.com/jhoicas/gestion-pyme/pkg/logger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestReports(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	log := logger.Nop()
	auditSvc := appaudit.NewService(repos.Audit, log)
	svc := ledger.NewService(store, repos.Operations, auditSvc, nil, log, ledger.Config{})
	uc := reports.NewReportUseCase(repos.Reports, repos.Products)
	actor := appaudit.Actor{UserID: uuid.New().String()}

	company := &entity.Company{ID: uuid.New().String(), Name: "Acme", Active: true}
	other := &entity.Company{ID: uuid.New().String(), Name: "Globex", Active: true}
	require.NoError(t, repos.Companies.Create(ctx, company))
	require.NoError(t, repos.Companies.Create(ctx, other))

	alice := &entity.Customer{ID: uuid.New().String(), CompanyID: company.ID, Code: "C1", Name: "Alicia", Active: true}
	bob := &entity.Customer{ID: uuid.New().String(), CompanyID: company.ID, Code: "C2", Name: "Roberto", Active: true}
	require.NoError(t, repos.Customers.Create(ctx, alice))
	require.NoError(t, repos.Customers.Create(ctx, bob))
	stock := d("100")
	p := &entity.Product{ID: uuid.New().String(), CompanyID: company.ID, Code: "P1", Name: "P1",
		Type: entity.ProductTypeProduct, Price: d("10.00"), Stock: &stock, StockMinimo: d("95"), Active: true}
	require.NoError(t, repos.Products.Create(ctx, p))

	sell := func(customer *entity.Customer, date, qty string, confirm bool) {
		op, err := svc.Create(ctx, company, ledger.CreateInput{Type: entity.OperationSale, Date: day(date), CustomerID: customer.ID}, actor)
		require.NoError(t, err)
		_, err = svc.AddItem(ctx, company, op.ID, ledger.ItemInput{ProductID: p.ID, Quantity: d(qty)}, actor)
		require.NoError(t, err)
		if confirm {
			_, err = svc.Confirm(ctx, company, op.ID, actor)
			require.NoError(t, err)
		}
	}
	sell(alice, "2026-03-02", "1", true)
	sell(alice, "2026-03-10", "2", true)
	sell(bob, "2026-03-15", "4", true)
	sell(bob, "2026-03-20", "5", false) // borrador: no cuenta
	sell(bob, "2026-04-01", "1", true)  // fuera del período

	march := dto.PeriodRequest{StartDate: "2026-03-01", EndDate: "2026-03-31"}

	sales, err := uc.SalesByPeriod(ctx, company, march)
	require.NoError(t, err)
	assert.Equal(t, 3, sales.Count)
	assert.True(t, d("70.00").Equal(sales.Total))
	assert.Equal(t, "2026-03-01", sales.Period.StartDate)

	purchases, err := uc.PurchasesByPeriod(ctx, company, march)
	require.NoError(t, err)
	assert.Zero(t, purchases.Count)

	byCustomer, err := uc.SummaryByCounterpart(ctx, company, entity.OperationSale, march)
	require.NoError(t, err)
	require.Len(t, byCustomer.Items, 2)
	assert.Equal(t, "Roberto", byCustomer.Items[0].Name, "mayor total primero")
	assert.True(t, d("40.00").Equal(byCustomer.Items[0].Total))
	assert.Equal(t, 2, byCustomer.Items[1].Count)

	low, err := uc.LowStock(ctx, company)
	require.NoError(t, err)
	require.Len(t, low, 1, "stock 92 con mínimo 95")

	overview, err := uc.Overview(ctx, company, march)
	require.NoError(t, err)
	assert.True(t, d("70.00").Equal(overview.Balance))
	assert.Equal(t, 1, overview.LowStock)

	empty, err := uc.SalesByPeriod(ctx, other, march)
	require.NoError(t, err)
	assert.Zero(t, empty.Count, "los reportes no cruzan empresas")

	_, err = uc.SalesByPeriod(ctx, company, dto.PeriodRequest{StartDate: "2026-04-01", EndDate: "2026-03-01"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.SalesByPeriod(ctx, nil, march)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	appaudit "github.com/jhoicas/gestion-pyme/internal/application/audit"
	"github.com/jhoicas/gestion-pyme/internal/application/auth"
	"github.com/jhoicas/gestion-pyme/internal/application/ledger"
	"github.com/jhoicas/gestion-pyme/internal/application/reports"
	"github.com/jhoicas/gestion-pyme/internal/application/tenancy"
	"github.com/jhoicas/gestion-pyme/internal/application/usecase"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/pkg/logger"
	"github.com/jhoicas/gestion-pyme/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName    string
	CompanyUC  *usecase.CompanyUseCase
	CustomerUC *usecase.CustomerUseCase
	SupplierUC *usecase.SupplierUseCase
	ProductUC  *usecase.ProductUseCase
	Ledger     *ledger.Service
	Reports    *reports.ReportUseCase
	AuthUC     *auth.AuthUseCase
	Audit      *appaudit.Service
	Monitor    *appaudit.Monitor
	Resolver   *tenancy.Resolver
	Sessions   *session.Store
	JWTSecret  string
	Log        *logger.Logger
}

// NewApp crea la aplicación Fiber con el manejador de errores de la API.
func NewApp(name string, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(MetricsMiddleware())
	return app
}

// Router registra las rutas de la API. Cadena de guardas en rutas de empresa:
// AuthMiddleware -> TenantMiddleware -> RequireCompany -> RequirePermission.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	app.Use(SessionMiddleware(deps.Sessions, deps.Log))

	authed := AuthMiddleware(deps.JWTSecret)
	tenant := TenantMiddleware(deps.Resolver, deps.Monitor)

	read := RequirePermission(entity.PermRead)
	write := RequirePermission(entity.PermWrite)
	approve := RequirePermission(entity.PermApprove)
	administer := RequirePermission(entity.PermAdminister)

	authHandler := NewAuthHandler(deps.AuthUC, deps.Resolver, deps.Audit)
	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.Resolver)

	api := app.Group("/api")

	// Auth (login público)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	observe := IPMonitorMiddleware(deps.Monitor)
	authGroup.Post("/logout", authed, observe, authHandler.Logout)
	authGroup.Get("/me", authed, observe, authHandler.Me)

	// Rutas protegidas (Bearer Token + resolución de empresa)
	protected := api.Group("/", authed, tenant)

	companies := protected.Group("/companies")
	companies.Get("/mine", companyHandler.Mine)
	companies.Post("/select", companyHandler.Select)

	scoped := protected.Group("/", RequireCompany())

	current := scoped.Group("/companies/current")
	current.Get("/", read, companyHandler.Current)
	current.Put("/", administer, companyHandler.Update)
	current.Get("/settings", read, companyHandler.GetSettings)
	current.Put("/settings", administer, companyHandler.UpdateSettings)
	current.Get("/members", administer, companyHandler.ListMembers)
	current.Post("/members", administer, companyHandler.AddMember)
	current.Patch("/members/:userID", administer, companyHandler.UpdateMember)

	registerCounterparts(scoped.Group("/customers"), NewCounterpartHandler(deps.CustomerUC), read, write, approve)
	registerCounterparts(scoped.Group("/suppliers"), NewCounterpartHandler(deps.SupplierUC), read, write, approve)

	products := scoped.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", write, productHandler.Create)
	products.Get("/", read, productHandler.List)
	products.Get("/:id", read, productHandler.GetByID)
	products.Put("/:id", write, productHandler.Update)
	products.Delete("/:id", approve, productHandler.Delete)

	operations := scoped.Group("/operations")
	operationHandler := NewOperationHandler(deps.Ledger)
	operations.Post("/", write, operationHandler.Create)
	operations.Get("/", read, operationHandler.List)
	operations.Get("/:id", read, operationHandler.GetByID)
	operations.Get("/:id/items", read, operationHandler.Items)
	operations.Post("/:id/items", write, operationHandler.AddItem)
	operations.Patch("/:id/items/:itemID", write, operationHandler.UpdateItem)
	operations.Delete("/:id/items/:itemID", write, operationHandler.RemoveItem)
	operations.Post("/:id/confirm", approve, operationHandler.Confirm)
	operations.Post("/:id/cancel", approve, operationHandler.Cancel)
	operations.Post("/:id/recalculate", write, operationHandler.Recalculate)

	reportGroup := scoped.Group("/reports", read)
	reportHandler := NewReportHandler(deps.Reports)
	reportGroup.Get("/sales", reportHandler.Sales)
	reportGroup.Get("/purchases", reportHandler.Purchases)
	reportGroup.Get("/counterparts", reportHandler.Counterparts)
	reportGroup.Get("/low-stock", reportHandler.LowStock)
	reportGroup.Get("/overview", reportHandler.Overview)

	auditHandler := NewAuditHandler(deps.Audit, deps.Monitor)
	scoped.Get("/audit", administer, auditHandler.List)
	scoped.Post("/security/check", approve, auditHandler.SecurityCheck)

	// Administración (superusuario, sin empresa)
	admin := app.Group(tenancy.AdminPrefix, authed, tenant, RequireSuperAdmin())
	admin.Post("/companies", companyHandler.Provision)
	admin.Patch("/companies/:id/active", companyHandler.SetActive)
	admin.Post("/users", authHandler.CreateUser)
}

func registerCounterparts(g fiber.Router, h *CounterpartHandler, read, write, approve fiber.Handler) {
	g.Post("/", write, h.Create)
	g.Get("/", read, h.List)
	g.Get("/:id", read, h.GetByID)
	g.Put("/:id", write, h.Update)
	g.Delete("/:id", approve, h.Delete)
}

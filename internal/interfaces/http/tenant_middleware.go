package http

import (
	"github.com/gofiber/fiber/v2"
	appaudit "github.com/jhoicas/gestion-pyme/internal/application/audit"
	"github.com/jhoicas/gestion-pyme/internal/application/tenancy"
)

// TenantMiddleware resuelve la empresa activa del request y vigila cambios de IP.
// Debe usarse DESPUÉS de AuthMiddleware y SessionMiddleware. El scope queda en c.Locals y en
// el contexto del request (tenancy.ScopeFrom).
func TenantMiddleware(resolver *tenancy.Resolver, monitor *appaudit.Monitor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		p := GetPrincipal(c)
		sess := SessionFor(c, p)

		scope := resolver.Resolve(ctx, p, sess, tenancy.Classify(c.Path()))
		observeIP(c, monitor, p, sess, scope.CompanyID())

		c.Locals(LocalScope, scope)
		c.SetUserContext(tenancy.WithScope(ctx, scope))
		return c.Next()
	}
}

// IPMonitorMiddleware vigila cambios de IP en rutas autenticadas que no resuelven empresa.
// La alerta va a la empresa activa de la sesión. Debe usarse DESPUÉS de AuthMiddleware.
func IPMonitorMiddleware(monitor *appaudit.Monitor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		observeIP(c, monitor, p, SessionFor(c, p), "")
		return c.Next()
	}
}

func observeIP(c *fiber.Ctx, monitor *appaudit.Monitor, p *tenancy.Principal, sess tenancy.Session, companyID string) {
	if p == nil || monitor == nil {
		return
	}
	monitor.ObserveIP(c.UserContext(), sess, p.UserID, companyID, ClientIP(c))
}

// ClientIP primera IP de X-Forwarded-For o, si no viene, la dirección remota.
func ClientIP(c *fiber.Ctx) string {
	if ips := c.IPs(); len(ips) > 0 && ips[0] != "" {
		return ips[0]
	}
	return c.IP()
}

// actorOf datos del actor para la bitácora.
func actorOf(c *fiber.Ctx) appaudit.Actor {
	return appaudit.Actor{UserID: GetUserID(c), IP: ClientIP(c)}
}

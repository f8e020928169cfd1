package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gestion-pyme/internal/application/dto"
	"github.com/jhoicas/gestion-pyme/internal/application/tenancy"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/pkg/jwt"
)

// Locals keys para el principal y el scope resuelto en Fiber.
const (
	LocalPrincipal = "principal"
	LocalScope     = "scope"
)

// AuthMiddleware valida el Bearer Token JWT y deja el principal en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalPrincipal, &tenancy.Principal{UserID: claims.UserID, SuperAdmin: claims.SuperAdmin})
		return c.Next()
	}
}

// RequireCompany exige una empresa resuelta. Debe usarse DESPUÉS de TenantMiddleware.
func RequireCompany() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !GetScope(c).HasCompany() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "NO_COMPANY",
				Message: "no hay una empresa activa para este usuario",
			})
		}
		return c.Next()
	}
}

// RequireRole exige que el rol del usuario en la empresa activa sea uno de los indicados.
//   - 401 si no hay principal
//   - 403 si no hay empresa o el rol no está permitido
func RequireRole(roles ...entity.Role) fiber.Handler {
	allowed := make(map[entity.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		scope := GetScope(c)
		if scope.UserID() == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "autenticación requerida"})
		}
		if _, ok := allowed[scope.Role()]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "el rol no tiene permiso para esta acción",
			})
		}
		return c.Next()
	}
}

// RequirePermission atajo de RequireRole con los roles que permiten la acción.
func RequirePermission(p entity.Permission) fiber.Handler {
	return RequireRole(entity.RolesWith(p)...)
}

// RequireSuperAdmin exige un superusuario (rutas de administración).
func RequireSuperAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "autenticación requerida"})
		}
		if !p.SuperAdmin {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo superusuarios"})
		}
		return c.Next()
	}
}

// GetPrincipal devuelve el principal del request, nil si es anónimo.
func GetPrincipal(c *fiber.Ctx) *tenancy.Principal {
	p, _ := c.Locals(LocalPrincipal).(*tenancy.Principal)
	return p
}

// GetScope devuelve el scope resuelto. Sin TenantMiddleware solo lleva el principal.
func GetScope(c *fiber.Ctx) tenancy.Scope {
	if s, ok := c.Locals(LocalScope).(tenancy.Scope); ok {
		return s
	}
	return tenancy.Scope{Principal: GetPrincipal(c)}
}

// GetUserID devuelve el UserID del principal.
func GetUserID(c *fiber.Ctx) string {
	if p := GetPrincipal(c); p != nil {
		return p.UserID
	}
	return ""
}

// GetCompanyID devuelve la empresa resuelta del request.
func GetCompanyID(c *fiber.Ctx) string {
	return GetScope(c).CompanyID()
}

// GetRole devuelve el rol en la empresa resuelta.
func GetRole(c *fiber.Ctx) entity.Role {
	return GetScope(c).Role()
}

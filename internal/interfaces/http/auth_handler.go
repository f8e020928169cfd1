package http

import (
	"github.com/gofiber/fiber/v2"
	appaudit "github.com/jhoicas/gestion-pyme/internal/application/audit"
	"github.com/jhoicas/gestion-pyme/internal/application/auth"
	"github.com/jhoicas/gestion-pyme/internal/application/dto"
	"github.com/jhoicas/gestion-pyme/internal/application/tenancy"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
)

// AuthHandler maneja login, logout y alta de usuarios.
type AuthHandler struct {
	uc       *auth.AuthUseCase
	resolver *tenancy.Resolver
	audit    *appaudit.Service
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, resolver *tenancy.Resolver, audit *appaudit.Service) *AuthHandler {
	return &AuthHandler{uc: uc, resolver: resolver, audit: audit}
}

// Login verifica credenciales, resuelve la empresa activa de la sesión y registra el acceso en
// su bitácora.
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, user, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	if err := renewSession(c, user.ID); err != nil {
		return err
	}
	sess := GetSession(c)
	ip := ClientIP(c)
	sess.SetLastIP(ip)

	p := &tenancy.Principal{UserID: user.ID, SuperAdmin: user.IsSuperAdmin}
	scope := h.resolver.Resolve(c.UserContext(), p, sess, tenancy.PathProtected)
	if scope.HasCompany() {
		out.ActiveCompanyID = scope.CompanyID()
		actor := appaudit.Actor{UserID: user.ID, IP: ip}
		h.audit.Log(c.UserContext(), actor.Entry(scope.CompanyID(), entity.ActionLogin, entity.ModelUser, user.ID,
			map[string]any{"email": user.Email}))
	}
	return c.JSON(out)
}

// Logout registra la salida en la empresa activa y destruye la sesión.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	sess := SessionFor(c, p)
	scope := h.resolver.Resolve(c.UserContext(), p, sess, tenancy.PathProtected)
	if scope.HasCompany() {
		h.audit.Log(c.UserContext(), actorOf(c).Entry(scope.CompanyID(), entity.ActionLogout, entity.ModelUser, p.UserID, nil))
	}
	sess.ClearActiveCompanyID()
	if err := destroySession(c); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me devuelve el usuario autenticado.
// GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// CreateUser alta de un usuario sin empresas (superusuario).
// POST /admin/users
func (h *AuthHandler) CreateUser(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.CreateUser(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

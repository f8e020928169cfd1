package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gestion-pyme/internal/application/dto"
	"github.com/jhoicas/gestion-pyme/internal/application/tenancy"
	"github.com/jhoicas/gestion-pyme/internal/application/usecase"
)

// CompanyHandler empresa activa, membresías y configuración.
type CompanyHandler struct {
	uc       *usecase.CompanyUseCase
	resolver *tenancy.Resolver
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(uc *usecase.CompanyUseCase, resolver *tenancy.Resolver) *CompanyHandler {
	return &CompanyHandler{uc: uc, resolver: resolver}
}

// Mine lista las empresas accesibles por el usuario y la activa de la sesión.
// GET /api/companies/mine
func (h *CompanyHandler) Mine(c *fiber.Ctx) error {
	items, err := h.uc.ListMemberships(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.MyCompaniesResponse{
		ActiveCompanyID: GetSession(c).ActiveCompanyID(),
		Items:           items,
	})
}

// Select fija la empresa activa de la sesión; sin membresía válida responde 403.
// POST /api/companies/select
func (h *CompanyHandler) Select(c *fiber.Ctx) error {
	var in dto.SelectCompanyRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	cm, err := h.resolver.Select(c.UserContext(), GetPrincipal(c), GetSession(c), in.CompanyID)
	if err != nil {
		return err
	}
	return c.JSON(dto.MembershipResponse{
		ID:          cm.Membership.ID,
		UserID:      cm.Membership.UserID,
		CompanyID:   cm.Company.ID,
		CompanyName: cm.Company.Name,
		Role:        string(cm.Membership.Role),
		Active:      cm.Membership.Active,
		CreatedAt:   cm.Membership.CreatedAt,
	})
}

// Current datos de la empresa activa.
// GET /api/companies/current
func (h *CompanyHandler) Current(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetScope(c).Company)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update actualiza la empresa activa.
// PUT /api/companies/current
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCompanyRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetScope(c).Company, in, actorOf(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetSettings configuración de la empresa activa.
// GET /api/companies/current/settings
func (h *CompanyHandler) GetSettings(c *fiber.Ctx) error {
	out, err := h.uc.GetSettings(c.UserContext(), GetScope(c).Company)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateSettings cambia la configuración de la empresa activa.
// PUT /api/companies/current/settings
func (h *CompanyHandler) UpdateSettings(c *fiber.Ctx) error {
	var in dto.SettingsRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateSettings(c.UserContext(), GetScope(c).Company, in, actorOf(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListMembers membresías de la empresa activa.
// GET /api/companies/current/members
func (h *CompanyHandler) ListMembers(c *fiber.Ctx) error {
	out, err := h.uc.ListMembers(c.UserContext(), GetScope(c).Company)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": out})
}

// AddMember agrega un usuario existente a la empresa activa.
// POST /api/companies/current/members
func (h *CompanyHandler) AddMember(c *fiber.Ctx) error {
	var in dto.AddMemberRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.AddMember(c.UserContext(), GetScope(c).Company, in, actorOf(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateMember cambia rol y/o estado de una membresía.
// PATCH /api/companies/current/members/:userID
func (h *CompanyHandler) UpdateMember(c *fiber.Ctx) error {
	userID, err := paramID(c, "userID")
	if err != nil {
		return err
	}
	var in dto.UpdateMemberRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateMember(c.UserContext(), GetScope(c).Company, userID, in, actorOf(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Provision crea empresa, configuración y administrador (superusuario).
// POST /admin/companies
func (h *CompanyHandler) Provision(c *fiber.Ctx) error {
	var in dto.ProvisionCompanyRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Provision(c.UserContext(), in, actorOf(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SetActive activa o desactiva una empresa (superusuario).
// PATCH /admin/companies/:id/active
func (h *CompanyHandler) SetActive(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.SetActiveRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.SetActive(c.UserContext(), id, *in.Active, actorOf(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

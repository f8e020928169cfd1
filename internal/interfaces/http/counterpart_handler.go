package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	appaudit "github.com/jhoicas/gestion-pyme/internal/application/audit"
	"github.com/jhoicas/gestion-pyme/internal/application/dto"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
)

// counterpartUseCase contrato común de clientes y proveedores.
// Lo implementan *usecase.CustomerUseCase y *usecase.SupplierUseCase.
type counterpartUseCase interface {
	Create(ctx context.Context, company *entity.Company, in dto.CreateCounterpartRequest, actor appaudit.Actor) (*dto.CounterpartResponse, error)
	Get(ctx context.Context, company *entity.Company, id string) (*dto.CounterpartResponse, error)
	List(ctx context.Context, company *entity.Company, page dto.PageRequest) (*dto.CounterpartListResponse, error)
	Update(ctx context.Context, company *entity.Company, id string, in dto.UpdateCounterpartRequest, actor appaudit.Actor) (*dto.CounterpartResponse, error)
	Delete(ctx context.Context, company *entity.Company, id string, actor appaudit.Actor) error
}

// CounterpartHandler CRUD de clientes o proveedores de la empresa activa.
type CounterpartHandler struct {
	uc counterpartUseCase
}

// NewCounterpartHandler construye el handler.
func NewCounterpartHandler(uc counterpartUseCase) *CounterpartHandler {
	return &CounterpartHandler{uc: uc}
}

// Create POST /api/customers | /api/suppliers
func (h *CounterpartHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCounterpartRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetScope(c).Company, in, actorOf(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/customers/:id | /api/suppliers/:id
func (h *CounterpartHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), GetScope(c).Company, id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List GET /api/customers | /api/suppliers
func (h *CounterpartHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := bindQuery(c, &page); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetScope(c).Company, page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update PUT /api/customers/:id | /api/suppliers/:id
func (h *CounterpartHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.UpdateCounterpartRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetScope(c).Company, id, in, actorOf(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete DELETE /api/customers/:id | /api/suppliers/:id
func (h *CounterpartHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), GetScope(c).Company, id, actorOf(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

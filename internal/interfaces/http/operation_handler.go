package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gestion-pyme/internal/application/dto"
	"github.com/jhoicas/gestion-pyme/internal/application/ledger"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// OperationHandler libro de operaciones: ventas y compras con sus líneas.
type OperationHandler struct {
	svc *ledger.Service
}

// NewOperationHandler construye el handler.
func NewOperationHandler(svc *ledger.Service) *OperationHandler {
	return &OperationHandler{svc: svc}
}

// Create crea una operación en borrador con el siguiente número.
// POST /api/operations
func (h *OperationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOperationRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	var date time.Time
	if in.Date != "" {
		date, _ = time.Parse(dateLayout, in.Date)
	}
	op, err := h.svc.Create(c.UserContext(), GetScope(c).Company, ledger.CreateInput{
		Type:       entity.OperationType(in.Type),
		Date:       date,
		CustomerID: in.CustomerID,
		SupplierID: in.SupplierID,
		Notes:      in.Notes,
	}, actorOf(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toOperationResponse(op, nil))
}

// List GET /api/operations?type=&status=&counterpart_id=&from=&to=&limit=&offset=
func (h *OperationHandler) List(c *fiber.Ctx) error {
	var q dto.OperationQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	if q.Limit == 0 {
		q.Limit = 50
	}
	f := repository.OperationFilter{
		Type:          entity.OperationType(q.Type),
		Status:        entity.OperationStatus(q.Status),
		CounterpartID: q.CounterpartID,
		From:          parseDate(q.From),
		To:            parseDate(q.To),
		Limit:         q.Limit,
		Offset:        q.Offset,
	}
	ops, err := h.svc.List(c.UserContext(), GetScope(c).Company, f)
	if err != nil {
		return err
	}
	items := make([]dto.OperationResponse, 0, len(ops))
	for _, op := range ops {
		items = append(items, *toOperationResponse(op, nil))
	}
	return c.JSON(dto.OperationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	})
}

// GetByID detalle con líneas.
// GET /api/operations/:id
func (h *OperationHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	op, items, err := h.svc.Get(c.UserContext(), GetScope(c).Company, id)
	if err != nil {
		return err
	}
	out := toOperationResponse(op, items)
	if out.Items == nil {
		out.Items = []dto.OperationItemResponse{}
	}
	return c.JSON(out)
}

// Items GET /api/operations/:id/items
func (h *OperationHandler) Items(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.svc.Items(c.UserContext(), GetScope(c).Company, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": toItemResponses(items)})
}

// AddItem agrega una línea a un borrador y devuelve la operación recalculada.
// POST /api/operations/:id/items
func (h *OperationHandler) AddItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.AddItemRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	if _, err := h.svc.AddItem(c.UserContext(), GetScope(c).Company, id, ledger.ItemInput{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
	}, actorOf(c)); err != nil {
		return err
	}
	return h.detail(c, id, fiber.StatusCreated)
}

// UpdateItem PATCH /api/operations/:id/items/:itemID
func (h *OperationHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	itemID, err := paramID(c, "itemID")
	if err != nil {
		return err
	}
	var in dto.UpdateItemRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	if _, err := h.svc.UpdateItem(c.UserContext(), GetScope(c).Company, id, itemID, ledger.ItemPatch{
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
	}, actorOf(c)); err != nil {
		return err
	}
	return h.detail(c, id, fiber.StatusOK)
}

// RemoveItem DELETE /api/operations/:id/items/:itemID
func (h *OperationHandler) RemoveItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	itemID, err := paramID(c, "itemID")
	if err != nil {
		return err
	}
	if _, err := h.svc.RemoveItem(c.UserContext(), GetScope(c).Company, id, itemID, actorOf(c)); err != nil {
		return err
	}
	return h.detail(c, id, fiber.StatusOK)
}

// Confirm mueve stock y confirma. Stock insuficiente responde 422 con el detalle del producto.
// POST /api/operations/:id/confirm
func (h *OperationHandler) Confirm(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	op, err := h.svc.Confirm(c.UserContext(), GetScope(c).Company, id, actorOf(c))
	if err != nil {
		return err
	}
	return c.JSON(toOperationResponse(op, nil))
}

// Cancel POST /api/operations/:id/cancel
func (h *OperationHandler) Cancel(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	op, err := h.svc.Cancel(c.UserContext(), GetScope(c).Company, id, actorOf(c))
	if err != nil {
		return err
	}
	return c.JSON(toOperationResponse(op, nil))
}

// Recalculate recalcula los totales de un borrador con la tasa vigente.
// POST /api/operations/:id/recalculate
func (h *OperationHandler) Recalculate(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	op, err := h.svc.Recalculate(c.UserContext(), GetScope(c).Company, id)
	if err != nil {
		return err
	}
	return c.JSON(toOperationResponse(op, nil))
}

func (h *OperationHandler) detail(c *fiber.Ctx, id string, status int) error {
	op, items, err := h.svc.Get(c.UserContext(), GetScope(c).Company, id)
	if err != nil {
		return err
	}
	out := toOperationResponse(op, items)
	if out.Items == nil {
		out.Items = []dto.OperationItemResponse{}
	}
	return c.Status(status).JSON(out)
}

// parseDate fecha ya validada por el DTO; "" produce nil.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func toOperationResponse(op *entity.Operation, items []*entity.OperationItem) *dto.OperationResponse {
	out := &dto.OperationResponse{
		ID:         op.ID,
		CompanyID:  op.CompanyID,
		Type:       string(op.Type),
		Number:     op.Number,
		Date:       op.Date.Format(dateLayout),
		CustomerID: op.CustomerID,
		SupplierID: op.SupplierID,
		Status:     string(op.Status),
		Subtotal:   op.Subtotal,
		Tax:        op.Tax,
		Total:      op.Total,
		Notes:      op.Notes,
		CreatedBy:  op.CreatedBy,
		CreatedAt:  op.CreatedAt,
		UpdatedAt:  op.UpdatedAt,
	}
	if items != nil {
		out.Items = toItemResponses(items)
	}
	return out
}

func toItemResponses(items []*entity.OperationItem) []dto.OperationItemResponse {
	out := make([]dto.OperationItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.OperationItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	return out
}

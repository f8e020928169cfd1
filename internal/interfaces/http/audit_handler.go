package http

import (
	"github.com/gofiber/fiber/v2"
	appaudit "github.com/jhoicas/gestion-pyme/internal/application/audit"
	"github.com/jhoicas/gestion-pyme/internal/application/dto"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
)

// AuditHandler consulta de bitácora y verificación de anomalías de la empresa activa.
type AuditHandler struct {
	audit   *appaudit.Service
	monitor *appaudit.Monitor
}

// NewAuditHandler construye el handler.
func NewAuditHandler(audit *appaudit.Service, monitor *appaudit.Monitor) *AuditHandler {
	return &AuditHandler{audit: audit, monitor: monitor}
}

// List GET /api/audit?user_id=&action=&limit=
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var q dto.AuditQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	if q.Limit == 0 {
		q.Limit = 100
	}
	logs, err := h.audit.List(c.UserContext(), GetCompanyID(c), repository.AuditFilter{
		UserID: q.UserID,
		Action: entity.AuditAction(q.Action),
		Limit:  q.Limit,
	})
	if err != nil {
		return err
	}
	items := make([]dto.AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		items = append(items, dto.AuditLogResponse{
			ID:        l.ID,
			UserID:    l.UserID,
			Action:    string(l.Action),
			ModelName: l.ModelName,
			ObjectID:  l.ObjectID,
			Changes:   l.Changes,
			IPAddress: l.IPAddress,
			Timestamp: l.Timestamp,
		})
	}
	return c.JSON(fiber.Map{"items": items})
}

// SecurityCheck ejecuta la detección de eliminación masiva para el usuario actual.
// POST /api/security/check
func (h *AuditHandler) SecurityCheck(c *fiber.Ctx) error {
	alerted, err := h.monitor.CheckMassDeletion(c.UserContext(), GetUserID(c), GetCompanyID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.SecurityCheckResponse{MassDeletion: alerted})
}

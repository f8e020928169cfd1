package repository

import (
	"time"

	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
)

// ListFilter filtro común para catálogos (clientes, proveedores, productos).
type ListFilter struct {
	Search     string // coincidencia parcial en código o nombre, sin distinguir mayúsculas
	OnlyActive bool
	Limit      int // 0 = sin límite
	Offset     int
}

// OperationFilter filtro para listar operaciones.
type OperationFilter struct {
	Type          entity.OperationType
	Status        entity.OperationStatus
	CounterpartID string
	From          *time.Time // inclusive
	To            *time.Time // inclusive
	Limit         int
	Offset        int
}

// AuditFilter filtro para consultar la bitácora de una empresa.
type AuditFilter struct {
	UserID string
	Action entity.AuditAction
	Since  *time.Time
	Limit  int
}

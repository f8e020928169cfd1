package entity

import "time"

// AuditAction acción registrada en la bitácora.
type AuditAction string

const (
	ActionCreate        AuditAction = "create"
	ActionUpdate        AuditAction = "update"
	ActionDelete        AuditAction = "delete"
	ActionView          AuditAction = "view"
	ActionLogin         AuditAction = "login"
	ActionLogout        AuditAction = "logout"
	ActionSecurityAlert AuditAction = "security_alert"
)

// Tipos de alerta (changes["alert_type"]).
const (
	AlertMassDeletion      = "MASS_DELETION"
	AlertIPChange          = "IP_CHANGE"
	AlertInvalidMembership = "INVALID_MEMBERSHIP"
	AlertLowStock          = "LOW_STOCK"
)

// Nombres de modelo usados en la bitácora.
const (
	ModelOperation     = "Operation"
	ModelOperationItem = "OperationItem"
	ModelProduct       = "Product"
	ModelCustomer      = "Customer"
	ModelSupplier      = "Supplier"
	ModelCompany       = "Company"
	ModelMembership    = "Membership"
	ModelUser          = "User"
	ModelSecurityAlert = "SecurityAlert"
)

// AuditLog entrada inmutable de la bitácora. Changes ya viene saneado.
type AuditLog struct {
	ID        string
	CompanyID string
	UserID    string // "" = sistema
	Action    AuditAction
	ModelName string
	ObjectID  string
	Changes   map[string]any
	IPAddress string
	Timestamp time.Time
}

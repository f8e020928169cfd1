package dto

import "time"

// AuditQuery filtros de la consulta de bitácora.
type AuditQuery struct {
	UserID string `query:"user_id" validate:"omitempty,uuid"`
	Action string `query:"action" validate:"omitempty,oneof=create update delete view login logout security_alert"`
	Limit  int    `query:"limit" validate:"min=0,max=500"`
}

// AuditLogResponse entrada de la bitácora.
type AuditLogResponse struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id,omitempty"`
	Action    string         `json:"action"`
	ModelName string         `json:"model_name"`
	ObjectID  string         `json:"object_id,omitempty"`
	Changes   map[string]any `json:"changes"`
	IPAddress string         `json:"ip_address,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// SecurityCheckResponse resultado de la verificación bajo demanda.
type SecurityCheckResponse struct {
	MassDeletion bool `json:"mass_deletion"`
}

package entity

import "time"

// Customer representa un cliente de la empresa (contraparte de ventas).
type Customer struct {
	ID        string
	CompanyID string
	Code      string // único por empresa
	Name      string
	TaxID     string
	Email     string
	Phone     string
	Address   string
	Active    bool
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

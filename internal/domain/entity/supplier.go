package entity

import "time"

// Supplier representa un proveedor de la empresa (contraparte de compras).
type Supplier struct {
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

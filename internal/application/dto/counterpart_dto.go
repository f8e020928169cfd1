package dto

import "time"

// CreateCounterpartRequest entrada para crear un cliente o proveedor.
type CreateCounterpartRequest struct {
	Code    string `json:"code" validate:"required,min=1,max=50"`
	Name    string `json:"name" validate:"required,min=1,max=200"`
	TaxID   string `json:"tax_id" validate:"omitempty,max=20"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,max=20"`
	Address string `json:"address"`
}

// UpdateCounterpartRequest actualización parcial de un cliente o proveedor.
type UpdateCounterpartRequest struct {
	Code    *string `json:"code" validate:"omitempty,min=1,max=50"`
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	TaxID   *string `json:"tax_id" validate:"omitempty,max=20"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=20"`
	Address *string `json:"address"`
	Active  *bool   `json:"active"`
}

// CounterpartResponse salida de un cliente o proveedor.
type CounterpartResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CounterpartListResponse lista paginada de clientes o proveedores.
type CounterpartListResponse struct {
	Items []CounterpartResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

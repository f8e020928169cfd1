package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProvisionCompanyRequest alta de una empresa con su configuración y su administrador.
// Si el email del administrador no existe se crea el usuario con AdminPassword.
type ProvisionCompanyRequest struct {
	Name           string           `json:"name" validate:"required,min=1,max=200"`
	TaxID          string           `json:"tax_id" validate:"omitempty,max=20"`
	Address        string           `json:"address"`
	Phone          string           `json:"phone" validate:"omitempty,max=20"`
	Email          string           `json:"email" validate:"omitempty,email"`
	IsDemo         bool             `json:"is_demo"`
	Currency       string           `json:"currency" validate:"omitempty,currency"`
	TaxRateDefault *decimal.Decimal `json:"tax_rate_default"`
	Timezone       string           `json:"timezone" validate:"omitempty,max=50"`
	AdminEmail     string           `json:"admin_email" validate:"required,email"`
	AdminName      string           `json:"admin_name" validate:"omitempty,max=200"`
	AdminPassword  string           `json:"admin_password" validate:"omitempty,min=8"`
}

// UpdateCompanyRequest entrada para actualizar una empresa (campos opcionales).
type UpdateCompanyRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	TaxID   *string `json:"tax_id" validate:"omitempty,max=20"`
	Address *string `json:"address"`
	Phone   *string `json:"phone" validate:"omitempty,max=20"`
	Email   *string `json:"email" validate:"omitempty,email"`
}

// SetActiveRequest activa o desactiva un recurso.
type SetActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	IsDemo    bool      `json:"is_demo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SettingsRequest cambio parcial de la configuración de la empresa.
type SettingsRequest struct {
	Currency       *string          `json:"currency" validate:"omitempty,currency"`
	TaxRateDefault *decimal.Decimal `json:"tax_rate_default"`
	Timezone       *string          `json:"timezone" validate:"omitempty,max=50"`
}

// SettingsResponse configuración de la empresa.
type SettingsResponse struct {
	CompanyID      string          `json:"company_id"`
	Currency       string          `json:"currency"`
	TaxRateDefault decimal.Decimal `json:"tax_rate_default"`
	Timezone       string          `json:"timezone"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// SelectCompanyRequest selección de la empresa activa de la sesión.
type SelectCompanyRequest struct {
	CompanyID string `json:"company_id" validate:"required,uuid"`
}

// AddMemberRequest alta de un usuario existente en la empresa.
type AddMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,role"`
}

// UpdateMemberRequest cambio de rol y/o estado de una membresía.
type UpdateMemberRequest struct {
	Role   *string `json:"role" validate:"omitempty,role"`
	Active *bool   `json:"active"`
}

// MembershipResponse membresía de un usuario en una empresa.
type MembershipResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CompanyID   string    `json:"company_id"`
	CompanyName string    `json:"company_name,omitempty"`
	Role        string    `json:"role"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// MyCompaniesResponse empresas accesibles por el usuario y la activa de la sesión.
type MyCompaniesResponse struct {
	ActiveCompanyID string               `json:"active_company_id,omitempty"`
	Items           []MembershipResponse `json:"items"`
}

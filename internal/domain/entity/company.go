package entity

import (
	"time"

	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/shopspring/decimal"
)

// Company representa una organización/tenant del sistema. Todo dato de negocio pertenece a una.
type Company struct {
	ID        string
	Name      string
	TaxID     string // RUC/NIT, único global
	Address   string
	Phone     string
	Email     string
	Active    bool
	IsDemo    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScopeID devuelve el ID de la empresa para filtrar consultas; nil es un error de configuración.
func (c *Company) ScopeID() (string, error) {
	if c == nil || c.ID == "" {
		return "", domain.ErrNoCompany
	}
	return c.ID, nil
}

// Valores por defecto de CompanySettings.
const (
	DefaultCurrency = "USD"
	DefaultTimezone = "America/Guayaquil"
)

// CompanySettings configuración por empresa (relación 1:1 con Company).
type CompanySettings struct {
	CompanyID      string
	Currency       string
	TaxRateDefault decimal.Decimal // porcentaje, ej. 12.00
	Timezone       string
	UpdatedAt      time.Time
}

// DefaultSettings configuración inicial de una empresa recién creada.
func DefaultSettings(companyID string) *CompanySettings {
	return &CompanySettings{
		CompanyID:      companyID,
		Currency:       DefaultCurrency,
		TaxRateDefault: decimal.Zero,
		Timezone:       DefaultTimezone,
	}
}

package entity

import "time"

// User representa un usuario del sistema. La pertenencia a empresas se modela con Membership.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	IsSuperAdmin bool
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

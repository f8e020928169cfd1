package dto

import "time"

// CreateUserRequest alta de un usuario (password en texto, se hashea en el caso de uso).
type CreateUserRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Name       string `json:"name" validate:"omitempty,max=200"`
	SuperAdmin bool   `json:"is_superadmin"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	SuperAdmin bool      `json:"is_superadmin"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT y usuario. ActiveCompanyID es la empresa resuelta para la sesión, si hay.
type LoginResponse struct {
	Token           string       `json:"token"`
	User            UserResponse `json:"user"`
	ActiveCompanyID string       `json:"active_company_id,omitempty"`
}

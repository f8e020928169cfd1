package entity

import "time"

// Role rol de un usuario dentro de una empresa. Conjunto cerrado.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer"
)

// AllRoles roles admitidos, de mayor a menor privilegio.
var AllRoles = []Role{RoleAdmin, RoleManager, RoleOperator, RoleViewer}

// Permission acción protegida por rol.
type Permission int

const (
	PermRead       Permission = iota // consultar datos de la empresa
	PermWrite                        // crear y editar
	PermApprove                      // confirmar, cancelar, eliminar
	PermAdminister                   // gestionar miembros y configuración
)

// ParseRole valida un rol recibido del exterior.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// Valid indica si el rol es uno de los admitidos.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleOperator, RoleViewer:
		return true
	}
	return false
}

// Allows decide si el rol puede ejecutar la acción.
func (r Role) Allows(p Permission) bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleManager:
		return p != PermAdminister
	case RoleOperator:
		return p == PermRead || p == PermWrite
	case RoleViewer:
		return p == PermRead
	}
	return false
}

// RolesWith roles que permiten la acción.
func RolesWith(p Permission) []Role {
	out := make([]Role, 0, len(AllRoles))
	for _, r := range AllRoles {
		if r.Allows(p) {
			out = append(out, r)
		}
	}
	return out
}

// Membership vincula un usuario con una empresa y su rol en ella. Único por (usuario, empresa).
type Membership struct {
	ID        string
	UserID    string
	CompanyID string
	Role      Role
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CompanyMembership membresía junto con su empresa (ambas activas cuando proviene de una búsqueda válida).
type CompanyMembership struct {
	Membership *Membership
	Company    *Company
}

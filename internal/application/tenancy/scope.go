// Package tenancy resuelve la empresa activa de cada request y la propaga por contexto.
package tenancy

import (
	"context"
	"strings"

	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
)

// Principal identidad autenticada del request.
type Principal struct {
	UserID     string
	SuperAdmin bool
}

// Scope resultado de la resolución: empresa y membresía vigentes, o ninguna.
type Scope struct {
	Principal  *Principal
	Company    *entity.Company
	Membership *entity.Membership
	// Exempt superusuario en rutas de administración: opera sin empresa.
	Exempt bool
}

// HasCompany indica si el request tiene empresa resuelta.
func (s Scope) HasCompany() bool {
	return s.Company != nil
}

// CompanyID ID de la empresa resuelta, "" si no hay.
func (s Scope) CompanyID() string {
	if s.Company == nil {
		return ""
	}
	return s.Company.ID
}

// UserID ID del usuario autenticado, "" si es anónimo.
func (s Scope) UserID() string {
	if s.Principal == nil {
		return ""
	}
	return s.Principal.UserID
}

// Role rol del usuario en la empresa resuelta, "" si no hay.
func (s Scope) Role() entity.Role {
	if s.Membership == nil {
		return ""
	}
	return s.Membership.Role
}

// Allows indica si el rol resuelto permite la acción.
func (s Scope) Allows(p entity.Permission) bool {
	return s.Membership != nil && s.Membership.Role.Allows(p)
}

type scopeKey struct{}

// WithScope adjunta el scope al contexto del request.
func WithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// ScopeFrom recupera el scope del contexto.
func ScopeFrom(ctx context.Context) (Scope, bool) {
	s, ok := ctx.Value(scopeKey{}).(Scope)
	return s, ok
}

// PathClass clasifica la ruta para decidir si corresponde resolver empresa.
type PathClass int

const (
	PathProtected PathClass = iota // requiere resolución
	PathPublic                     // sin resolución (login, health, selección de empresa)
	PathAdmin                      // administración: superusuario opera sin empresa
)

var publicPrefixes = []string{
	"/health",
	"/metrics",
	"/static/",
	"/favicon.ico",
	"/api/auth/",
	"/api/companies/select",
}

// AdminPrefix prefijo de las rutas de administración.
const AdminPrefix = "/admin"

// Classify clasifica una ruta.
func Classify(path string) PathClass {
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return PathPublic
		}
	}
	if path == AdminPrefix || strings.HasPrefix(path, AdminPrefix+"/") {
		return PathAdmin
	}
	return PathProtected
}

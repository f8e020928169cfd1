package repository

import (
	"context"

	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
)

// MembershipRepository define el puerto de persistencia para Membership.
type MembershipRepository interface {
	Create(ctx context.Context, m *entity.Membership) error
	Update(ctx context.Context, m *entity.Membership) error
	// Get devuelve la membresía en cualquier estado.
	Get(ctx context.Context, userID, companyID string) (*entity.Membership, error)
	// FindActive exige membresía activa y empresa activa; en otro caso domain.ErrNotFound.
	FindActive(ctx context.Context, userID, companyID string) (*entity.CompanyMembership, error)
	// ListActiveByUser devuelve las membresías activas con empresa activa, en orden de creación.
	ListActiveByUser(ctx context.Context, userID string) ([]*entity.CompanyMembership, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Membership, error)
}

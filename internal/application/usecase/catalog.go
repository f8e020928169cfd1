package usecase

import (
	"context"

	appaudit "github.com/jhoicas/gestion-pyme/internal/application/audit"
	"github.com/jhoicas/gestion-pyme/internal/application/dto"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
	"github.com/jhoicas/gestion-pyme/pkg/logger"
	"github.com/shopspring/decimal"
)

// CatalogDeps dependencias compartidas por los casos de uso de catálogo.
type CatalogDeps struct {
	Tx      repository.TxRunner
	Repos   repository.Repos // lecturas fuera de transacción
	Audit   *appaudit.Service
	Monitor *appaudit.Monitor
	Log     *logger.Logger
}

// afterDelete verifica eliminación masiva una vez confirmada la eliminación. Un fallo solo se loguea.
func (d CatalogDeps) afterDelete(ctx context.Context, actor appaudit.Actor, companyID string) {
	if d.Monitor == nil {
		return
	}
	if _, err := d.Monitor.CheckMassDeletion(ctx, actor.UserID, companyID); err != nil {
		d.Log.Error().Err(err).Str("company_id", companyID).Msg("error verificando eliminación masiva")
	}
}

func listFilter(p dto.PageRequest) repository.ListFilter {
	p.DefaultPage()
	return repository.ListFilter{Search: p.Search, OnlyActive: p.OnlyActive, Limit: p.Limit, Offset: p.Offset}
}

func pageOf(p dto.PageRequest) dto.PageResponse {
	p.DefaultPage()
	return dto.PageResponse{Limit: p.Limit, Offset: p.Offset}
}

func setIf[T any](dst *T, src *T, changes map[string]any, key string) {
	if src == nil {
		return
	}
	*dst = *src
	changes[key] = *src
}

var hundred = decimal.NewFromInt(100)

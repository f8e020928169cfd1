package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
)

var _ repository.OperationRepository = (*OperationRepo)(nil)

// OperationRepo implementación de OperationRepository (usable con pool o tx).
type OperationRepo struct {
	q Querier
}

// NewOperationRepository construye el adaptador de operaciones. Pasar pool o tx (Querier).
func NewOperationRepository(q Querier) *OperationRepo {
	return &OperationRepo{q: q}
}

const operationColumns = `id, company_id, type, number, date, customer_id::text, supplier_id::text, status,
	subtotal, tax, total, notes, COALESCE(created_by::text, ''), created_at, updated_at`

func scanOperation(row rowScanner) (*entity.Operation, error) {
	var o entity.Operation
	err := row.Scan(&o.ID, &o.CompanyID, &o.Type, &o.Number, &o.Date, &o.CustomerID, &o.SupplierID, &o.Status,
		&o.Subtotal, &o.Tax, &o.Total, &o.Notes, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persiste una operación. (empresa, tipo, número) repetido devuelve ErrDuplicate.
func (r *OperationRepo) Create(ctx context.Context, o *entity.Operation) error {
	if o.CompanyID == "" {
		return domain.ErrNoCompany
	}
	query := `
		INSERT INTO operations (id, company_id, type, number, date, customer_id, supplier_id, status,
			subtotal, tax, total, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.CompanyID, string(o.Type), o.Number, o.Date, o.CustomerID, o.SupplierID, string(o.Status),
		o.Subtotal, o.Tax, o.Total, o.Notes, nullIfEmpty(o.CreatedBy), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert operation: %w", err)
	}
	return nil
}

func (r *OperationRepo) getOne(ctx context.Context, query, op string, args ...any) (*entity.Operation, error) {
	o, err := scanOperation(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

// GetByCompany obtiene una operación de la empresa.
func (r *OperationRepo) GetByCompany(ctx context.Context, companyID, id string) (*entity.Operation, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	query := `SELECT ` + operationColumns + ` FROM operations WHERE company_id = $1 AND id = $2`
	return r.getOne(ctx, query, "get operation", companyID, id)
}

// GetForUpdate obtiene la operación bloqueando su fila hasta el fin de la tx.
func (r *OperationRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Operation, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	query := `SELECT ` + operationColumns + ` FROM operations WHERE company_id = $1 AND id = $2 FOR UPDATE`
	return r.getOne(ctx, query, "get operation for update", companyID, id)
}

// ListByCompany lista operaciones de la empresa, más recientes primero.
func (r *OperationRepo) ListByCompany(ctx context.Context, companyID string, f repository.OperationFilter) ([]*entity.Operation, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	query := `
		SELECT ` + operationColumns + ` FROM operations
		WHERE company_id = $1
		  AND ($2::text IS NULL OR type = $2)
		  AND ($3::text IS NULL OR status = $3)
		  AND ($4::uuid IS NULL OR customer_id = $4 OR supplier_id = $4)
		  AND ($5::date IS NULL OR date >= $5)
		  AND ($6::date IS NULL OR date <= $6)
		ORDER BY date DESC, created_at DESC
		LIMIT $7 OFFSET $8`
	rows, err := r.q.Query(ctx, query, companyID,
		nullIfEmpty(string(f.Type)), nullIfEmpty(string(f.Status)), nullIfEmpty(f.CounterpartID),
		f.From, f.To, limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	defer rows.Close()
	out := []*entity.Operation{}
	for rows.Next() {
		o, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// LockNumbering toma un advisory lock transaccional por (empresa, tipo).
// Junto con la restricción única evita números repetidos entre transacciones concurrentes.
func (r *OperationRepo) LockNumbering(ctx context.Context, companyID string, t entity.OperationType) error {
	if companyID == "" {
		return domain.ErrNoCompany
	}
	_, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, companyID+":"+string(t))
	if err != nil {
		return fmt.Errorf("lock numbering: %w", err)
	}
	return nil
}

// LastNumber mayor número numérico emitido para (empresa, tipo), "" si no hay.
func (r *OperationRepo) LastNumber(ctx context.Context, companyID string, t entity.OperationType) (string, error) {
	if companyID == "" {
		return "", domain.ErrNoCompany
	}
	query := `
		SELECT number FROM operations
		WHERE company_id = $1 AND type = $2 AND number ~ '^[0-9]+$'
		ORDER BY length(ltrim(number, '0')) DESC, ltrim(number, '0') DESC
		LIMIT 1`
	var number string
	err := r.q.QueryRow(ctx, query, companyID, string(t)).Scan(&number)
	if err != nil {
		if isNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("last operation number: %w", err)
	}
	return number, nil
}

// UpdateTotals persiste subtotal, impuesto y total.
func (r *OperationRepo) UpdateTotals(ctx context.Context, o *entity.Operation) error {
	query := `
		UPDATE operations SET subtotal = $3, tax = $4, total = $5, updated_at = now()
		WHERE company_id = $1 AND id = $2
		RETURNING updated_at`
	return r.updateReturning(ctx, o, "update operation totals", query, o.CompanyID, o.ID, o.Subtotal, o.Tax, o.Total)
}

// UpdateStatus persiste el estado.
func (r *OperationRepo) UpdateStatus(ctx context.Context, o *entity.Operation) error {
	query := `
		UPDATE operations SET status = $3, updated_at = now()
		WHERE company_id = $1 AND id = $2
		RETURNING updated_at`
	return r.updateReturning(ctx, o, "update operation status", query, o.CompanyID, o.ID, string(o.Status))
}

func (r *OperationRepo) updateReturning(ctx context.Context, o *entity.Operation, op, query string, args ...any) error {
	if o.CompanyID == "" {
		return domain.ErrNoCompany
	}
	if err := r.q.QueryRow(ctx, query, args...).Scan(&o.UpdatedAt); err != nil {
		if isNoRows(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

const itemColumns = `id, operation_id, product_id, quantity, unit_price, subtotal, created_at`

func scanItem(row rowScanner) (*entity.OperationItem, error) {
	var it entity.OperationItem
	err := row.Scan(&it.ID, &it.OperationID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal, &it.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// CreateItem persiste un ítem.
func (r *OperationRepo) CreateItem(ctx context.Context, it *entity.OperationItem) error {
	query := `INSERT INTO operation_items (` + itemColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, it.ID, it.OperationID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal, it.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert operation item: %w", err)
	}
	return nil
}

// GetItem obtiene un ítem de la operación.
func (r *OperationRepo) GetItem(ctx context.Context, operationID, itemID string) (*entity.OperationItem, error) {
	query := `SELECT ` + itemColumns + ` FROM operation_items WHERE operation_id = $1 AND id = $2`
	it, err := scanItem(r.q.QueryRow(ctx, query, operationID, itemID))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get operation item: %w", err)
	}
	return it, nil
}

// UpdateItem persiste cantidad, precio y subtotal del ítem.
func (r *OperationRepo) UpdateItem(ctx context.Context, it *entity.OperationItem) error {
	query := `
		UPDATE operation_items SET quantity = $3, unit_price = $4, subtotal = $5
		WHERE operation_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, it.OperationID, it.ID, it.Quantity, it.UnitPrice, it.Subtotal)
	if err != nil {
		return fmt.Errorf("update operation item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteItem elimina un ítem de la operación.
func (r *OperationRepo) DeleteItem(ctx context.Context, operationID, itemID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM operation_items WHERE operation_id = $1 AND id = $2`, operationID, itemID)
	if err != nil {
		return fmt.Errorf("delete operation item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListItems ítems de la operación en orden de creación.
func (r *OperationRepo) ListItems(ctx context.Context, operationID string) ([]*entity.OperationItem, error) {
	query := `SELECT ` + itemColumns + ` FROM operation_items WHERE operation_id = $1 ORDER BY created_at, seq`
	rows, err := r.q.Query(ctx, query, operationID)
	if err != nil {
		return nil, fmt.Errorf("list operation items: %w", err)
	}
	defer rows.Close()
	out := []*entity.OperationItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan operation item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

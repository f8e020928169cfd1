package repository

import "context"

// Repos agrupa los repositorios de un mismo backend (pool o transacción).
type Repos struct {
	Companies   CompanyRepository
	Users       UserRepository
	Memberships MembershipRepository
	Customers   CustomerRepository
	Suppliers   SupplierRepository
	Products    ProductRepository
	Operations  OperationRepository
	Audit       AuditLogRepository
	Reports     ReportRepository
}

// TxRunner ejecuta fn con repositorios atados a una transacción: Commit si fn no devuelve error,
// Rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Repos) error) error
}

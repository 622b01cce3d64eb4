package repo

import "database/sql"

// Repositories groups the stores the HTTP layer and the ledger depend on.
type Repositories struct {
	Products     ProductRepository
	Suppliers    SupplierRepository
	Categories   CategoryRepository
	Transactions TransactionRepository
	Users        UserRepository
	Reports      ReportRepository
}

func NewInMemoryRepositories(db *MemoryDB) Repositories {
	return Repositories{
		Products:     NewInMemoryProductRepository(db),
		Suppliers:    NewInMemorySupplierRepository(db),
		Categories:   NewInMemoryCategoryRepository(db),
		Transactions: NewInMemoryTransactionRepository(db),
		Users:        NewInMemoryUserRepository(db),
		Reports:      NewInMemoryReportRepository(db),
	}
}

func NewPostgresRepositories(db *sql.DB) Repositories {
	return Repositories{
		Products:     NewPostgresProductRepository(db),
		Suppliers:    NewPostgresSupplierRepository(db),
		Categories:   NewPostgresCategoryRepository(db),
		Transactions: NewPostgresTransactionRepository(db),
		Users:        NewPostgresUserRepository(db),
		Reports:      NewPostgresReportRepository(db),
	}
}

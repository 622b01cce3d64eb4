package repo

import (
	"sync"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

// MemoryDB is the shared backing store of the in-memory repositories. A single
// lock covers every table so that ledger writes are atomic across products and
// transactions.
type MemoryDB struct {
	mu sync.RWMutex

	products     []models.Product
	suppliers    []models.Supplier
	categories   []models.Category
	transactions []models.Transaction
	users        []models.User

	nextProductID     int
	nextSupplierID    int
	nextCategoryID    int
	nextTransactionID int
	nextUserID        int

	now func() time.Time
}

func NewMemoryDB() *MemoryDB {
	db := &MemoryDB{now: func() time.Time { return time.Now().UTC() }}
	db.reset()
	return db
}

// SetClock overrides the timestamp source. Used by tests.
func (db *MemoryDB) SetClock(now func() time.Time) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.now = now
}

// Clear drops every row and resets the id sequences.
func (db *MemoryDB) Clear() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.reset()
}

func (db *MemoryDB) reset() {
	db.products = []models.Product{}
	db.suppliers = []models.Supplier{}
	db.categories = []models.Category{}
	db.transactions = []models.Transaction{}
	db.users = []models.User{}
	db.nextProductID = 1
	db.nextSupplierID = 1
	db.nextCategoryID = 1
	db.nextTransactionID = 1
	db.nextUserID = 1
}

func (db *MemoryDB) productIndex(id int) int {
	for i, p := range db.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (db *MemoryDB) supplierIndex(id int) int {
	for i, s := range db.suppliers {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// withSupplierName fills the denormalized supplier name. Caller holds the lock.
func (db *MemoryDB) withSupplierName(p models.Product) models.Product {
	if i := db.supplierIndex(p.SupplierID); i >= 0 {
		p.SupplierName = db.suppliers[i].Name
	}
	return p
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// paginate returns the [offset, offset+limit) window of n items.
func paginate(n int, offset, limit *int) (int, int) {
	start := 0
	if offset != nil {
		start = clamp(*offset, 0, n)
	}
	end := n
	if limit != nil && *limit > 0 && *limit < n-start {
		end = start + *limit
	}
	return start, end
}

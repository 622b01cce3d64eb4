package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

const supplierColumns = `id, name, contact_person, email, phone, address, created_at, updated_at`

func scanSupplier(row rowScanner) (models.Supplier, error) {
	var s models.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.ContactPerson, &s.Email, &s.Phone, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

type PostgresSupplierRepository struct {
	db *sql.DB
}

func NewPostgresSupplierRepository(db *sql.DB) *PostgresSupplierRepository {
	return &PostgresSupplierRepository{db: db}
}

func (r *PostgresSupplierRepository) Create(ctx context.Context, s models.Supplier) (models.Supplier, error) {
	query := `INSERT INTO suppliers (name, contact_person, email, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING ` + supplierColumns
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	created, err := scanSupplier(r.db.QueryRowContext(ctx, query,
		s.Name, s.ContactPerson, s.Email, s.Phone, s.Address, time.Now().UTC()))
	if err != nil {
		return models.Supplier{}, fmt.Errorf("failed to insert supplier: %w", err)
	}
	return created, nil
}

func (r *PostgresSupplierRepository) GetAll(ctx context.Context) ([]models.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suppliers := []models.Supplier{}
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func (r *PostgresSupplierRepository) GetByID(ctx context.Context, id int) (models.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	s, err := scanSupplier(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Supplier{}, ErrSupplierNotFound
	}
	return s, err
}

func (r *PostgresSupplierRepository) Update(ctx context.Context, id int, cs SupplierChangeSet) (models.Supplier, error) {
	changes := cs.toMap()
	if len(changes) == 0 {
		return r.GetByID(ctx, id)
	}
	changes["updated_at"] = time.Now().UTC()

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	s, err := scanSupplier(psql.Update("suppliers").
		SetMap(changes).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + supplierColumns).
		RunWith(r.db).
		QueryRowContext(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Supplier{}, ErrSupplierNotFound
	}
	if err != nil {
		return models.Supplier{}, fmt.Errorf("failed to update supplier: %w", err)
	}
	return s, nil
}

func (r *PostgresSupplierRepository) Delete(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var hasProducts bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE supplier_id = $1)`, id).Scan(&hasProducts)
	if err != nil {
		return err
	}
	if hasProducts {
		return ErrSupplierHasProducts
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		// a product was attached between the check and the delete
		return ErrSupplierHasProducts
	}
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrSupplierNotFound
	}
	return nil
}

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

const productColumns = `p.id, p.sku, p.name, p.description, p.category, p.price, p.quantity,
	p.reorder_level, p.supplier_id, s.name, p.created_at, p.updated_at`

const productFrom = `products p JOIN suppliers s ON s.id = p.supplier_id`

func scanProduct(row rowScanner) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Category, &p.Price, &p.Quantity,
		&p.ReorderLevel, &p.SupplierID, &p.SupplierName, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func scanProducts(rows *sql.Rows) ([]models.Product, error) {
	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func (r *PostgresProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	query := `INSERT INTO products (sku, name, description, category, price, quantity, reorder_level, supplier_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9) RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var id int
	err := r.db.QueryRowContext(ctx, query, p.SKU, p.Name, p.Description, p.Category, p.Price, p.Quantity,
		p.ReorderLevel, p.SupplierID, time.Now().UTC()).Scan(&id)
	switch {
	case isUniqueViolation(err):
		return models.Product{}, fmt.Errorf("sku %q: %w", p.SKU, ErrDuplicatedValueUnique)
	case isForeignKeyViolation(err):
		return models.Product{}, ErrSupplierNotFound
	case err != nil:
		return models.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM ` + productFrom + ` ORDER BY p.id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id int) (models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM ` + productFrom + ` WHERE p.id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) GetBySKU(ctx context.Context, sku string) (models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM ` + productFrom + ` WHERE p.sku = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, sku))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) Update(ctx context.Context, id int, cs ProductChangeSet) (models.Product, error) {
	changes := cs.toMap()
	if len(changes) == 0 {
		return r.GetByID(ctx, id)
	}
	changes["updated_at"] = time.Now().UTC()

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := psql.Update("products").
		SetMap(changes).
		Where(sq.Eq{"id": id}).
		RunWith(r.db).
		ExecContext(ctx)
	switch {
	case isUniqueViolation(err):
		return models.Product{}, fmt.Errorf("sku %q: %w", *cs.SKU, ErrDuplicatedValueUnique)
	case isForeignKeyViolation(err):
		return models.Product{}, ErrSupplierNotFound
	case err != nil:
		return models.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Product{}, ErrProductNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes the product; its transactions go with it (ON DELETE CASCADE).
func (r *PostgresProductRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *PostgresProductRepository) Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error) {
	conditions := filterConditions(pf)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var totalCount int
	err := psql.Select("COUNT(*)").
		From(productFrom).
		Where(conditions).
		RunWith(r.db).
		QueryRowContext(ctx).
		Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	if pf.Offset != nil && *pf.Offset >= totalCount {
		return []models.Product{}, totalCount, nil
	}

	query := psql.Select(productColumns).
		From(productFrom).
		Where(conditions).
		OrderBy("p.id")

	limit := defaultLimit
	if pf.Limit != nil && *pf.Limit > 0 {
		limit = min(*pf.Limit, defaultLimit)
	}
	query = query.Limit(uint64(limit))
	if pf.Offset != nil && *pf.Offset > 0 {
		query = query.Offset(uint64(*pf.Offset))
	}

	rows, err := query.RunWith(r.db).QueryContext(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, totalCount, nil
}

func filterConditions(pf ProductFilter) sq.And {
	conditions := sq.And{}

	if pf.Name != "" {
		conditions = append(conditions, sq.ILike{"p.name": "%" + pf.Name + "%"})
	}
	if pf.Category != "" {
		conditions = append(conditions, sq.Expr("LOWER(p.category) = LOWER(?)", pf.Category))
	}
	if pf.SupplierID != nil {
		conditions = append(conditions, sq.Eq{"p.supplier_id": *pf.SupplierID})
	}
	if pf.MinPrice != nil {
		conditions = append(conditions, sq.GtOrEq{"p.price": *pf.MinPrice})
	}
	if pf.MaxPrice != nil {
		conditions = append(conditions, sq.LtOrEq{"p.price": *pf.MaxPrice})
	}
	if pf.MinQty != nil {
		conditions = append(conditions, sq.GtOrEq{"p.quantity": *pf.MinQty})
	}
	if pf.MaxQty != nil {
		conditions = append(conditions, sq.LtOrEq{"p.quantity": *pf.MaxQty})
	}
	return conditions
}

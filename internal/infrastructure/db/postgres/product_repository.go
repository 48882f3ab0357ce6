package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

type ProductRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db, timeout: defaultTimeout}
}

// List returns products ordered by id, together with the total row count.
func (r *ProductRepository) List(ctx context.Context, offset, limit int) ([]domain.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	const query = `SELECT id, name, price, created_at FROM products ORDER BY id LIMIT $1 OFFSET $2`

	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, storeErr("list products", err)
	}
	defer rows.Close()

	items := make([]domain.Product, 0, limit)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.CreatedAt); err != nil {
			return nil, 0, storeErr("scan product", err)
		}
		p.CreatedAt = p.CreatedAt.UTC()
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storeErr("list products", err)
	}
	return items, total, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	const query = `SELECT id, name, price, created_at FROM products WHERE id = $1`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, storeErr("find product", err)
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	const query = `INSERT INTO products (name, price, created_at) VALUES ($1, $2, $3) RETURNING id`

	created := *p
	if err := r.db.QueryRowContext(ctx, query, p.Name, p.Price, p.CreatedAt).Scan(&created.ID); err != nil {
		return nil, storeErr("insert product", err)
	}
	return &created, nil
}

// Update replaces name and price. created_at is never written.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	const query = `UPDATE products SET name = $1, price = $2 WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, p.Name, p.Price, p.ID)
	if err != nil {
		return storeErr("update product", err)
	}
	return expectOneRow(res, "update product")
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	const query = `DELETE FROM products WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return storeErr("delete product", err)
	}
	return expectOneRow(res, "delete product")
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, storeErr("count products", err)
	}
	return n, nil
}

func expectOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr(op, err)
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Product mirrors the 'products' table.  Price is stored as DECIMAL(10,2)
// and scanned into a float64, matching how the API exposes it.
type Product struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

const productCols = "id,name,description,category,price,created_at,updated_at"

func scanProduct(row interface{ Scan(...any) error }) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Create inserts a product and returns its ID.  Name uniqueness is enforced
// by the uq_products_name index; a duplicate maps to ErrProductNameExists.
func (r *ProductRepo) Create(ctx context.Context, name, description, category string, price float64) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO products (name, description, category, price) VALUES (?,?,?,?)",
		name, description, category, price)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrProductNameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a single product.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (Product, error) {
	p, err := scanProduct(r.DB.QueryRowContext(ctx,
		"SELECT "+productCols+" FROM products WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	return p, err
}

// Update replaces all four mutable fields of a product.  It fails with
// ErrProductNotFound when the id is absent and with ErrProductNameExists
// when the new name belongs to a different product.
func (r *ProductRepo) Update(ctx context.Context, id uint64, name, description, category string, price float64) error {
	var exists uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM products WHERE id=? LIMIT 1", id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE products SET name=?, description=?, category=?, price=? WHERE id=?",
		name, description, category, price, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrProductNameExists
		}
		return err
	}
	return nil
}

// Delete removes a product by id.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}

// likeEscaper neutralizes LIKE metacharacters so a query like "100%" only
// matches the literal text.  Backslash must go first.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a case-insensitive substring pattern for LIKE.
func likePattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
}

// Search performs a case-insensitive substring match against name,
// description and category.  An empty query matches every product.
func (r *ProductRepo) Search(ctx context.Context, query string) ([]Product, error) {
	pattern := likePattern(query)
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+productCols+` FROM products
		 WHERE LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?
		 ORDER BY id ASC`,
		pattern, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0, 16)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns one page of products plus the total count.  The two reads
// are separate queries, so the count may drift under concurrent writes.
func (r *ProductRepo) List(ctx context.Context, page, limit int) ([]Product, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+productCols+" FROM products ORDER BY id ASC LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Product, 0, limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Order is an immutable snapshot of a cart at placement time.  Items are
// eager-loaded when listing; nothing ever updates an order row.
type Order struct {
	ID        uint64     `json:"id"`
	UserID    uint64     `json:"user_id"`
	Products  []CartItem `json:"products"`
	CreatedAt time.Time  `json:"created_at"`
}

// OrderRepo persists orders and their item snapshots.  Placement runs as a
// single transaction so the order insert and the cart clear cannot be
// observed (or survive a crash) separately.
type OrderRepo struct {
	db    *sql.DB
	carts *CartRepo
}

func NewOrderRepo(db *sql.DB, carts *CartRepo) *OrderRepo {
	return &OrderRepo{db: db, carts: carts}
}

// Place converts the user's cart into an order.  The user row is locked
// FOR UPDATE for the duration of the transaction, which serializes
// concurrent cart mutations and placements for the same user.  An empty
// cart aborts with ErrEmptyCart before anything is written.  It returns
// the new order id and the snapshot that was ordered.
func (r *OrderRepo) Place(ctx context.Context, userID uint64) (uint64, []CartItem, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var locked uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM users WHERE id=? FOR UPDATE", userID).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil, ErrUserNotFound
	}
	if err != nil {
		return 0, nil, err
	}

	items, err := r.carts.ItemsTx(ctx, tx, userID)
	if err != nil {
		return 0, nil, err
	}
	if len(items) == 0 {
		return 0, nil, ErrEmptyCart
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO orders (user_id) VALUES (?)", userID)
	if err != nil {
		return 0, nil, err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return 0, nil, err
	}

	// Bulk insert the snapshot rows in one statement.
	query := "INSERT INTO order_items (order_id, product_id, quantity) VALUES "
	args := make([]any, 0, len(items)*3)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?,?,?)"
		args = append(args, orderID, it.ProductID, it.Quantity)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, nil, err
	}

	if err := r.carts.ClearTx(ctx, tx, userID); err != nil {
		return 0, nil, err
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, err
	}
	committed = true
	return uint64(orderID), items, nil
}

// ListByUser returns one page of the user's orders, newest first, plus the
// total count.  Each order carries its full item snapshot.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64, page, limit int) ([]Order, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM orders WHERE user_id=?", userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, created_at FROM orders WHERE user_id=? ORDER BY id DESC LIMIT ? OFFSET ?",
		userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]Order, 0, limit)
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.CreatedAt); err != nil {
			return nil, 0, err
		}
		o.Products = []CartItem{}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range orders {
		items, err := r.itemsFor(ctx, orders[i].ID)
		if err != nil {
			return nil, 0, err
		}
		orders[i].Products = items
	}
	return orders, total, nil
}

func (r *OrderRepo) itemsFor(ctx context.Context, orderID uint64) ([]CartItem, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT product_id, quantity FROM order_items WHERE order_id=? ORDER BY product_id ASC",
		orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCartItems(rows)
}

package repository

import (
	"context"
	"database/sql"
)

// CartItem is one line of a user's cart.  The (user_id, product_id)
// primary key means a product can appear at most once per cart; adding it
// again accumulates the quantity instead of creating a second row.
type CartItem struct {
	ProductID uint64 `json:"product_id"`
	Quantity  uint32 `json:"quantity"`
}

type CartRepo struct{ DB *sql.DB }

func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{DB: db} }

// Add upserts a cart line for the user, merging quantities on repeat adds.
// The caller must have verified that the user exists; a missing user still
// surfaces here as a foreign key error from MySQL.
func (r *CartRepo) Add(ctx context.Context, userID, productID uint64, quantity uint32) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO cart_items (user_id, product_id, quantity) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`,
		userID, productID, quantity)
	return err
}

// Remove deletes the cart line for the given product, whatever its
// quantity.  Removing a product that is not in the cart is a no-op.
func (r *CartRepo) Remove(ctx context.Context, userID, productID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM cart_items WHERE user_id=? AND product_id=?",
		userID, productID)
	return err
}

// Items returns the user's current cart ordered by product id.
func (r *CartRepo) Items(ctx context.Context, userID uint64) ([]CartItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT product_id, quantity FROM cart_items WHERE user_id=? ORDER BY product_id ASC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCartItems(rows)
}

// ItemsTx is Items inside an existing transaction.  Order placement uses
// it so the snapshot it reads is the one that gets cleared.
func (r *CartRepo) ItemsTx(ctx context.Context, tx *sql.Tx, userID uint64) ([]CartItem, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT product_id, quantity FROM cart_items WHERE user_id=? ORDER BY product_id ASC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCartItems(rows)
}

// ClearTx empties the user's cart within the provided transaction.
func (r *CartRepo) ClearTx(ctx context.Context, tx *sql.Tx, userID uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id=?", userID)
	return err
}

func collectCartItems(rows *sql.Rows) ([]CartItem, error) {
	out := make([]CartItem, 0, 8)
	for rows.Next() {
		var it CartItem
		if err := rows.Scan(&it.ProductID, &it.Quantity); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

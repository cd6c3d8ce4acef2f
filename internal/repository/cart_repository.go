package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// GetOrCreate retrieves the user's cart, creating it on first use.
// ON CONFLICT covers the race where two requests create concurrently.
func (r *cartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	cart, err := r.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	query := `
		INSERT INTO carts (id, user_id, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING id, user_id, updated_at
	`

	var c model.Cart
	err = r.pool.QueryRow(ctx, query, uuid.New(), userID, time.Now()).Scan(
		&c.ID, &c.UserID, &c.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to create cart")
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	r.logger.Debug().Str("cart_id", c.ID.String()).Msg("cart created")

	return &c, nil
}

// GetByUser retrieves the user's cart.
func (r *cartRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	var c model.Cart
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, updated_at FROM carts WHERE user_id = $1`, userID).Scan(
		&c.ID, &c.UserID, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	return &c, nil
}

// GetByID retrieves a cart by ID.
func (r *cartRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Cart, error) {
	var c model.Cart
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, updated_at FROM carts WHERE id = $1`, id).Scan(
		&c.ID, &c.UserID, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("cart_id", id.String()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	return &c, nil
}

// GetItem retrieves the (cart, product) item.
func (r *cartRepository) GetItem(ctx context.Context, cartID, productID uuid.UUID) (*model.CartItem, error) {
	var item model.CartItem
	err := r.pool.QueryRow(ctx,
		`SELECT id, cart_id, product_id, quantity FROM cart_items WHERE cart_id = $1 AND product_id = $2`,
		cartID, productID).Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to query cart item")
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	}

	return &item, nil
}

// GetItemByID retrieves a cart item by ID.
func (r *cartRepository) GetItemByID(ctx context.Context, itemID uuid.UUID) (*model.CartItem, error) {
	var item model.CartItem
	err := r.pool.QueryRow(ctx,
		`SELECT id, cart_id, product_id, quantity FROM cart_items WHERE id = $1`, itemID).Scan(
		&item.ID, &item.CartID, &item.ProductID, &item.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to query cart item")
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	}

	return &item, nil
}

// CreateItem inserts a new cart item.
func (r *cartRepository) CreateItem(ctx context.Context, item *model.CartItem) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO cart_items (id, cart_id, product_id, quantity) VALUES ($1, $2, $3, $4)`,
		item.ID, item.CartID, item.ProductID, item.Quantity)
	if err != nil {
		r.logger.Error().Err(err).
			Str("cart_id", item.CartID.String()).
			Str("product_id", item.ProductID.String()).
			Msg("failed to create cart item")
		return fmt.Errorf("failed to create cart item: %w", err)
	}

	return nil
}

// UpdateItemQuantity sets the quantity of an existing item.
func (r *cartRepository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cart_items SET quantity = $2 WHERE id = $1`, itemID, quantity)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to update cart item quantity")
		return fmt.Errorf("failed to update cart item quantity: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// DeleteItem removes a cart item.
func (r *cartRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to delete cart item")
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	return nil
}

// ListLines retrieves the cart's items joined with live product data.
// Subtotals are computed by the service, never stored.
func (r *cartRepository) ListLines(ctx context.Context, cartID uuid.UUID) ([]model.CartLine, error) {
	query := `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity,
		       p.name, p.price, p.stock_quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY p.name
	`

	rows, err := r.pool.Query(ctx, query, cartID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to query cart lines")
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		var line model.CartLine
		err := rows.Scan(&line.Item.ID, &line.Item.CartID, &line.Item.ProductID, &line.Item.Quantity,
			&line.ProductName, &line.UnitPrice, &line.StockQuantity)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart line row")
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart line rows")
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	return lines, nil
}

// ClearItems deletes all items of a cart within the provided transaction.
func (r *cartRepository) ClearItems(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error {
	_, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to clear cart items")
		return fmt.Errorf("failed to clear cart items: %w", err)
	}

	r.logger.Debug().Str("cart_id", cartID.String()).Msg("cart items cleared")

	return nil
}

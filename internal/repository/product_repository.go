package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// Search retrieves active products matching the query and category filter.
// Review aggregates and the primary image key are computed per row.
func (r *productRepository) Search(ctx context.Context, query string, categoryID *uuid.UUID, limit, offset int) ([]model.ProductListing, error) {
	sql := `
		SELECT p.id, p.category_id, p.name, p.description_html, p.price,
		       p.stock_quantity, p.is_active, p.created_at,
		       pi.object_key,
		       COALESCE(AVG(rv.rating), 0) AS average_rating,
		       COUNT(rv.id) AS review_count
		FROM products p
		LEFT JOIN product_images pi ON pi.product_id = p.id AND pi.is_primary
		LEFT JOIN reviews rv ON rv.product_id = p.id
		WHERE p.is_active
		  AND ($1 = '' OR p.name ILIKE '%' || $1 || '%' OR p.description_html ILIKE '%' || $1 || '%')
		  AND ($2::uuid IS NULL OR p.category_id = $2)
		GROUP BY p.id, pi.object_key
		ORDER BY p.name
		LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, sql, query, categoryID, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Str("query", query).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to search products")
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	var listings []model.ProductListing
	for rows.Next() {
		var l model.ProductListing
		err := rows.Scan(&l.ID, &l.CategoryID, &l.Name, &l.DescriptionHTML, &l.Price,
			&l.StockQuantity, &l.IsActive, &l.CreatedAt,
			&l.PrimaryImageKey, &l.AverageRating, &l.ReviewCount)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product listing row")
			return nil, fmt.Errorf("failed to scan product listing: %w", err)
		}
		listings = append(listings, l)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product listing rows")
		return nil, fmt.Errorf("error iterating product listings: %w", err)
	}

	return listings, nil
}

// GetByID retrieves a product regardless of active flag.
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.getProduct(ctx, id, false)
}

// GetActiveByID retrieves an active product.
func (r *productRepository) GetActiveByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.getProduct(ctx, id, true)
}

func (r *productRepository) getProduct(ctx context.Context, id uuid.UUID, activeOnly bool) (*model.Product, error) {
	sql := `
		SELECT id, category_id, name, description_html, price, stock_quantity, is_active, created_at
		FROM products
		WHERE id = $1
	`
	if activeOnly {
		sql += " AND is_active"
	}

	var p model.Product
	err := r.pool.QueryRow(ctx, sql, id).Scan(
		&p.ID, &p.CategoryID, &p.Name, &p.DescriptionHTML,
		&p.Price, &p.StockQuantity, &p.IsActive, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id.String()).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// Create inserts a new product.
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	sql := `
		INSERT INTO products (id, category_id, name, description_html, price, stock_quantity, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, sql,
		product.ID, product.CategoryID, product.Name, product.DescriptionHTML,
		product.Price, product.StockQuantity, product.IsActive, product.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", product.ID.String()).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update replaces the mutable fields of a product.
func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	sql := `
		UPDATE products
		SET category_id = $2, name = $3, description_html = $4, price = $5,
		    stock_quantity = $6, is_active = $7
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, sql,
		product.ID, product.CategoryID, product.Name, product.DescriptionHTML,
		product.Price, product.StockQuantity, product.IsActive)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", product.ID.String()).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// Delete removes a product.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// ListCategories retrieves all categories.
func (r *productRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, parent_id FROM categories ORDER BY name`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ParentID); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan category row")
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating category rows")
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// CreateCategory inserts a new category.
func (r *productRepository) CreateCategory(ctx context.Context, category *model.Category) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO categories (id, name, parent_id) VALUES ($1, $2, $3)`,
		category.ID, category.Name, category.ParentID)
	if err != nil {
		r.logger.Error().Err(err).Str("category_id", category.ID.String()).Msg("failed to create category")
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// AddImage attaches an image to a product.
func (r *productRepository) AddImage(ctx context.Context, image *model.ProductImage) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO product_images (id, product_id, object_key, is_primary) VALUES ($1, $2, $3, $4)`,
		image.ID, image.ProductID, image.ObjectKey, image.IsPrimary)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", image.ProductID.String()).Msg("failed to add product image")
		return fmt.Errorf("failed to add product image: %w", err)
	}

	return nil
}

// SetPrimaryImage marks one image as primary and demotes the rest.
// Both statements run in one transaction so a product never ends up with
// two primary images.
func (r *productRepository) SetPrimaryImage(ctx context.Context, productID, imageID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE product_images SET is_primary = FALSE WHERE product_id = $1`, productID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to demote product images")
		return fmt.Errorf("failed to demote product images: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE product_images SET is_primary = TRUE WHERE id = $1 AND product_id = $2`,
		imageID, productID)
	if err != nil {
		r.logger.Error().Err(err).Str("image_id", imageID.String()).Msg("failed to promote product image")
		return fmt.Errorf("failed to promote product image: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// AddAttribute attaches a name/value attribute to a product.
func (r *productRepository) AddAttribute(ctx context.Context, attribute *model.ProductAttribute) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO product_attributes (id, product_id, name, value) VALUES ($1, $2, $3, $4)`,
		attribute.ID, attribute.ProductID, attribute.Name, attribute.Value)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", attribute.ProductID.String()).Msg("failed to add product attribute")
		return fmt.Errorf("failed to add product attribute: %w", err)
	}

	return nil
}

// GetAttributes retrieves all attributes of a product, by name.
func (r *productRepository) GetAttributes(ctx context.Context, productID uuid.UUID) ([]model.ProductAttribute, error) {
	sql := `
		SELECT id, product_id, name, value
		FROM product_attributes
		WHERE product_id = $1
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, sql, productID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to query product attributes")
		return nil, fmt.Errorf("failed to query product attributes: %w", err)
	}
	defer rows.Close()

	var attributes []model.ProductAttribute
	for rows.Next() {
		var a model.ProductAttribute
		if err := rows.Scan(&a.ID, &a.ProductID, &a.Name, &a.Value); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product attribute row")
			return nil, fmt.Errorf("failed to scan product attribute: %w", err)
		}
		attributes = append(attributes, a)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product attribute rows")
		return nil, fmt.Errorf("error iterating product attributes: %w", err)
	}

	return attributes, nil
}

// DeleteAttribute removes one attribute of a product.
func (r *productRepository) DeleteAttribute(ctx context.Context, productID, attributeID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM product_attributes WHERE id = $1 AND product_id = $2`,
		attributeID, productID)
	if err != nil {
		r.logger.Error().Err(err).Str("attribute_id", attributeID.String()).Msg("failed to delete product attribute")
		return fmt.Errorf("failed to delete product attribute: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// GetImages retrieves all images for a product, primary first.
func (r *productRepository) GetImages(ctx context.Context, productID uuid.UUID) ([]model.ProductImage, error) {
	sql := `
		SELECT id, product_id, object_key, is_primary
		FROM product_images
		WHERE product_id = $1
		ORDER BY is_primary DESC, id
	`

	rows, err := r.pool.Query(ctx, sql, productID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to query product images")
		return nil, fmt.Errorf("failed to query product images: %w", err)
	}
	defer rows.Close()

	var images []model.ProductImage
	for rows.Next() {
		var img model.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.ObjectKey, &img.IsPrimary); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product image row")
			return nil, fmt.Errorf("failed to scan product image: %w", err)
		}
		images = append(images, img)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product image rows")
		return nil, fmt.Errorf("error iterating product images: %w", err)
	}

	return images, nil
}

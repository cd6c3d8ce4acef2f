package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"storefront/internal/imagestore"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// catalogService implements CatalogService.
type catalogService struct {
	productRepo repository.ProductRepository
	reviewRepo  repository.ReviewRepository
	images      imagestore.Store
	logger      zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	productRepo repository.ProductRepository,
	reviewRepo repository.ReviewRepository,
	images imagestore.Store,
	logger zerolog.Logger,
) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
		images:      images,
		logger:      logger.With().Str("service", "catalog").Logger(),
	}
}

// Search retrieves active products matching the query and category filter.
func (s *catalogService) Search(ctx context.Context, query string, categoryID *uuid.UUID, limit, offset int) ([]model.ProductListing, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	listings, err := s.productRepo.Search(ctx, query, categoryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return listings, nil
}

// GetProduct retrieves a full product page for an active product.
func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*model.ProductDetail, error) {
	product, err := s.productRepo.GetActiveByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrNotFound
	}

	images, err := s.productRepo.GetImages(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product images: %w", err)
	}

	attributes, err := s.productRepo.GetAttributes(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product attributes: %w", err)
	}

	reviews, err := s.reviewRepo.ListByProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	average := 0.0
	if len(reviews) > 0 {
		sum := 0
		for _, rv := range reviews {
			sum += rv.Rating
		}
		average = float64(sum) / float64(len(reviews))
	}

	return &model.ProductDetail{
		Product:       *product,
		Images:        images,
		Attributes:    attributes,
		Reviews:       reviews,
		AverageRating: average,
	}, nil
}

// ListCategories retrieves all categories.
func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.productRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory creates a category.
func (s *catalogService) CreateCategory(ctx context.Context, req *model.CategoryRequest) (*model.Category, error) {
	if req == nil || req.Name == "" {
		return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "category name is required")
	}

	category := &model.Category{
		ID:       uuid.New(),
		Name:     req.Name,
		ParentID: req.ParentID,
	}

	if err := s.productRepo.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info().Str("category_id", category.ID.String()).Str("name", category.Name).Msg("category created")

	return category, nil
}

// CreateProduct creates a product.
func (s *catalogService) CreateProduct(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	product := &model.Product{
		ID:              uuid.New(),
		CategoryID:      req.CategoryID,
		Name:            req.Name,
		DescriptionHTML: req.DescriptionHTML,
		Price:           req.Price,
		StockQuantity:   req.StockQuantity,
		IsActive:        req.IsActive,
		CreatedAt:       time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().Str("product_id", product.ID.String()).Str("name", product.Name).Msg("product created")

	return product, nil
}

// UpdateProduct updates a product's mutable fields. Order snapshots are
// unaffected by catalogue edits.
func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *model.ProductRequest) (*model.Product, error) {
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrNotFound
	}

	product.CategoryID = req.CategoryID
	product.Name = req.Name
	product.DescriptionHTML = req.DescriptionHTML
	product.Price = req.Price
	product.StockQuantity = req.StockQuantity
	product.IsActive = req.IsActive

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info().Str("product_id", product.ID.String()).Msg("product updated")

	return product, nil
}

// DeleteProduct deletes a product.
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product deleted")

	return nil
}

// AttachImage stores the image file and records it against the product.
// The first image automatically becomes primary.
func (s *catalogService) AttachImage(ctx context.Context, productID uuid.UUID, filename, contentType string, body io.Reader) (*model.ProductImage, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrNotFound
	}

	existing, err := s.productRepo.GetImages(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product images: %w", err)
	}

	imageID := uuid.New()
	key := fmt.Sprintf("%s/%s%s", productID, imageID, filepath.Ext(filename))

	if err := s.images.Put(ctx, key, contentType, body); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	image := &model.ProductImage{
		ID:        imageID,
		ProductID: productID,
		ObjectKey: key,
		IsPrimary: len(existing) == 0,
	}

	if err := s.productRepo.AddImage(ctx, image); err != nil {
		return nil, fmt.Errorf("failed to record image: %w", err)
	}

	s.logger.Info().
		Str("product_id", productID.String()).
		Str("key", key).
		Bool("primary", image.IsPrimary).
		Msg("product image attached")

	return image, nil
}

// SetPrimaryImage promotes one image and demotes the others.
func (s *catalogService) SetPrimaryImage(ctx context.Context, productID, imageID uuid.UUID) error {
	return s.productRepo.SetPrimaryImage(ctx, productID, imageID)
}

// AddAttribute attaches a name/value attribute to a product.
func (s *catalogService) AddAttribute(ctx context.Context, productID uuid.UUID, req *model.AttributeRequest) (*model.ProductAttribute, error) {
	if req == nil || req.Name == "" {
		return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "attribute name is required")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrNotFound
	}

	attribute := &model.ProductAttribute{
		ID:        uuid.New(),
		ProductID: productID,
		Name:      req.Name,
		Value:     req.Value,
	}

	if err := s.productRepo.AddAttribute(ctx, attribute); err != nil {
		return nil, fmt.Errorf("failed to add attribute: %w", err)
	}

	s.logger.Info().
		Str("product_id", productID.String()).
		Str("name", attribute.Name).
		Msg("product attribute added")

	return attribute, nil
}

// DeleteAttribute removes a product attribute.
func (s *catalogService) DeleteAttribute(ctx context.Context, productID, attributeID uuid.UUID) error {
	if err := s.productRepo.DeleteAttribute(ctx, productID, attributeID); err != nil {
		return err
	}

	s.logger.Info().
		Str("product_id", productID.String()).
		Str("attribute_id", attributeID.String()).
		Msg("product attribute deleted")

	return nil
}

// AddReview posts a review. Rating must be 1..5 and a user reviews a
// product at most once.
func (s *catalogService) AddReview(ctx context.Context, userID, productID uuid.UUID, req *model.ReviewRequest) (*model.Review, error) {
	if req == nil || req.Rating < 1 || req.Rating > 5 {
		return nil, model.ErrInvalidRating
	}

	product, err := s.productRepo.GetActiveByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrNotFound
	}

	review := &model.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("product_id", productID.String()).
		Int("rating", review.Rating).
		Msg("review created")

	return review, nil
}

// validateProductRequest validates vendor product payloads.
func validateProductRequest(req *model.ProductRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "product payload is required")
	}
	if req.Name == "" {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "product name is required")
	}
	if req.CategoryID == uuid.Nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "category is required")
	}
	if req.Price.IsNegative() {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "price cannot be negative")
	}
	if req.StockQuantity < 0 {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "stock quantity cannot be negative")
	}
	return nil
}

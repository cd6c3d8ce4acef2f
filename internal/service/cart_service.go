package service

import (
	"context"
	"fmt"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart retrieves the user's cart with subtotals recomputed from live
// product prices.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*model.CartView, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return s.buildView(ctx, cart.ID)
}

// AddItem adds a product to the cart. An existing line is incremented;
// either way the final quantity is clamped to the product's stock, with
// no error on clamping.
func (s *cartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*model.CartItem, error) {
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetActiveByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrNotFound
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	item, err := s.cartRepo.GetItem(ctx, cart.ID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}

	newQuantity := quantity
	if item != nil {
		newQuantity = item.Quantity + quantity
	}

	if newQuantity > product.StockQuantity {
		s.logger.Debug().
			Str("product_id", productID.String()).
			Int("requested", newQuantity).
			Int("stock", product.StockQuantity).
			Msg("quantity clamped to stock")
		newQuantity = product.StockQuantity
	}

	// A zero quantity is not a valid persisted state; an out-of-stock
	// product never produces a line.
	if newQuantity <= 0 {
		if item != nil {
			if err := s.cartRepo.DeleteItem(ctx, item.ID); err != nil {
				return nil, fmt.Errorf("failed to delete cart item: %w", err)
			}
		}
		return &model.CartItem{CartID: cart.ID, ProductID: productID, Quantity: 0}, nil
	}

	if item != nil {
		if err := s.cartRepo.UpdateItemQuantity(ctx, item.ID, newQuantity); err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
		item.Quantity = newQuantity
		return item, nil
	}

	item = &model.CartItem{
		ID:        uuid.New(),
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  newQuantity,
	}

	if err := s.cartRepo.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create cart item: %w", err)
	}

	s.logger.Info().
		Str("cart_id", cart.ID.String()).
		Str("product_id", productID.String()).
		Int("quantity", item.Quantity).
		Msg("item added to cart")

	return item, nil
}

// SetItemQuantity sets a line's quantity. Unlike AddItem this rejects
// quantities above stock instead of clamping; zero or negative deletes
// the line.
func (s *cartService) SetItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*model.QuantityUpdate, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		if err := s.cartRepo.DeleteItem(ctx, item.ID); err != nil {
			return nil, fmt.Errorf("failed to delete cart item: %w", err)
		}

		view, err := s.buildView(ctx, item.CartID)
		if err != nil {
			return nil, err
		}
		return &model.QuantityUpdate{Item: nil, Subtotal: decimal.Zero, TotalPrice: view.TotalPrice}, nil
	}

	product, err := s.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrNotFound
	}

	if quantity > product.StockQuantity {
		s.logger.Debug().
			Str("item_id", itemID.String()).
			Int("requested", quantity).
			Int("stock", product.StockQuantity).
			Msg("quantity exceeds stock")
		return nil, model.ErrStockExceeded
	}

	if err := s.cartRepo.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	item.Quantity = quantity

	view, err := s.buildView(ctx, item.CartID)
	if err != nil {
		return nil, err
	}

	subtotal := product.Price.Mul(decimal.NewFromInt(int64(quantity)))

	return &model.QuantityUpdate{Item: item, Subtotal: subtotal, TotalPrice: view.TotalPrice}, nil
}

// RemoveItem deletes a line owned by the user.
func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}

	if err := s.cartRepo.DeleteItem(ctx, item.ID); err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	s.logger.Info().
		Str("item_id", itemID.String()).
		Msg("item removed from cart")

	return nil
}

// ownedItem loads a cart item and verifies it belongs to the user.
func (s *cartService) ownedItem(ctx context.Context, userID, itemID uuid.UUID) (*model.CartItem, error) {
	item, err := s.cartRepo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	if item == nil {
		return nil, model.ErrNotFound
	}

	cart, err := s.cartRepo.GetByID(ctx, item.CartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil || cart.UserID != userID {
		s.logger.Warn().
			Str("item_id", itemID.String()).
			Str("user_id", userID.String()).
			Msg("cart item access denied")
		return nil, model.ErrForbidden
	}

	return item, nil
}

// buildView materialises the cart with per-line subtotals and the grand
// total, always from live prices.
func (s *cartService) buildView(ctx context.Context, cartID uuid.UUID) (*model.CartView, error) {
	lines, err := s.cartRepo.ListLines(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart lines: %w", err)
	}

	total := decimal.Zero
	count := 0
	for i := range lines {
		lines[i].Subtotal = lines[i].UnitPrice.Mul(decimal.NewFromInt(int64(lines[i].Item.Quantity)))
		total = total.Add(lines[i].Subtotal)
		count += lines[i].Item.Quantity
	}

	return &model.CartView{
		CartID:     cartID,
		Lines:      lines,
		TotalPrice: total,
		ItemCount:  count,
	}, nil
}

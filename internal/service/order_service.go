package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// noAddressPlaceholder is stored as the shipping snapshot when the user
// has no addresses at checkout time.
const noAddressPlaceholder = "No address on file"

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	userRepo  repository.UserRepository
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	userRepo repository.UserRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		userRepo:  userRepo,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// Checkout snapshots the user's cart into a new order. The order row,
// its item snapshots and the cart clear commit as one transaction; on
// any failure nothing is written.
func (s *orderService) Checkout(ctx context.Context, userID uuid.UUID) (*model.OrderResponse, error) {
	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil {
		return nil, model.ErrEmptyCart
	}

	lines, err := s.cartRepo.ListLines(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart lines: %w", err)
	}
	if len(lines) == 0 {
		return nil, model.ErrEmptyCart
	}

	snapshot, err := s.shippingSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Totals come from live prices at this instant, not from anything
	// cached on the cart.
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Item.Quantity))))
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order := &model.Order{
		ID:                      uuid.New(),
		UserID:                  userID,
		TotalAmount:             total,
		ShippingAddressSnapshot: snapshot,
		Status:                  model.StatusPending,
		CreatedAt:               time.Now(),
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	items := make([]model.OrderItem, len(lines))
	for i, line := range lines {
		productID := line.Item.ProductID
		items[i] = model.OrderItem{
			ID:                  uuid.New(),
			OrderID:             order.ID,
			ProductID:           &productID,
			ProductNameSnapshot: line.ProductName,
			UnitPriceSnapshot:   line.UnitPrice,
			Quantity:            line.Item.Quantity,
		}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err = s.cartRepo.ClearItems(ctx, tx, cart.ID); err != nil {
		s.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to clear cart")
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID.String()).
		Str("total", total.StringFixed(2)).
		Int("item_count", len(items)).
		Msg("order created successfully")

	// The ledger starts empty; the first entry appears on the first
	// status change, not at creation.
	return &model.OrderResponse{Order: *order, Items: items, History: nil}, nil
}

// GetOrderForUser retrieves an order owned by the user.
func (s *orderService) GetOrderForUser(ctx context.Context, orderID, userID uuid.UUID) (*model.OrderResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrNotFound
	}
	if order.UserID != userID {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("user_id", userID.String()).
			Msg("order access denied")
		return nil, model.ErrForbidden
	}

	return s.materialize(ctx, order)
}

// GetOrder retrieves any order. Role checks happen at the boundary.
func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*model.OrderResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrNotFound
	}

	return s.materialize(ctx, order)
}

// ListUserOrders retrieves the user's orders, newest first.
func (s *orderService) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Cancel cancels an order on behalf of its owner.
func (s *orderService) Cancel(ctx context.Context, orderID, userID uuid.UUID) (*model.OrderResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrNotFound
	}

	if order.UserID != userID {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("user_id", userID.String()).
			Msg("cancel denied: not the order owner")
		return nil, model.ErrForbidden
	}

	if !order.Status.CanCancel() {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("status", string(order.Status)).
			Msg("cancel denied: order not cancellable")
		return nil, model.ErrInvalidTransition
	}

	if err := s.setStatus(ctx, order, model.StatusCancelled, ""); err != nil {
		return nil, err
	}

	return s.materialize(ctx, order)
}

// VendorSetStatus moves an order to any status. No transition graph is
// enforced on the vendor path; only the customer cancel path is
// restricted.
func (s *orderService) VendorSetStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus, comment string) (*model.OrderResponse, error) {
	if !status.Valid() {
		return nil, model.ErrInvalidStatus
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrNotFound
	}

	if err := s.setStatus(ctx, order, status, comment); err != nil {
		return nil, err
	}

	return s.materialize(ctx, order)
}

// VendorListOrders retrieves orders with an optional status filter.
// Pagination is clamped like catalogue search; an absent limit means the
// default page, never an empty one.
func (s *orderService) VendorListOrders(ctx context.Context, status *model.OrderStatus, limit, offset int) ([]model.Order, error) {
	if status != nil && !status.Valid() {
		return nil, model.ErrInvalidStatus
	}

	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	orders, err := s.orderRepo.ListAll(ctx, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// setStatus is the only writer of the status field. Every mutation path
// funnels through here so a status change can never skip the ledger.
// Equal status is a no-op and writes nothing.
func (s *orderService) setStatus(ctx context.Context, order *model.Order, newStatus model.OrderStatus, comment string) error {
	if newStatus == order.Status {
		s.logger.Debug().
			Str("order_id", order.ID.String()).
			Str("status", string(newStatus)).
			Msg("status unchanged, skipping ledger write")
		return nil
	}

	if comment == "" {
		comment = fmt.Sprintf("Status changed from %s to %s", order.Status, newStatus)
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to update status: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.UpdateStatus(ctx, tx, order.ID, newStatus); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to update order status")
		return fmt.Errorf("failed to update status: %w", err)
	}

	entry := &model.OrderStatusEntry{
		ID:        uuid.New(),
		OrderID:   order.ID,
		Status:    newStatus,
		ChangedAt: time.Now(),
		Comment:   comment,
	}

	if err = s.orderRepo.AppendStatusHistory(ctx, tx, entry); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to append status history")
		return fmt.Errorf("failed to update status: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to update status: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("from", string(order.Status)).
		Str("to", string(newStatus)).
		Msg("order status changed")

	order.Status = newStatus

	return nil
}

// materialize loads the order's items and ledger for the response.
func (s *orderService) materialize(ctx context.Context, order *model.Order) (*model.OrderResponse, error) {
	items, err := s.orderRepo.GetItems(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}

	history, err := s.orderRepo.GetStatusHistory(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get status history: %w", err)
	}

	return &model.OrderResponse{Order: *order, Items: items, History: history}, nil
}

// shippingSnapshot resolves the user's shipping address into the text
// snapshot stored on the order. The snapshot is captured once; later
// address edits never touch it.
func (s *orderService) shippingSnapshot(ctx context.Context, userID uuid.UUID) (string, error) {
	address, err := s.userRepo.GetShippingAddress(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve shipping address: %w", err)
	}
	if address == nil {
		return noAddressPlaceholder, nil
	}

	return fmt.Sprintf("%s, %s, %s %s, %s",
		address.RecipientName, address.Line1, address.City, address.ZipCode, address.Country), nil
}

package integration

import (
	"context"
	"testing"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repo repository.UserRepository, email string, role model.Role) *model.User {
	t.Helper()
	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "hashed",
		FullName:     "Test User",
		Role:         role,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

func seedCatalog(t *testing.T, repo repository.ProductRepository) (*model.Category, *model.Product) {
	t.Helper()
	ctx := context.Background()

	category := &model.Category{ID: uuid.New(), Name: "Electronics"}
	require.NoError(t, repo.CreateCategory(ctx, category))

	product := &model.Product{
		ID:              uuid.New(),
		CategoryID:      category.ID,
		Name:            "Wireless Headphones",
		DescriptionHTML: "<p>Noise cancelling</p>",
		Price:           decimal.RequireFromString("149.99"),
		StockQuantity:   25,
		IsActive:        true,
		CreatedAt:       time.Now(),
	}
	require.NoError(t, repo.Create(ctx, product))

	return category, product
}

func TestUserRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewUserRepository(db.Pool, logger)
	ctx := context.Background()

	t.Run("Create and retrieve user", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		user := seedUser(t, repo, "jane@example.com", model.RoleCustomer)

		byEmail, err := repo.GetUserByEmail(ctx, "jane@example.com")
		require.NoError(t, err)
		require.NotNil(t, byEmail)
		assert.Equal(t, user.ID, byEmail.ID)
		assert.Equal(t, model.RoleCustomer, byEmail.Role)

		byID, err := repo.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, "jane@example.com", byID.Email)
	})

	t.Run("Duplicate email returns ErrEmailTaken", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		seedUser(t, repo, "dup@example.com", model.RoleCustomer)

		err := repo.CreateUser(ctx, &model.User{
			ID:           uuid.New(),
			Email:        "dup@example.com",
			PasswordHash: "other",
			FullName:     "Other User",
			Role:         model.RoleCustomer,
			CreatedAt:    time.Now(),
		})
		assert.ErrorIs(t, err, model.ErrEmailTaken)
	})

	t.Run("Unknown user returns nil without error", func(t *testing.T) {
		user, err := repo.GetUserByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("Shipping address prefers default over oldest", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		user := seedUser(t, repo, "addr@example.com", model.RoleCustomer)

		oldest := &model.Address{
			ID: uuid.New(), UserID: user.ID,
			RecipientName: "Jane Doe", Line1: "1 Old St", City: "Springfield",
			ZipCode: "11111", Country: "US", IsDefault: false,
			CreatedAt: time.Now().Add(-time.Hour),
		}
		require.NoError(t, repo.CreateAddress(ctx, oldest))

		// No default set: falls back to the oldest address.
		picked, err := repo.GetShippingAddress(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, picked)
		assert.Equal(t, oldest.ID, picked.ID)

		preferred := &model.Address{
			ID: uuid.New(), UserID: user.ID,
			RecipientName: "Jane Doe", Line1: "2 New St", City: "Springfield",
			ZipCode: "22222", Country: "US", IsDefault: true,
			CreatedAt: time.Now(),
		}
		require.NoError(t, repo.CreateAddress(ctx, preferred))

		picked, err = repo.GetShippingAddress(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, picked)
		assert.Equal(t, preferred.ID, picked.ID)

		addresses, err := repo.GetAddressesByUser(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, addresses, 2)
		assert.Equal(t, preferred.ID, addresses[0].ID, "default address listed first")
	})

	t.Run("Shipping address nil for user without addresses", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		user := seedUser(t, repo, "bare@example.com", model.RoleCustomer)

		picked, err := repo.GetShippingAddress(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, picked)
	})
}

func TestProductRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewProductRepository(db.Pool, logger)
	userRepo := repository.NewUserRepository(db.Pool, logger)
	reviewRepo := repository.NewReviewRepository(db.Pool, logger)
	ctx := context.Background()

	t.Run("Search matches name and description, skips inactive", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		category, product := seedCatalog(t, repo)

		hidden := &model.Product{
			ID:              uuid.New(),
			CategoryID:      category.ID,
			Name:            "Wireless Charger",
			DescriptionHTML: "",
			Price:           decimal.RequireFromString("29.99"),
			StockQuantity:   5,
			IsActive:        false,
			CreatedAt:       time.Now(),
		}
		require.NoError(t, repo.Create(ctx, hidden))

		listings, err := repo.Search(ctx, "wireless", nil, 20, 0)
		require.NoError(t, err)
		require.Len(t, listings, 1, "inactive products are hidden")
		assert.Equal(t, product.ID, listings[0].ID)

		listings, err = repo.Search(ctx, "noise cancelling", nil, 20, 0)
		require.NoError(t, err)
		require.Len(t, listings, 1, "description matches too")

		listings, err = repo.Search(ctx, "no such thing", nil, 20, 0)
		require.NoError(t, err)
		assert.Empty(t, listings)
	})

	t.Run("Search filters by category", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		category, product := seedCatalog(t, repo)

		other := &model.Category{ID: uuid.New(), Name: "Books"}
		require.NoError(t, repo.CreateCategory(ctx, other))
		require.NoError(t, repo.Create(ctx, &model.Product{
			ID:         uuid.New(),
			CategoryID: other.ID,
			Name:       "Go Patterns",
			Price:      decimal.RequireFromString("39.00"),
			IsActive:   true,
			CreatedAt:  time.Now(),
		}))

		listings, err := repo.Search(ctx, "", &category.ID, 20, 0)
		require.NoError(t, err)
		require.Len(t, listings, 1)
		assert.Equal(t, product.ID, listings[0].ID)

		listings, err = repo.Search(ctx, "", nil, 20, 0)
		require.NoError(t, err)
		assert.Len(t, listings, 2)
	})

	t.Run("Search aggregates reviews and primary image", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		_, product := seedCatalog(t, repo)

		alice := seedUser(t, userRepo, "alice@example.com", model.RoleCustomer)
		bob := seedUser(t, userRepo, "bob@example.com", model.RoleCustomer)
		require.NoError(t, reviewRepo.Create(ctx, &model.Review{
			ID: uuid.New(), ProductID: product.ID, UserID: alice.ID,
			Rating: 5, Comment: "Great", CreatedAt: time.Now(),
		}))
		require.NoError(t, reviewRepo.Create(ctx, &model.Review{
			ID: uuid.New(), ProductID: product.ID, UserID: bob.ID,
			Rating: 2, Comment: "Meh", CreatedAt: time.Now(),
		}))

		primary := &model.ProductImage{
			ID: uuid.New(), ProductID: product.ID,
			ObjectKey: product.ID.String() + "/front.png", IsPrimary: true,
		}
		require.NoError(t, repo.AddImage(ctx, primary))

		listings, err := repo.Search(ctx, "", nil, 20, 0)
		require.NoError(t, err)
		require.Len(t, listings, 1)
		assert.InDelta(t, 3.5, listings[0].AverageRating, 0.001)
		assert.Equal(t, 2, listings[0].ReviewCount)
		require.NotNil(t, listings[0].PrimaryImageKey)
		assert.Equal(t, primary.ObjectKey, *listings[0].PrimaryImageKey)
	})

	t.Run("GetActiveByID hides inactive products", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		_, product := seedCatalog(t, repo)

		product.IsActive = false
		require.NoError(t, repo.Update(ctx, product))

		active, err := repo.GetActiveByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Nil(t, active)

		any, err := repo.GetByID(ctx, product.ID)
		require.NoError(t, err)
		require.NotNil(t, any)
		assert.False(t, any.IsActive)
	})

	t.Run("SetPrimaryImage demotes previous primary", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		_, product := seedCatalog(t, repo)

		first := &model.ProductImage{ID: uuid.New(), ProductID: product.ID, ObjectKey: "a.png", IsPrimary: true}
		second := &model.ProductImage{ID: uuid.New(), ProductID: product.ID, ObjectKey: "b.png", IsPrimary: false}
		require.NoError(t, repo.AddImage(ctx, first))
		require.NoError(t, repo.AddImage(ctx, second))

		require.NoError(t, repo.SetPrimaryImage(ctx, product.ID, second.ID))

		images, err := repo.GetImages(ctx, product.ID)
		require.NoError(t, err)
		require.Len(t, images, 2)
		assert.Equal(t, second.ID, images[0].ID, "primary listed first")
		assert.True(t, images[0].IsPrimary)
		assert.False(t, images[1].IsPrimary)

		err = repo.SetPrimaryImage(ctx, product.ID, uuid.New())
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("Attribute lifecycle", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		_, product := seedCatalog(t, repo)

		brand := &model.ProductAttribute{ID: uuid.New(), ProductID: product.ID, Name: "Brand", Value: "Acme"}
		material := &model.ProductAttribute{ID: uuid.New(), ProductID: product.ID, Name: "Material", Value: "Aluminium"}
		require.NoError(t, repo.AddAttribute(ctx, material))
		require.NoError(t, repo.AddAttribute(ctx, brand))

		attributes, err := repo.GetAttributes(ctx, product.ID)
		require.NoError(t, err)
		require.Len(t, attributes, 2)
		assert.Equal(t, "Brand", attributes[0].Name, "attributes ordered by name")
		assert.Equal(t, "Material", attributes[1].Name)

		require.NoError(t, repo.DeleteAttribute(ctx, product.ID, brand.ID))

		attributes, err = repo.GetAttributes(ctx, product.ID)
		require.NoError(t, err)
		require.Len(t, attributes, 1)
		assert.Equal(t, "Material", attributes[0].Name)

		err = repo.DeleteAttribute(ctx, product.ID, brand.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("Update and Delete report missing products", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		missing := &model.Product{ID: uuid.New(), CategoryID: uuid.New(), Name: "Ghost", Price: decimal.Zero}
		assert.ErrorIs(t, repo.Update(ctx, missing), model.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), model.ErrNotFound)
	})
}

func TestReviewRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewReviewRepository(db.Pool, logger)
	userRepo := repository.NewUserRepository(db.Pool, logger)
	productRepo := repository.NewProductRepository(db.Pool, logger)
	ctx := context.Background()

	t.Run("Second review by same user is rejected", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		user := seedUser(t, userRepo, "reviewer@example.com", model.RoleCustomer)
		_, product := seedCatalog(t, productRepo)

		require.NoError(t, repo.Create(ctx, &model.Review{
			ID: uuid.New(), ProductID: product.ID, UserID: user.ID,
			Rating: 4, Comment: "Solid", CreatedAt: time.Now(),
		}))

		err := repo.Create(ctx, &model.Review{
			ID: uuid.New(), ProductID: product.ID, UserID: user.ID,
			Rating: 1, Comment: "Changed my mind", CreatedAt: time.Now(),
		})
		assert.ErrorIs(t, err, model.ErrDuplicateReview)

		reviews, err := repo.ListByProduct(ctx, product.ID)
		require.NoError(t, err)
		require.Len(t, reviews, 1)
		assert.Equal(t, 4, reviews[0].Rating)
	})

	t.Run("ListByProduct returns newest first", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		_, product := seedCatalog(t, productRepo)
		alice := seedUser(t, userRepo, "alice@example.com", model.RoleCustomer)
		bob := seedUser(t, userRepo, "bob@example.com", model.RoleCustomer)

		require.NoError(t, repo.Create(ctx, &model.Review{
			ID: uuid.New(), ProductID: product.ID, UserID: alice.ID,
			Rating: 3, Comment: "older", CreatedAt: time.Now().Add(-time.Hour),
		}))
		require.NoError(t, repo.Create(ctx, &model.Review{
			ID: uuid.New(), ProductID: product.ID, UserID: bob.ID,
			Rating: 5, Comment: "newer", CreatedAt: time.Now(),
		}))

		reviews, err := repo.ListByProduct(ctx, product.ID)
		require.NoError(t, err)
		require.Len(t, reviews, 2)
		assert.Equal(t, "newer", reviews[0].Comment)
	})
}

func TestCartRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewCartRepository(db.Pool, logger)
	userRepo := repository.NewUserRepository(db.Pool, logger)
	productRepo := repository.NewProductRepository(db.Pool, logger)
	ctx := context.Background()

	t.Run("GetOrCreate is idempotent per user", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		user := seedUser(t, userRepo, "cart@example.com", model.RoleCustomer)

		cart, err := repo.GetOrCreate(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, cart)

		again, err := repo.GetOrCreate(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, cart.ID, again.ID)
	})

	t.Run("Item lifecycle and line join", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		user := seedUser(t, userRepo, "lines@example.com", model.RoleCustomer)
		_, product := seedCatalog(t, productRepo)

		cart, err := repo.GetOrCreate(ctx, user.ID)
		require.NoError(t, err)

		item := &model.CartItem{ID: uuid.New(), CartID: cart.ID, ProductID: product.ID, Quantity: 2}
		require.NoError(t, repo.CreateItem(ctx, item))

		found, err := repo.GetItem(ctx, cart.ID, product.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, 2, found.Quantity)

		require.NoError(t, repo.UpdateItemQuantity(ctx, item.ID, 5))

		lines, err := repo.ListLines(ctx, cart.ID)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, 5, lines[0].Item.Quantity)
		assert.Equal(t, product.Name, lines[0].ProductName)
		assert.True(t, lines[0].UnitPrice.Equal(product.Price))
		assert.Equal(t, product.StockQuantity, lines[0].StockQuantity)

		require.NoError(t, repo.DeleteItem(ctx, item.ID))

		lines, err = repo.ListLines(ctx, cart.ID)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("UpdateItemQuantity on missing item returns ErrNotFound", func(t *testing.T) {
		err := repo.UpdateItemQuantity(ctx, uuid.New(), 3)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("ClearItems only commits with the transaction", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		user := seedUser(t, userRepo, "clear@example.com", model.RoleCustomer)
		_, product := seedCatalog(t, productRepo)

		cart, err := repo.GetOrCreate(ctx, user.ID)
		require.NoError(t, err)
		require.NoError(t, repo.CreateItem(ctx, &model.CartItem{
			ID: uuid.New(), CartID: cart.ID, ProductID: product.ID, Quantity: 1,
		}))

		tx, err := db.Pool.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, repo.ClearItems(ctx, tx, cart.ID))
		require.NoError(t, tx.Rollback(ctx))

		lines, err := repo.ListLines(ctx, cart.ID)
		require.NoError(t, err)
		assert.Len(t, lines, 1, "rolled back clear leaves items intact")

		tx, err = db.Pool.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, repo.ClearItems(ctx, tx, cart.ID))
		require.NoError(t, tx.Commit(ctx))

		lines, err = repo.ListLines(ctx, cart.ID)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})
}

func TestOrderRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewOrderRepository(db.Pool, logger)
	userRepo := repository.NewUserRepository(db.Pool, logger)
	productRepo := repository.NewProductRepository(db.Pool, logger)
	ctx := context.Background()

	placeOrder := func(t *testing.T, userID uuid.UUID, productID *uuid.UUID) *model.Order {
		t.Helper()

		order := &model.Order{
			ID:                      uuid.New(),
			UserID:                  userID,
			TotalAmount:             decimal.RequireFromString("299.98"),
			ShippingAddressSnapshot: "Jane Doe, 1 Main St, Springfield 12345, US",
			Status:                  model.StatusPending,
			CreatedAt:               time.Now(),
		}

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, repo.CreateOrder(ctx, tx, order))
		require.NoError(t, repo.CreateOrderItems(ctx, tx, []model.OrderItem{{
			ID:                  uuid.New(),
			OrderID:             order.ID,
			ProductID:           productID,
			ProductNameSnapshot: "Wireless Headphones",
			UnitPriceSnapshot:   decimal.RequireFromString("149.99"),
			Quantity:            2,
		}}))
		require.NoError(t, tx.Commit(ctx))

		return order
	}

	t.Run("Order roundtrip with item snapshots", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		user := seedUser(t, userRepo, "buyer@example.com", model.RoleCustomer)
		_, product := seedCatalog(t, productRepo)

		order := placeOrder(t, user.ID, &product.ID)

		got, err := repo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, model.StatusPending, got.Status)
		assert.True(t, got.TotalAmount.Equal(order.TotalAmount))
		assert.Equal(t, order.ShippingAddressSnapshot, got.ShippingAddressSnapshot)

		items, err := repo.GetItems(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Wireless Headphones", items[0].ProductNameSnapshot)
		assert.True(t, items[0].UnitPriceSnapshot.Equal(decimal.RequireFromString("149.99")))
		assert.Equal(t, 2, items[0].Quantity)
	})

	t.Run("Item snapshot survives product deletion", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		user := seedUser(t, userRepo, "keeper@example.com", model.RoleCustomer)
		_, product := seedCatalog(t, productRepo)

		order := placeOrder(t, user.ID, &product.ID)

		require.NoError(t, productRepo.Delete(ctx, product.ID))

		items, err := repo.GetItems(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Nil(t, items[0].ProductID, "product reference nulled on delete")
		assert.Equal(t, "Wireless Headphones", items[0].ProductNameSnapshot)
	})

	t.Run("Status history is returned newest first", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		user := seedUser(t, userRepo, "history@example.com", model.RoleCustomer)
		order := placeOrder(t, user.ID, nil)

		base := time.Now().Add(-time.Hour)
		for i, step := range []struct {
			status  model.OrderStatus
			comment string
		}{
			{model.StatusHold, "Status changed from Pending to Hold"},
			{model.StatusShipped, "Status changed from Hold to Shipped"},
		} {
			tx, err := repo.BeginTx(ctx)
			require.NoError(t, err)
			require.NoError(t, repo.UpdateStatus(ctx, tx, order.ID, step.status))
			require.NoError(t, repo.AppendStatusHistory(ctx, tx, &model.OrderStatusEntry{
				ID:        uuid.New(),
				OrderID:   order.ID,
				Status:    step.status,
				ChangedAt: base.Add(time.Duration(i) * time.Minute),
				Comment:   step.comment,
			}))
			require.NoError(t, tx.Commit(ctx))
		}

		entries, err := repo.GetStatusHistory(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, model.StatusShipped, entries[0].Status)
		assert.Equal(t, model.StatusHold, entries[1].Status)

		got, err := repo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusShipped, got.Status)
	})

	t.Run("UpdateStatus on missing order returns ErrNotFound", func(t *testing.T) {
		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		err = repo.UpdateStatus(ctx, tx, uuid.New(), model.StatusShipped)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("ListAll filters by status", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		alice := seedUser(t, userRepo, "alice@example.com", model.RoleCustomer)
		bob := seedUser(t, userRepo, "bob@example.com", model.RoleCustomer)

		placeOrder(t, alice.ID, nil)
		held := placeOrder(t, bob.ID, nil)

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, repo.UpdateStatus(ctx, tx, held.ID, model.StatusHold))
		require.NoError(t, tx.Commit(ctx))

		all, err := repo.ListAll(ctx, nil, 20, 0)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		holdStatus := model.StatusHold
		filtered, err := repo.ListAll(ctx, &holdStatus, 20, 0)
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		assert.Equal(t, held.ID, filtered[0].ID)

		mine, err := repo.ListByUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, alice.ID, mine[0].UserID)
	})
}

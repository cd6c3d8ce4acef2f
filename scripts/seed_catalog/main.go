package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// seedCatalog populates a development database with a vendor account,
// two categories and a handful of products so the API has something to
// serve out of the box.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := config.NewLogger(cfg.Logger)

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)

	hash, err := bcrypt.GenerateFromPassword([]byte("vendor-password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash vendor password: %v", err)
	}

	vendor := &model.User{
		ID:           uuid.New(),
		Email:        "vendor@example.com",
		PasswordHash: string(hash),
		FullName:     "Demo Vendor",
		Role:         model.RoleVendor,
		CreatedAt:    time.Now(),
	}
	if err := userRepo.CreateUser(ctx, vendor); err != nil {
		log.Fatalf("Failed to create vendor user: %v", err)
	}
	fmt.Printf("Created vendor %s\n", vendor.Email)

	electronics := &model.Category{ID: uuid.New(), Name: "Electronics"}
	books := &model.Category{ID: uuid.New(), Name: "Books"}
	for _, c := range []*model.Category{electronics, books} {
		if err := productRepo.CreateCategory(ctx, c); err != nil {
			log.Fatalf("Failed to create category %s: %v", c.Name, err)
		}
		fmt.Printf("Created category %s\n", c.Name)
	}

	products := []*model.Product{
		{
			ID:              uuid.New(),
			CategoryID:      electronics.ID,
			Name:            "Wireless Headphones",
			DescriptionHTML: "<p>Over-ear wireless headphones with 30h battery.</p>",
			Price:           decimal.RequireFromString("89.99"),
			StockQuantity:   40,
			IsActive:        true,
			CreatedAt:       time.Now(),
		},
		{
			ID:              uuid.New(),
			CategoryID:      electronics.ID,
			Name:            "Mechanical Keyboard",
			DescriptionHTML: "<p>Tenkeyless board with hot-swappable switches.</p>",
			Price:           decimal.RequireFromString("129.50"),
			StockQuantity:   15,
			IsActive:        true,
			CreatedAt:       time.Now(),
		},
		{
			ID:              uuid.New(),
			CategoryID:      books.ID,
			Name:            "The Go Programming Language",
			DescriptionHTML: "<p>Donovan &amp; Kernighan.</p>",
			Price:           decimal.RequireFromString("34.95"),
			StockQuantity:   60,
			IsActive:        true,
			CreatedAt:       time.Now(),
		},
	}

	for _, p := range products {
		if err := productRepo.Create(ctx, p); err != nil {
			log.Fatalf("Failed to create product %s: %v", p.Name, err)
		}
		fmt.Printf("Created product %s (%s)\n", p.Name, p.Price.StringFixed(2))
	}

	fmt.Println("\nSeed data created successfully!")
}

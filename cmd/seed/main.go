package main

import (
	"context"
	"database/sql"
	"errors"
	"os"

	"github.com/ecowear/marketplace/internal/auth"
	"github.com/ecowear/marketplace/internal/config"
	"github.com/ecowear/marketplace/internal/database"
	"github.com/ecowear/marketplace/internal/models"
	"github.com/ecowear/marketplace/internal/store"
	"github.com/rs/zerolog"
)

// Seeds the admin account, the platform seller and a handful of blog posts.
// Safe to run repeatedly: accounts that already exist are skipped.
func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "marketplace-seed").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to database")
	}
	defer db.Close()

	ctx := context.Background()

	seedAccount(ctx, db, logger, cfg.Auth.BcryptCost, store.NewAccount{
		Name:  "Admin",
		Email: getenv("SEED_ADMIN_EMAIL", "admin@ecowear.example"),
		Role:  models.RoleAdmin,
	}, getenv("SEED_ADMIN_PASSWORD", "admin123"))

	platformEmail := cfg.Policy.PlatformSellerEmail
	if platformEmail == "" {
		platformEmail = "seller@ecowear.example"
	}
	seedAccount(ctx, db, logger, cfg.Auth.BcryptCost, store.NewAccount{
		Name:         "EcoWear Official",
		Email:        platformEmail,
		Role:         models.RoleSeller,
		BrandName:    "EcoWear",
		SellerStatus: models.SellerStatusVerified,
	}, getenv("SEED_SELLER_PASSWORD", "seller123"))

	seedBlogPosts(ctx, db, logger)

	logger.Info().Msg("seed complete")
}

func seedAccount(ctx context.Context, db *sql.DB, logger zerolog.Logger, bcryptCost int, req store.NewAccount, password string) {
	if _, err := store.GetAccountByEmail(ctx, db, req.Email); err == nil {
		logger.Info().Str("email", req.Email).Msg("account exists, skipping")
		return
	} else if !errors.Is(err, database.ErrAccountNotFound) {
		logger.Fatal().Err(err).Str("email", req.Email).Msg("look up account")
	}

	hash, err := auth.HashPassword(password, bcryptCost)
	if err != nil {
		logger.Fatal().Err(err).Msg("hash password")
	}
	req.PasswordHash = hash

	account, err := store.CreateAccount(ctx, db, req)
	if err != nil {
		logger.Fatal().Err(err).Str("email", req.Email).Msg("create account")
	}
	logger.Info().Str("email", account.Email).Str("role", account.Role).Msg("account created")
}

func seedBlogPosts(ctx context.Context, db *sql.DB, logger zerolog.Logger) {
	existing, err := store.ListBlogPosts(ctx, db, false)
	if err != nil {
		logger.Fatal().Err(err).Msg("list blog posts")
	}
	if len(existing) > 0 {
		logger.Info().Int("count", len(existing)).Msg("blog posts exist, skipping")
		return
	}

	posts := []store.NewBlogPost{
		{
			Title:       "Why Organic Cotton Matters",
			Description: "The water, pesticide and soil story behind the most common fabric in your wardrobe.",
			Category:    "materials",
			Featured:    true,
		},
		{
			Title:       "Reading a Carbon Footprint Label",
			Description: "What the kgCO2e number on a product page actually covers, and what it leaves out.",
			Category:    "guides",
		},
		{
			Title:       "How We Verify Our Sellers",
			Description: "Every brand on the marketplace goes through a certification review before it can list.",
			Category:    "platform",
			Featured:    true,
		},
	}

	for _, post := range posts {
		if _, err := store.CreateBlogPost(ctx, db, post); err != nil {
			logger.Fatal().Err(err).Str("title", post.Title).Msg("create blog post")
		}
	}
	logger.Info().Int("count", len(posts)).Msg("blog posts created")
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

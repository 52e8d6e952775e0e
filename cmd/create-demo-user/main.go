// Command create-demo-user seeds an Elite account with a small starter wardrobe.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"layer-backend/config"
	"layer-backend/errs"
	"layer-backend/logging"
	"layer-backend/models"
	"layer-backend/repository"
	"layer-backend/service"

	"go.uber.org/zap"
)

// starterWardrobe covers every category so all stylist modes have material
var starterWardrobe = []service.AddItemRequest{
	{Name: "White Oxford Shirt", Category: "shirt"},
	{Name: "Grey Hoodie", Category: "hoodie"},
	{Name: "Dark Selvedge Jeans", Category: "jeans"},
	{Name: "Pleated Trousers", Category: "trousers"},
	{Name: "White Leather Sneakers", Category: "sneakers"},
	{Name: "Chelsea Boots", Category: "boots"},
	{Name: "Camel Overcoat", Category: "coat"},
	{Name: "Canvas Tote", Category: "bag"},
}

func main() {
	email := flag.String("email", "demo@layer.app", "account email")
	password := flag.String("password", "demopassword123", "account password")
	username := flag.String("username", "Demo Stylist", "display name")
	flag.Parse()

	if err := run(context.Background(), *email, *password, *username); err != nil {
		fmt.Fprintf(os.Stderr, "create-demo-user: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, email, password, username string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := repository.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	users := repository.NewPgUserRepository(db)
	secret := cfg.JWTSecret
	if secret == "" {
		secret = "layer-dev-secret"
	}
	auth := service.NewAuthService(
		service.AuthWithUserRepository(users),
		service.AuthWithSecret(secret),
		service.AuthWithTokenTTL(cfg.TokenTTL),
		service.AuthWithLogger(logger),
	)
	wardrobe := service.NewWardrobeService(
		service.WardrobeWithItemRepository(repository.NewPgItemRepository(db)),
		service.WardrobeWithLogger(logger),
	)

	res, err := auth.Signup(ctx, service.SignupRequest{Email: email, Username: username, Password: password})
	if errors.Is(err, errs.ErrAlreadyExists) {
		logger.Info("user already exists", zap.String("email", email))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	sess := service.Session{UserID: res.User.ID, Plan: res.User.Plan}
	if _, err := auth.UpdatePlan(ctx, sess, models.PlanElite); err != nil {
		return fmt.Errorf("failed to upgrade plan: %w", err)
	}
	sess.Plan = models.PlanElite

	for _, item := range starterWardrobe {
		if _, err := wardrobe.AddItem(ctx, sess, item); err != nil {
			return fmt.Errorf("failed to add item %q: %w", item.Name, err)
		}
	}

	fmt.Printf("✅ Demo user created successfully!\n")
	fmt.Printf("   ID: %s\n", res.User.ID)
	fmt.Printf("   Email: %s\n", res.User.Email)
	fmt.Printf("   Password: %s\n", password)
	fmt.Printf("   Plan: %s\n", models.PlanElite)
	fmt.Printf("   Items: %d\n", len(starterWardrobe))
	fmt.Printf("   Token: %s\n", res.Token)
	return nil
}

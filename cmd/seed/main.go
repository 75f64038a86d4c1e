package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/signal-subscription/config"
	"github.com/oksasatya/signal-subscription/internal/domain/entity"
	"github.com/oksasatya/signal-subscription/internal/domain/repository"
	pginfra "github.com/oksasatya/signal-subscription/internal/infrastructure/postgres"
	"github.com/oksasatya/signal-subscription/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		log.Fatal("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, time.Minute)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	acc, created, err := seedAdmin(ctx, pginfra.NewAccountRepository(pool), helpers.NewBcryptHasher(0),
		cfg.SeedAdminName, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	if !created {
		fmt.Printf("account already exists: id=%s email=%s role=%s\n", acc.ID, acc.Email, acc.Role)
		return
	}
	fmt.Printf("seeded admin: id=%s email=%s\n", acc.ID, acc.Email)
}

// seedAdmin creates the admin account unless the email is already registered.
func seedAdmin(ctx context.Context, accounts repository.AccountRepository, hasher helpers.PasswordHasher, name, email, password string) (*entity.Account, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := accounts.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}
	acc := &entity.Account{Name: name, Email: email, PasswordHash: hash, Role: entity.RoleAdmin}
	if err := accounts.Create(ctx, acc); err != nil {
		return nil, false, err
	}
	return acc, true, nil
}

package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/carebooker/carebooker-api/internal/config"
	"github.com/carebooker/carebooker-api/internal/model"
	"github.com/carebooker/carebooker-api/internal/repository/postgres"
	"github.com/carebooker/carebooker-api/pkg/security"
)

// Creates the initial admin account from ADMIN_EMAIL and ADMIN_PASSWORD.
// Safe to run repeatedly; an existing account is left untouched.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal().Msg("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	userRepo := postgres.NewUserRepository(db)

	if _, err := userRepo.GetByEmail(ctx, email); err == nil {
		log.Info().Str("email", email).Msg("admin account already exists")
		return
	}

	hash, err := security.NewBcryptHasher(0).Hash(password)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		log.Fatal().Err(err).Msg("failed to create admin account")
	}

	log.Info().Str("email", email).Msg("admin account created")
}

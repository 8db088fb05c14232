package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"todo_api/internal/config"
	"todo_api/internal/db"
	"todo_api/internal/logger"
	"todo_api/internal/repository"
	"todo_api/internal/service"
)

func main() {
	email := flag.String("email", "test@example.com", "account email")
	password := flag.String("password", "testpassword123", "account password")
	name := flag.String("name", "Test User", "display name")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL, db.PoolOptions{MaxConns: 2})
	if err != nil {
		logger.Fatal("database unavailable", "error", err)
	}
	defer pool.Close()

	auth := service.NewAuthService(
		repository.NewUserRepository(pool),
		service.NewTokenService(cfg.JWTSecret),
		service.NewBcryptHasher(service.DefaultBcryptCost),
	)

	res, err := auth.Signup(ctx, service.SignupInput{Email: *email, Password: *password, Name: *name})
	switch {
	case err == nil:
		logger.Info("user created", "user_id", res.User.ID)
	case errors.Is(err, service.ErrEmailTaken):
		res, err = auth.Signin(ctx, *email, *password)
		if err != nil {
			logger.Fatal("user exists but sign in failed", "email", *email, "error", err)
		}
		logger.Info("user already exists", "user_id", res.User.ID)
	default:
		logger.Fatal("create user failed", "error", err)
	}

	fmt.Printf("user_id=%s\n", res.User.ID)
	fmt.Printf("token=%s\n", res.Token)
}

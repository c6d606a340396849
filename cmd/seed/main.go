package main

import (
	"context"
	"errors"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"thyroscan/internal/config"
	"thyroscan/internal/db"
	"thyroscan/internal/model"
	"thyroscan/internal/repository"
)

// Seeds a demo account for local frontend work. Re-running updates the
// existing row instead of failing on the unique email index.
func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Prediction{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	email := getEnv("SEED_EMAIL", "demo@thyroscan.local")
	password := getEnv("SEED_PASSWORD", "demo1234")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	userRepo := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	existing, err := userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		existing.PasswordHash = string(hash)
		if err := userRepo.Update(ctx, existing); err != nil {
			log.Fatalf("Failed to update demo user: %v", err)
		}
		log.Printf("Updated existing demo user: %s", email)
	case errors.Is(err, gorm.ErrRecordNotFound):
		user := &model.User{
			FirstName:    "Demo",
			LastName:     "User",
			Email:        email,
			PasswordHash: string(hash),
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create demo user: %v", err)
		}
		log.Printf("Created demo user: %s", email)
	default:
		log.Fatalf("Failed to look up demo user: %v", err)
	}

	log.Println("Seed completed successfully!")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

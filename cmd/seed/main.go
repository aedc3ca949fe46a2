package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"maskoff-server/internal/config"
	"maskoff-server/internal/database"
	"maskoff-server/internal/models"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a handful of demo accounts with profiles for local development.
func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPostgresConnection(cfg.Database.URI)
	if err != nil {
		slog.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("Migration failed", "error", err)
		os.Exit(1)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("Failed to hash seed password", "error", err)
		os.Exit(1)
	}

	seeds := []struct {
		name, username, maskID string
	}{
		{"Alice Nguyen", "alice", "mask-owl"},
		{"Bob Tran", "bob", "mask-fox"},
		{"Carol Pham", "carol", "mask-crane"},
	}

	dob := time.Date(1995, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, s := range seeds {
		var count int64
		db.Model(&models.User{}).Where("username = ?", s.username).Count(&count)
		if count > 0 {
			slog.Info("Seed user exists, skipping", "username", s.username)
			continue
		}

		user := models.User{
			ID:            uuid.New().String(),
			Name:          s.name,
			DOB:           dob,
			Email:         fmt.Sprintf("%s@maskoff.local", s.username),
			Username:      s.username,
			Password:      string(hashed),
			EmailVerified: true,
			Profile: models.Profile{
				MaskID: s.maskID,
				Bio:    "Seed account",
			},
		}
		if err := db.Create(&user).Error; err != nil {
			slog.Error("Failed to create seed user", "username", s.username, "error", err)
			os.Exit(1)
		}
		slog.Info("Seeded user", "username", s.username)
	}
	slog.Info("Seeding complete")
}

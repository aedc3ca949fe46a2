package database

import (
	"fmt"

	"maskoff-server/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewPostgresConnection(uri string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(uri), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)

	return db, nil
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.FriendRequest{},
		&models.Friendship{},
		&models.Post{},
		&models.Comment{},
		&models.Introduction{},
		&models.PostVote{},
		&models.Job{},
		&models.JobApplication{},
		&models.Chat{},
		&models.ChatParticipant{},
		&models.ChatMessage{},
	)
}

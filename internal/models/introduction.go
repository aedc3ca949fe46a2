package models

import "time"

// Introduction is a short self-presentation shown on the community feed,
// always authored under the caller's username.
type Introduction struct {
	ID        string    `gorm:"primaryKey;size:36" json:"introID"`
	UserID    string    `gorm:"size:36;index;not null" json:"-"`
	Author    string    `gorm:"not null" json:"author"`
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

type CreateIntroductionRequest struct {
	Content string `json:"content" binding:"required"`
}

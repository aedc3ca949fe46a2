package models

import (
	"time"
)

// User holds the account/credential side of an identity.
type User struct {
	ID                string     `gorm:"primaryKey;size:36" json:"userID"`
	Name              string     `gorm:"not null" json:"name"`
	DOB               time.Time  `gorm:"not null" json:"dob"`
	Email             string     `gorm:"uniqueIndex;not null" json:"email"`
	Username          string     `gorm:"uniqueIndex;not null" json:"username"`
	Password          string     `gorm:"not null" json:"-"`
	EmailVerified     bool       `gorm:"default:false" json:"emailVerified"`
	VerificationToken string     `json:"-"`
	ResetToken        string     `json:"-"`
	ResetTokenExpires *time.Time `json:"-"`
	AvatarObject      string     `json:"-"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`

	Profile Profile `gorm:"foreignKey:UserID" json:"profile"`
}

// Profile carries the public persona and the anonymous "mask" persona. Posts
// and job chats may be authored under the mask instead of the username.
type Profile struct {
	ID      uint   `gorm:"primaryKey" json:"-"`
	UserID  string `gorm:"size:36;uniqueIndex;not null" json:"-"`
	MaskID  string `gorm:"uniqueIndex;not null" json:"maskID"`
	Details string `json:"details"`
	Bio     string `json:"bio"`
	Skills  string `json:"skills"`
}

// PublicUser is the listing/profile shape exposed to other users. Email, DOB
// and friend bookkeeping never leave the server through this type.
type PublicUser struct {
	UserID   string `json:"userID"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
}

type RegisterRequest struct {
	Name            string `json:"name" binding:"required"`
	DOB             string `json:"dob" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Username        string `json:"username" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	MaskID          string `json:"maskID" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	UserID             string `json:"userID" binding:"required"`
	Token              string `json:"token" binding:"required"`
	NewPassword        string `json:"newPassword" binding:"required"`
	ConfirmNewPassword string `json:"confirmNewPassword" binding:"required"`
}

type UpdateProfileRequest struct {
	Details string `json:"details"`
	Bio     string `json:"bio"`
	Skills  string `json:"skills"`
}

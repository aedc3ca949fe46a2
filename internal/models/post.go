package models

import "time"

// Post is a feed entry. Author is denormalized at write time to either the
// username or the mask ID so anonymous posts never leak the real identity.
type Post struct {
	ID          string    `gorm:"primaryKey;size:36" json:"postID"`
	UserID      string    `gorm:"size:36;index;not null" json:"-"`
	Author      string    `gorm:"not null" json:"author"`
	Content     string    `gorm:"not null" json:"content"`
	Tags        []string  `gorm:"serializer:json" json:"tags"`
	IsAnonymous bool      `gorm:"default:false" json:"isAnonymous"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Comments []Comment  `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments"`
	Votes    []PostVote `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

type Comment struct {
	ID          string    `gorm:"primaryKey;size:36" json:"commentID"`
	PostID      string    `gorm:"size:36;index;not null" json:"-"`
	UserID      string    `gorm:"size:36;not null" json:"-"`
	Author      string    `gorm:"not null" json:"author"`
	Content     string    `gorm:"not null" json:"content"`
	IsAnonymous bool      `gorm:"default:false" json:"isAnonymous"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PostVote is one user's vote on one post; Value is +1 or -1.
type PostVote struct {
	PostID string `gorm:"size:36;primaryKey" json:"-"`
	UserID string `gorm:"size:36;primaryKey" json:"-"`
	Value  int    `gorm:"not null" json:"-"`
}

// PublicPost is Post plus the derived vote counts.
type PublicPost struct {
	Post
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
}

type CreatePostRequest struct {
	Content     string   `json:"content" binding:"required"`
	Tags        []string `json:"tags"`
	IsAnonymous bool     `json:"isAnonymous"`
}

type UpdatePostRequest struct {
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	IsAnonymous *bool    `json:"isAnonymous"`
}

type CreateCommentRequest struct {
	Content     string `json:"content" binding:"required"`
	IsAnonymous bool   `json:"isAnonymous"`
}

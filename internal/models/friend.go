package models

import "time"

// FriendRequest is a pending invitation from Sender to Recipient. Accepting
// converts it into a Friendship row and deletes the request.
type FriendRequest struct {
	ID          string    `gorm:"primaryKey;size:36" json:"requestID"`
	SenderID    string    `gorm:"size:36;index;not null" json:"senderID"`
	RecipientID string    `gorm:"size:36;index;not null" json:"recipientID"`
	CreatedAt   time.Time `json:"createdAt"`

	Sender    User `gorm:"foreignKey:SenderID" json:"-"`
	Recipient User `gorm:"foreignKey:RecipientID" json:"-"`
}

// Friendship is stored once per pair; queries match either column.
type Friendship struct {
	ID        string    `gorm:"primaryKey;size:36" json:"-"`
	UserID    string    `gorm:"size:36;index:idx_friend_pair,unique" json:"-"`
	FriendID  string    `gorm:"size:36;index:idx_friend_pair,unique" json:"-"`
	CreatedAt time.Time `json:"-"`
}

// FriendInfo is the wire shape for friend and request listings.
type FriendInfo struct {
	UserID   string `json:"userID"`
	Username string `json:"username"`
}

type FriendActionRequest struct {
	FriendID string `json:"friendID" binding:"required"`
}

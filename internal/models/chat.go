package models

import "time"

const (
	ChatTypeGeneral = "general"
	ChatTypeJob     = "job"
)

// Chat is a direct conversation between two participants. Job chats carry a
// transaction block negotiated between the poster and an applicant who may
// stay behind their mask until they choose to reveal.
type Chat struct {
	ID        string    `gorm:"primaryKey;size:36" json:"chatID"`
	Type      string    `gorm:"default:general;not null" json:"chatType"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Job transaction fields; zero-valued for general chats.
	JobID              *string `gorm:"size:36" json:"jobID,omitempty"`
	ApplicantID        *string `gorm:"size:36" json:"applicantID,omitempty"`
	ApplicantAnonymous bool    `json:"applicantAnonymous"`
	RevealIdentity     bool    `json:"revealIdentity"`
	Status             string  `json:"status,omitempty"`
	OfferPrice         int64   `json:"offerPrice,omitempty"`

	Participants []ChatParticipant `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"participants"`
	Messages     []ChatMessage     `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"-"`
}

type ChatParticipant struct {
	ChatID string `gorm:"size:36;primaryKey" json:"-"`
	UserID string `gorm:"size:36;primaryKey" json:"userID"`
}

// ChatMessage bodies are stored AES-encrypted; Ciphertext and IV are hex.
type ChatMessage struct {
	ID          string    `gorm:"primaryKey;size:36" json:"messageID"`
	ChatID      string    `gorm:"size:36;index;not null" json:"-"`
	SenderID    string    `gorm:"size:36;not null" json:"sender"`
	RecipientID string    `gorm:"size:36" json:"recipient"`
	Ciphertext  string    `gorm:"not null" json:"-"`
	IV          string    `gorm:"not null" json:"-"`
	CreatedAt   time.Time `json:"timestamp"`
	UpdatedAt   time.Time `json:"-"`
}

// DecryptedMessage is the read-side shape with the plaintext restored.
type DecryptedMessage struct {
	MessageID string    `json:"messageID"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type CreateChatRequest struct {
	RecipientID string `json:"recipientID" binding:"required"`
	ChatType    string `json:"chatType"`
	JobID       string `json:"jobID"`
}

type SendMessageRequest struct {
	ChatID      string `json:"chatID"`
	RecipientID string `json:"recipientID"`
	Text        string `json:"text" binding:"required"`
	ChatType    string `json:"chatType"`
	JobID       string `json:"jobID"`
}

type EditMessageRequest struct {
	NewText string `json:"newText" binding:"required"`
}

type UpdateJobChatRequest struct {
	RevealIdentity *bool  `json:"revealIdentity"`
	Status         string `json:"status"`
	OfferPrice     *int64 `json:"offerPrice"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatMessageType string

const (
	MessageTypeText   ChatMessageType = "TEXT"
	MessageTypeSystem ChatMessageType = "SYSTEM" // request narratives, status changes
)

// Conversation is the message thread between one client and the owner of one
// property. One conversation exists per (property, client) pair.
type Conversation struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	PropertyID uuid.UUID `gorm:"type:uuid;not null;index:idx_conversation_pair" json:"property_id"`
	ClientID   uuid.UUID `gorm:"type:uuid;not null;index:idx_conversation_pair" json:"client_id"`
	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`

	// Real-time tracking for the websocket layer
	LastActivityAt time.Time `gorm:"autoUpdateTime;index" json:"last_activity_at"`

	// Relationships
	Property Property  `gorm:"foreignKey:PropertyID" json:"property"`
	Client   User      `gorm:"foreignKey:ClientID" json:"client"`
	Owner    User      `gorm:"foreignKey:OwnerID" json:"owner"`
	Messages []Message `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`

	// Audit fields
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Message struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key;" json:"id"`
	ConversationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"conversation_id"`
	SenderID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"sender_id"`
	Type           ChatMessageType `gorm:"type:varchar(10);not null;default:'TEXT'" json:"type"`
	Content        string          `gorm:"type:text;not null" json:"content"`

	// Optional typed payload for rich messages (e.g., a request summary card)
	Payload datatypes.JSON `json:"payload,omitempty"`

	IsRead bool `gorm:"default:false;index" json:"is_read"`

	// Relationships
	Sender User `gorm:"foreignKey:SenderID" json:"sender"`

	// Audit fields
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

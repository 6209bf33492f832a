package repositories

import (
	"errors"

	"property-marketplace-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConversationRepository interface {
	CreateConversation(conversation *models.Conversation) error
	GetConversationByID(id uuid.UUID) (*models.Conversation, error)
	GetConversationByPair(propertyID, clientID uuid.UUID) (*models.Conversation, error)
	GetUserConversations(userID uuid.UUID) ([]models.Conversation, error)
	CreateMessage(message *models.Message) error
	GetConversationMessages(conversationID uuid.UUID, limit, offset int) ([]models.Message, error)
	MarkMessagesRead(conversationID, readerID uuid.UUID, messageIDs []string) (int64, error)
	CountUnreadMessages(conversationID, userID uuid.UUID) (int64, error)
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) CreateConversation(conversation *models.Conversation) error {
	return r.db.Create(conversation).Error
}

func (r *conversationRepository) GetConversationByID(id uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.
		Preload("Property").
		Preload("Client").
		Preload("Owner").
		First(&conversation, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// GetConversationByPair returns nil without error when the pair has no
// conversation yet.
func (r *conversationRepository) GetConversationByPair(propertyID, clientID uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.
		Where("property_id = ? AND client_id = ?", propertyID, clientID).
		First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepository) GetUserConversations(userID uuid.UUID) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.
		Preload("Property").
		Preload("Client").
		Preload("Owner").
		Where("client_id = ? OR owner_id = ?", userID, userID).
		Order("last_activity_at DESC").
		Find(&conversations).Error
	return conversations, err
}

func (r *conversationRepository) CreateMessage(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *conversationRepository) GetConversationMessages(conversationID uuid.UUID, limit, offset int) ([]models.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var messages []models.Message
	err := r.db.
		Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, err
}

// MarkMessagesRead flags the listed messages as read. Only messages the
// reader did not send are touched.
func (r *conversationRepository) MarkMessagesRead(conversationID, readerID uuid.UUID, messageIDs []string) (int64, error) {
	if len(messageIDs) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Message{}).
		Where("conversation_id = ? AND id IN ? AND sender_id <> ? AND is_read = ?", conversationID, messageIDs, readerID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *conversationRepository) CountUnreadMessages(conversationID, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, userID, false).
		Count(&count).Error
	return count, err
}

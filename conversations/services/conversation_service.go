package services

import (
	"context"
	"fmt"
	"time"

	"property-marketplace-backend/config"
	"property-marketplace-backend/conversations/repositories"
	"property-marketplace-backend/db/models"
	"property-marketplace-backend/websocket"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Directory resolves a property to its registered owner when a conversation
// has to be created on the fly.
type Directory interface {
	GetPropertyDetails(id uuid.UUID) (*models.Property, error)
}

// ConversationService owns the message threads between clients and property
// owners. Transaction events land here as SYSTEM messages so the narrative of
// a request lives in the same thread as the free-form chat.
type ConversationService struct {
	conversationRepo repositories.ConversationRepository
	directory        Directory
	hub              *websocket.Hub
}

func NewConversationService(
	conversationRepo repositories.ConversationRepository,
	directory Directory,
	hub *websocket.Hub,
) *ConversationService {
	return &ConversationService{
		conversationRepo: conversationRepo,
		directory:        directory,
		hub:              hub,
	}
}

// CreateOrGetConversation returns the thread for a (property, client) pair,
// creating it when the pair has never talked.
func (s *ConversationService) CreateOrGetConversation(propertyID, clientID uuid.UUID) (*models.Conversation, error) {
	existing, err := s.conversationRepo.GetConversationByPair(propertyID, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up conversation: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	property, err := s.directory.GetPropertyDetails(propertyID)
	if err != nil {
		return nil, err
	}

	conversation := &models.Conversation{
		PropertyID:     propertyID,
		ClientID:       clientID,
		OwnerID:        property.OwnerID,
		LastActivityAt: time.Now(),
	}
	if err := s.conversationRepo.CreateConversation(conversation); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conversation, nil
}

// SendMessage posts a free-form chat message from one of the participants.
func (s *ConversationService) SendMessage(ctx context.Context, conversationID, senderID uuid.UUID, content string) (*models.Message, error) {
	if content == "" {
		return nil, fmt.Errorf("message content is required")
	}

	conversation, err := s.conversationRepo.GetConversationByID(conversationID)
	if err != nil {
		return nil, err
	}
	if conversation.ClientID != senderID && conversation.OwnerID != senderID {
		return nil, fmt.Errorf("user is not a participant of this conversation")
	}

	message := &models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Type:           models.MessageTypeText,
		Content:        content,
	}
	if err := s.conversationRepo.CreateMessage(message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	s.pushToThread(conversation.ID, message)
	return message, nil
}

// PostSystemMessage drops a transaction narrative into the pair's thread,
// creating the thread when needed. Delivery is best effort: callers treat a
// returned error as a logging concern, never as a transition failure.
func (s *ConversationService) PostSystemMessage(ctx context.Context, propertyID, clientID, senderID uuid.UUID, content string) error {
	conversation, err := s.CreateOrGetConversation(propertyID, clientID)
	if err != nil {
		return err
	}

	message := &models.Message{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		Type:           models.MessageTypeSystem,
		Content:        content,
	}
	if err := s.conversationRepo.CreateMessage(message); err != nil {
		return fmt.Errorf("failed to store system message: %w", err)
	}

	s.pushToThread(conversation.ID, message)
	return nil
}

// GetUserConversations lists the threads a user participates in, most
// recently active first.
func (s *ConversationService) GetUserConversations(userID uuid.UUID) ([]models.Conversation, error) {
	return s.conversationRepo.GetUserConversations(userID)
}

// GetConversationMessages returns a page of a thread's messages. Only
// participants may read the thread.
func (s *ConversationService) GetConversationMessages(conversationID, requesterID uuid.UUID, limit, offset int) ([]models.Message, error) {
	conversation, err := s.conversationRepo.GetConversationByID(conversationID)
	if err != nil {
		return nil, err
	}
	if conversation.ClientID != requesterID && conversation.OwnerID != requesterID {
		return nil, fmt.Errorf("user is not a participant of this conversation")
	}
	return s.conversationRepo.GetConversationMessages(conversationID, limit, offset)
}

// MarkMessagesRead satisfies the socket layer's read receipt hook.
func (s *ConversationService) MarkMessagesRead(conversationID, readerID uuid.UUID, messageIDs []string) (int, error) {
	count, err := s.conversationRepo.MarkMessagesRead(conversationID, readerID, messageIDs)
	return int(count), err
}

func (s *ConversationService) pushToThread(conversationID uuid.UUID, message *models.Message) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToThread(conversationID.String(), websocket.WebSocketMessage{
		Type:      websocket.MessageTypeChat,
		Payload:   message,
		Timestamp: time.Now(),
		ThreadID:  conversationID.String(),
	}, message.SenderID)

	config.Logger.Debug("Chat message pushed to thread",
		zap.String("conversationID", conversationID.String()),
		zap.String("messageID", message.ID.String()),
	)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"property-marketplace-backend/config"
	"property-marketplace-backend/conversations/repositories"
	"property-marketplace-backend/db/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	config.Logger = zap.NewNop()
	os.Exit(m.Run())
}

type dbDirectory struct {
	db *gorm.DB
}

func (d *dbDirectory) GetPropertyDetails(id uuid.UUID) (*models.Property, error) {
	var property models.Property
	if err := d.db.First(&property, "id = ?", id).Error; err != nil {
		return nil, errors.New("property not found")
	}
	return &property, nil
}

type conversationFixture struct {
	db       *gorm.DB
	service  *ConversationService
	owner    *models.User
	client   *models.User
	property *models.Property
}

func newConversationFixture(t *testing.T) *conversationFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Conversation{},
		&models.Message{},
	))

	owner := &models.User{FirstName: "Olivia", LastName: "Owner", Email: "olivia@example.com", Password: "x", Role: models.OwnerRole, IsActive: true}
	require.NoError(t, db.Create(owner).Error)
	client := &models.User{FirstName: "Noah", LastName: "Client", Email: "noah@example.com", Password: "x", Role: models.ClientRole, IsActive: true}
	require.NoError(t, db.Create(client).Error)

	property := &models.Property{
		OwnerID:    owner.ID,
		Title:      "Two-bed flat in Avondale",
		ActionType: models.RentActionType,
		Price:      decimal.NewFromInt(850),
	}
	require.NoError(t, db.Create(property).Error)

	repo := repositories.NewConversationRepository(db)
	// A nil hub keeps the service store-only in tests.
	service := NewConversationService(repo, &dbDirectory{db: db}, nil)

	return &conversationFixture{
		db:       db,
		service:  service,
		owner:    owner,
		client:   client,
		property: property,
	}
}

func TestCreateOrGetConversation(t *testing.T) {
	f := newConversationFixture(t)

	created, err := f.service.CreateOrGetConversation(f.property.ID, f.client.ID)
	require.NoError(t, err)
	assert.Equal(t, f.owner.ID, created.OwnerID)
	assert.Equal(t, f.client.ID, created.ClientID)

	// The pair always maps to the same thread.
	again, err := f.service.CreateOrGetConversation(f.property.ID, f.client.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	var count int64
	require.NoError(t, f.db.Model(&models.Conversation{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("participants can chat", func(t *testing.T) {
		f := newConversationFixture(t)
		conversation, err := f.service.CreateOrGetConversation(f.property.ID, f.client.ID)
		require.NoError(t, err)

		message, err := f.service.SendMessage(ctx, conversation.ID, f.client.ID, "Is the flat still available?")
		require.NoError(t, err)
		assert.Equal(t, models.MessageTypeText, message.Type)
		assert.False(t, message.IsRead)

		reply, err := f.service.SendMessage(ctx, conversation.ID, f.owner.ID, "It is, would you like to visit?")
		require.NoError(t, err)
		assert.Equal(t, f.owner.ID, reply.SenderID)
	})

	t.Run("outsiders are rejected", func(t *testing.T) {
		f := newConversationFixture(t)
		conversation, err := f.service.CreateOrGetConversation(f.property.ID, f.client.ID)
		require.NoError(t, err)

		stranger := &models.User{FirstName: "Liam", LastName: "Other", Email: "liam@example.com", Password: "x", Role: models.ClientRole, IsActive: true}
		require.NoError(t, f.db.Create(stranger).Error)

		_, err = f.service.SendMessage(ctx, conversation.ID, stranger.ID, "hello")
		assert.Error(t, err)
	})

	t.Run("empty content is rejected", func(t *testing.T) {
		f := newConversationFixture(t)
		conversation, err := f.service.CreateOrGetConversation(f.property.ID, f.client.ID)
		require.NoError(t, err)

		_, err = f.service.SendMessage(ctx, conversation.ID, f.client.ID, "")
		assert.Error(t, err)
	})
}

func TestPostSystemMessage(t *testing.T) {
	ctx := context.Background()
	f := newConversationFixture(t)

	// No thread exists yet; the system post bootstraps it.
	narrative := "Visit request — Two-bed flat in Avondale"
	require.NoError(t, f.service.PostSystemMessage(ctx, f.property.ID, f.client.ID, f.client.ID, narrative))

	conversations, err := f.service.GetUserConversations(f.client.ID)
	require.NoError(t, err)
	require.Len(t, conversations, 1)

	messages, err := f.service.GetConversationMessages(conversations[0].ID, f.client.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, models.MessageTypeSystem, messages[0].Type)
	assert.Equal(t, narrative, messages[0].Content)

	// Status updates land in the same thread.
	require.NoError(t, f.service.PostSystemMessage(ctx, f.property.ID, f.client.ID, f.owner.ID, "Your visit was accepted."))
	messages, err = f.service.GetConversationMessages(conversations[0].ID, f.owner.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestGetConversationMessages_ParticipantsOnly(t *testing.T) {
	ctx := context.Background()
	f := newConversationFixture(t)

	conversation, err := f.service.CreateOrGetConversation(f.property.ID, f.client.ID)
	require.NoError(t, err)
	_, err = f.service.SendMessage(ctx, conversation.ID, f.client.ID, "hello")
	require.NoError(t, err)

	stranger := &models.User{FirstName: "Liam", LastName: "Other", Email: "liam2@example.com", Password: "x", Role: models.ClientRole, IsActive: true}
	require.NoError(t, f.db.Create(stranger).Error)

	_, err = f.service.GetConversationMessages(conversation.ID, stranger.ID, 10, 0)
	assert.Error(t, err)
}

func TestMarkMessagesRead(t *testing.T) {
	ctx := context.Background()
	f := newConversationFixture(t)

	conversation, err := f.service.CreateOrGetConversation(f.property.ID, f.client.ID)
	require.NoError(t, err)

	first, err := f.service.SendMessage(ctx, conversation.ID, f.client.ID, "first")
	require.NoError(t, err)
	second, err := f.service.SendMessage(ctx, conversation.ID, f.client.ID, "second")
	require.NoError(t, err)
	own, err := f.service.SendMessage(ctx, conversation.ID, f.owner.ID, "reply")
	require.NoError(t, err)

	// The owner acknowledges everything, including their own message id; only
	// the other side's messages flip.
	count, err := f.service.MarkMessagesRead(conversation.ID, f.owner.ID, []string{
		first.ID.String(), second.ID.String(), own.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var unread int64
	require.NoError(t, f.db.Model(&models.Message{}).
		Where("conversation_id = ? AND is_read = ?", conversation.ID, false).
		Count(&unread).Error)
	assert.EqualValues(t, 1, unread)

	// A second acknowledgement is a no-op.
	count, err = f.service.MarkMessagesRead(conversation.ID, f.owner.ID, []string{first.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

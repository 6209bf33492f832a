// websocket/handler.go
package websocket

import (
	"fmt"
	"time"

	"property-marketplace-backend/config"
	"property-marketplace-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService defines a token validator interface
type AuthService interface {
	VerifyToken(token string) (*token.Payload, error)
}

// WsHandler manages WebSocket requests and connections
type WsHandler struct {
	hub        *Hub
	auth       AuthService
	readMarker ReadMarker
}

// NewWsHandler creates a new WebSocket handler instance
func NewWsHandler(hub *Hub, auth AuthService, readMarker ReadMarker) *WsHandler {
	return &WsHandler{
		hub:        hub,
		auth:       auth,
		readMarker: readMarker,
	}
}

// HandleWebSocket handles incoming WebSocket upgrade requests. A connection
// may carry an optional ?thread=<conversationID> to join a chat thread;
// without one the socket only receives notification pushes.
func (h *WsHandler) HandleWebSocket(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	// Token comes from the HTTPOnly cookie, never a query parameter
	tokenStr := c.Cookies("access_token")
	if tokenStr == "" {
		config.Logger.Warn("WebSocket connection attempted without access token cookie")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required - no access token cookie found",
		})
	}

	payload, err := h.auth.VerifyToken(tokenStr)
	if err != nil {
		config.Logger.Warn("Invalid access token for WebSocket",
			zap.Error(err),
		)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}

	threadID := c.Query("thread")
	if threadID != "" {
		if _, err := uuid.Parse(threadID); err != nil {
			config.Logger.Warn("Invalid thread ID format",
				zap.String("threadID", threadID),
				zap.String("userID", payload.UserID.String()),
			)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid thread ID format",
			})
		}
	}

	return websocket.New(func(conn *websocket.Conn) {
		client := &Client{
			ID:         uuid.New(),
			UserID:     payload.UserID,
			Conn:       conn,
			Hub:        h.hub,
			Send:       make(chan WebSocketMessage, 256),
			Threads:    make(map[string]bool),
			readMarker: h.readMarker,
		}
		if threadID != "" {
			client.Threads[threadID] = true
		}

		h.hub.register <- client

		config.Logger.Info("WebSocket client registered",
			zap.String("clientID", client.ID.String()),
			zap.String("userID", client.UserID.String()),
			zap.String("threadID", threadID),
		)

		go client.writePump()
		client.readPump()
	})(c)
}

// readPump listens for incoming messages from the WebSocket
func (c *Client) readPump() {
	defer func() {
		config.Logger.Info("WebSocket client disconnecting",
			zap.String("clientID", c.ID.String()),
			zap.String("userID", c.UserID.String()),
		)
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512 * 1024)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg WebSocketMessage
		err := c.Conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				config.Logger.Warn("WebSocket unexpected close",
					zap.String("clientID", c.ID.String()),
					zap.Error(err),
				)
			}
			break
		}

		if msg.Timestamp.IsZero() {
			msg.Timestamp = time.Now()
		}

		switch msg.Type {
		case MessageTypeTyping:
			c.handleTypingIndicator(msg)
		case MessageTypeReadReceipt:
			c.handleReadReceipt(msg)
		case MessageTypeUserStatus:
			c.handleUserStatus(msg)
		default:
			config.Logger.Warn("Unknown WebSocket message type",
				zap.String("type", string(msg.Type)),
				zap.String("clientID", c.ID.String()),
			)
			c.sendError("Unknown message type: " + string(msg.Type))
		}
	}
}

// writePump sends queued messages and keeps the connection alive
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteJSON(message); err != nil {
				config.Logger.Debug("WebSocket write error",
					zap.String("clientID", c.ID.String()),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				config.Logger.Debug("WebSocket ping error",
					zap.String("clientID", c.ID.String()),
					zap.Error(err),
				)
				return
			}
		}
	}
}

// handleTypingIndicator relays typing state to the other thread participants
func (c *Client) handleTypingIndicator(msg WebSocketMessage) {
	payload, ok := msg.Payload.(map[string]interface{})
	if !ok {
		c.sendError("Invalid typing indicator payload")
		return
	}

	threadID, hasThread := payload["threadId"].(string)
	_, hasTyping := payload["isTyping"].(bool)

	if !hasThread || !hasTyping {
		c.sendError("Missing required fields in typing indicator")
		return
	}

	if _, err := uuid.Parse(threadID); err != nil {
		c.sendError("Invalid thread ID format")
		return
	}

	payload["userId"] = c.UserID
	msg.Payload = payload
	msg.ThreadID = threadID

	c.Hub.BroadcastToThread(threadID, msg, c.UserID)
}

// handleReadReceipt persists the read state and relays it to the thread
func (c *Client) handleReadReceipt(msg WebSocketMessage) {
	payload, ok := msg.Payload.(map[string]interface{})
	if !ok {
		c.sendError("Invalid read receipt payload")
		return
	}

	threadID, hasThread := payload["threadId"].(string)
	messageIDs, hasMessages := payload["messageIds"].([]interface{})

	if !hasThread || !hasMessages {
		c.sendError("Missing required fields in read receipt")
		return
	}

	conversationID, err := uuid.Parse(threadID)
	if err != nil {
		c.sendError("Invalid thread ID format")
		return
	}

	var messageIDStrings []string
	for _, id := range messageIDs {
		if str, ok := id.(string); ok {
			messageIDStrings = append(messageIDStrings, str)
		}
	}

	processedCount, err := c.readMarker.MarkMessagesRead(conversationID, c.UserID, messageIDStrings)
	if err != nil {
		config.Logger.Error("Failed to process read receipts via WebSocket",
			zap.Error(err),
			zap.String("threadID", threadID),
			zap.String("userID", c.UserID.String()))
		c.sendError("Failed to save read receipts: " + err.Error())
		return
	}

	payload["userId"] = c.UserID
	msg.Payload = payload
	msg.ThreadID = threadID

	c.Hub.BroadcastToThread(threadID, msg, c.UserID)

	config.Logger.Debug("Read receipt handled",
		zap.String("threadId", threadID),
		zap.Int("messageCount", len(messageIDStrings)),
		zap.Int("processedCount", processedCount),
		zap.String("userId", c.UserID.String()))
}

// handleUserStatus processes user online/offline status
func (c *Client) handleUserStatus(msg WebSocketMessage) {
	payload, ok := msg.Payload.(map[string]interface{})
	if !ok {
		c.sendError("Invalid user status payload")
		return
	}

	status, hasStatus := payload["status"].(string)
	if !hasStatus {
		return
	}

	c.mu.RLock()
	for threadID := range c.Threads {
		statusMsg := WebSocketMessage{
			Type: MessageTypeUserStatus,
			Payload: map[string]interface{}{
				"userId": c.UserID,
				"status": status,
			},
			Timestamp: time.Now(),
			ThreadID:  threadID,
		}
		c.Hub.BroadcastToThread(threadID, statusMsg, c.UserID)
	}
	c.mu.RUnlock()
}

// sendError sends an error message back to the client
func (c *Client) sendError(message string) {
	errorMsg := WebSocketMessage{
		Type: MessageTypeError,
		Payload: map[string]interface{}{
			"message": message,
		},
		Timestamp: time.Now(),
	}

	c.Send <- errorMsg
}

// SendMessage sends a message to this specific client
func (c *Client) SendMessage(msg WebSocketMessage) error {
	select {
	case c.Send <- msg:
		return nil
	default:
		return fmt.Errorf("client send channel is full")
	}
}

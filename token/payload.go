package token

import (
	"errors"
	"fmt"
	"time"

	"property-marketplace-backend/db/models"
	"property-marketplace-backend/utils"

	"github.com/google/uuid"
)

var ErrExpired = errors.New("token has expired")

// Payload carries the authenticated actor's identity. The workflow engine
// reads UserID and Role from here to enforce transition permissions.
type Payload struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	IssuedAt  time.Time       `json:"issued_at"`
	ExpiredAt time.Time       `json:"expired_at"`
}

func NewPayload(userID uuid.UUID, email string, role models.UserRole, duration time.Duration) (*Payload, error) {
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, errors.New("user id cannot be empty")
	}
	if duration <= 0 {
		return nil, errors.New("duration must be positive")
	}

	tokenID, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	issuedAt := utils.Today()
	expiredAt := issuedAt.Add(duration)

	payload := &Payload{
		ID:        tokenID,
		UserID:    userID,
		Email:     email,
		Role:      role,
		IssuedAt:  issuedAt,
		ExpiredAt: expiredAt,
	}
	return payload, nil
}

func (payload *Payload) Valid() error {
	if utils.Today().After(payload.ExpiredAt) {
		return ErrExpired
	}
	return nil
}

func (p *Payload) String() string {
	return fmt.Sprintf("ID: %s, UserID: %s, Role: %s, ExpiredAt: %s", p.ID, p.UserID, p.Role, p.ExpiredAt)
}

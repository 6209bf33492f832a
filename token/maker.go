package token

import (
	"time"

	"github.com/google/uuid"
	"property-marketplace-backend/db/models"
)

// Maker is the contract for anything that can create and verify tokens.
// Lets the token implementation be swapped without touching the rest of the
// application.
type Maker interface {
	CreateToken(userID uuid.UUID, email string, role models.UserRole, duration time.Duration) (string, error)

	VerifyToken(token string) (*Payload, error)
}

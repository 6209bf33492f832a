package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRole string

const (
	ClientRole UserRole = "client"
	OwnerRole  UserRole = "owner"
	AdminRole  UserRole = "admin"
)

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	FirstName   string    `gorm:"not null" json:"first_name"`
	LastName    string    `gorm:"not null" json:"last_name"`
	Email       string    `gorm:"unique;not null;index" json:"email"`
	PhoneNumber *string   `gorm:"type:varchar(20)" json:"phone_number"`
	Password    string    `gorm:"not null" json:"-"`
	Role        UserRole  `gorm:"type:varchar(20);not null;default:'client';index" json:"role"`
	City        *string   `json:"city"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`

	// Audit fields
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// SetPassword hashes and stores the given plaintext password
func (u *User) SetPassword(plain string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword compares the given plaintext password against the stored hash
func (u *User) CheckPassword(plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain))
}

package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an advice seeker who owns counseling sessions.
type User struct {
	ID       string `gorm:"primaryKey"` // identity provider UUID
	Username string `gorm:"uniqueIndex"`
	// ChatUserID is empty until the user's first enquiry created a chat
	// backend account.
	ChatUserID string
}

// BeforeCreate is a GORM hook that assigns a fresh UUID when the id was
// not provided by the identity provider import.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

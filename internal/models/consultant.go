package models

import (
	"github.com/lib/pq"
)

// Consultant is a counselor working for one or more agencies.
type Consultant struct {
	ID       string `gorm:"primaryKey"` // identity provider UUID
	Username string `gorm:"uniqueIndex"`
	// ChatUserID is the consultant's account id at the chat backend.
	ChatUserID string `gorm:"uniqueIndex"`
	// TelegramID is set when the consultant linked a telegram account
	// for notifications.
	TelegramID *string
	AgencyIDs  pq.Int64Array `gorm:"type:bigint[]"`
	Absent     bool
}

// InAgency reports whether the consultant is a member of the given agency.
func (c *Consultant) InAgency(agencyID int64) bool {
	for _, id := range c.AgencyIDs {
		if id == agencyID {
			return true
		}
	}
	return false
}

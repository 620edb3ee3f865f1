package models

import "time"

// Notification event types published on the redis channel.
const (
	NotificationSessionAssigned = "session_assigned"
	NotificationNewEnquiry      = "new_enquiry"
)

// NotificationEvent is a fire-and-forget notice for consultants, fanned out
// over redis pub/sub and optionally delivered via telegram.
type NotificationEvent struct {
	Type         string    `json:"type"`
	SessionID    uint      `json:"session_id"`
	AgencyID     int64     `json:"agency_id"`
	ConsultantID string    `json:"consultant_id,omitempty"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}

package models

import "time"

// SessionStatus describes the lifecycle state of a counseling session.
type SessionStatus int

const (
	// SessionInitial is the state right after registration, before the
	// enquiry message and chat room exist.
	SessionInitial SessionStatus = iota
	// SessionNew means the enquiry was written and the session waits for
	// a consultant to accept it.
	SessionNew
	// SessionInProgress means a consultant has been assigned.
	SessionInProgress
	// SessionDone means the session was closed.
	SessionDone
	// SessionInArchive means the session was archived.
	SessionInArchive
)

func (s SessionStatus) String() string {
	switch s {
	case SessionInitial:
		return "INITIAL"
	case SessionNew:
		return "NEW"
	case SessionInProgress:
		return "IN_PROGRESS"
	case SessionDone:
		return "DONE"
	case SessionInArchive:
		return "IN_ARCHIVE"
	default:
		return "UNKNOWN"
	}
}

// Session is the aggregate root of a counseling conversation. It links the
// advice seeker, the assigned consultant and the external chat rooms.
type Session struct {
	ID     uint `gorm:"primaryKey"`
	UserID string
	User   *User `gorm:"foreignKey:UserID"`
	// ConsultantID is nil until the session has been assigned.
	ConsultantID *string
	Consultant   *Consultant `gorm:"foreignKey:ConsultantID"`
	AgencyID     int64
	// ConsultingType selects the settings table entry (feedback chat,
	// peer visibility, welcome message).
	ConsultingType string
	Status         SessionStatus
	TeamSession    bool
	// GroupID is the external id of the primary chat room.
	GroupID *string `gorm:"uniqueIndex"`
	// FeedbackGroupID is only set for consulting types with a feedback chat.
	FeedbackGroupID *string
	// EnquiryMessageDate is nil until the first enquiry message was stored.
	EnquiryMessageDate *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasFeedbackChat reports whether a feedback room exists for this session.
func (s *Session) HasFeedbackChat() bool {
	return s.FeedbackGroupID != nil && *s.FeedbackGroupID != ""
}

// HasConsultant reports whether the session is assigned to a consultant.
func (s *Session) HasConsultant() bool {
	return s.ConsultantID != nil && *s.ConsultantID != ""
}

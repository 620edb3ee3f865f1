package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"counselgo/backend/internal/config"
	"counselgo/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Storage is the persistence boundary of the service. Sessions, consultants
// and users live in PostgreSQL, notification fan-out goes through redis.
type Storage interface {
	GetSessionByID(id uint) (*models.Session, error)
	GetSessionByGroupID(groupID string) (*models.Session, error)
	ListSessionsWithRooms() ([]models.Session, error)

	UpdateSessionConsultant(session *models.Session, consultantID *string, status models.SessionStatus) error
	UpdateSessionEnquiry(session *models.Session, groupID string, feedbackGroupID *string, enquiryDate time.Time) error
	ResetSessionEnquiry(session *models.Session) error

	GetConsultantByID(id string) (*models.Consultant, error)
	GetConsultantByChatUserID(chatUserID string) (*models.Consultant, error)
	FindConsultantsByAgencyID(agencyID int64) ([]models.Consultant, error)

	GetUserByID(id string) (*models.User, error)
	SaveUserChatID(user *models.User, chatUserID string) error

	PublishNotification(event models.NotificationEvent) error
}

// Service implements Storage on top of GORM and redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// GetSessionByID loads a session with its user and consultant references.
func (s *Service) GetSessionByID(id uint) (*models.Session, error) {
	var session models.Session
	err := s.DB.Preload("User").Preload("Consultant").First(&session, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to load session %d: %v", id, err)
		return nil, err
	}
	return &session, nil
}

// GetSessionByGroupID resolves a session by the external id of its primary
// chat room.
func (s *Service) GetSessionByGroupID(groupID string) (*models.Session, error) {
	var session models.Session
	err := s.DB.Preload("User").Preload("Consultant").
		Where("group_id = ?", groupID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to load session for group %s: %v", groupID, err)
		return nil, err
	}
	return &session, nil
}

// ListSessionsWithRooms returns all sessions that reference at least the
// primary chat room. Used by the admin room audit.
func (s *Service) ListSessionsWithRooms() ([]models.Session, error) {
	var sessions []models.Session
	if err := s.DB.Where("group_id IS NOT NULL").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// UpdateSessionConsultant persists the consultant reference and status of a
// session and mirrors the change into the in-memory aggregate.
func (s *Service) UpdateSessionConsultant(session *models.Session, consultantID *string, status models.SessionStatus) error {
	err := s.DB.Model(&models.Session{}).
		Where("id = ?", session.ID).
		Updates(map[string]interface{}{
			"consultant_id": consultantID,
			"status":        status,
		}).Error
	if err != nil {
		log.Printf("ERROR: Failed to update consultant for session %d: %v", session.ID, err)
		return err
	}

	session.ConsultantID = consultantID
	session.Status = status
	if consultantID == nil {
		session.Consultant = nil
	}
	return nil
}

// UpdateSessionEnquiry records the room linkage and the enquiry timestamp
// and advances the session to NEW.
func (s *Service) UpdateSessionEnquiry(session *models.Session, groupID string, feedbackGroupID *string, enquiryDate time.Time) error {
	err := s.DB.Model(&models.Session{}).
		Where("id = ?", session.ID).
		Updates(map[string]interface{}{
			"group_id":             groupID,
			"feedback_group_id":    feedbackGroupID,
			"status":               models.SessionNew,
			"enquiry_message_date": enquiryDate,
		}).Error
	if err != nil {
		log.Printf("ERROR: Failed to store enquiry data for session %d: %v", session.ID, err)
		return err
	}

	session.GroupID = &groupID
	session.FeedbackGroupID = feedbackGroupID
	session.Status = models.SessionNew
	session.EnquiryMessageDate = &enquiryDate
	return nil
}

// ResetSessionEnquiry clears the room linkage and enquiry timestamp and puts
// the session back to INITIAL. Used by enquiry compensation.
func (s *Service) ResetSessionEnquiry(session *models.Session) error {
	err := s.DB.Model(&models.Session{}).
		Where("id = ?", session.ID).
		Updates(map[string]interface{}{
			"group_id":             nil,
			"feedback_group_id":    nil,
			"status":               models.SessionInitial,
			"enquiry_message_date": nil,
		}).Error
	if err != nil {
		log.Printf("ERROR: Failed to reset enquiry data for session %d: %v", session.ID, err)
		return err
	}

	session.GroupID = nil
	session.FeedbackGroupID = nil
	session.Status = models.SessionInitial
	session.EnquiryMessageDate = nil
	return nil
}

func (s *Service) GetConsultantByID(id string) (*models.Consultant, error) {
	var consultant models.Consultant
	err := s.DB.First(&consultant, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &consultant, nil
}

// GetConsultantByChatUserID resolves a room member back to a consultant.
// Members without a consultant record (e.g. the advice seeker) yield nil.
func (s *Service) GetConsultantByChatUserID(chatUserID string) (*models.Consultant, error) {
	var consultant models.Consultant
	err := s.DB.Where("chat_user_id = ?", chatUserID).First(&consultant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to resolve consultant for chat user %s: %v", chatUserID, err)
		return nil, err
	}
	return &consultant, nil
}

// FindConsultantsByAgencyID returns all consultants belonging to an agency.
func (s *Service) FindConsultantsByAgencyID(agencyID int64) ([]models.Consultant, error) {
	var consultants []models.Consultant
	err := s.DB.Where("? = ANY(agency_ids)", agencyID).Find(&consultants).Error
	if err != nil {
		log.Printf("ERROR: Failed to find consultants of agency %d: %v", agencyID, err)
		return nil, err
	}
	return consultants, nil
}

func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SaveUserChatID stores the chat backend account id on the user.
func (s *Service) SaveUserChatID(user *models.User, chatUserID string) error {
	err := s.DB.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("chat_user_id", chatUserID).Error
	if err != nil {
		log.Printf("ERROR: Failed to save chat user id for user %s: %v", user.ID, err)
		return err
	}
	user.ChatUserID = chatUserID
	return nil
}

// PublishNotification publishes an event on the notification channel.
func (s *Service) PublishNotification(event models.NotificationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, config.NotificationChannel, string(payload)).Err()
}

// SubscribeNotifications subscribes to the notification channel. Callers own
// the returned PubSub.
func (s *Service) SubscribeNotifications() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, config.NotificationChannel)
}

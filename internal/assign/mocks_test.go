package assign_test

import (
	"time"

	"counselgo/backend/internal/chat"
	"counselgo/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetSessionByID(id uint) (*models.Session, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockStorage) GetSessionByGroupID(groupID string) (*models.Session, error) {
	args := m.Called(groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockStorage) ListSessionsWithRooms() ([]models.Session, error) {
	args := m.Called()
	return args.Get(0).([]models.Session), args.Error(1)
}

func (m *MockStorage) UpdateSessionConsultant(session *models.Session, consultantID *string, status models.SessionStatus) error {
	args := m.Called(session, consultantID, status)
	return args.Error(0)
}

func (m *MockStorage) UpdateSessionEnquiry(session *models.Session, groupID string, feedbackGroupID *string, enquiryDate time.Time) error {
	args := m.Called(session, groupID, feedbackGroupID, enquiryDate)
	return args.Error(0)
}

func (m *MockStorage) ResetSessionEnquiry(session *models.Session) error {
	args := m.Called(session)
	return args.Error(0)
}

func (m *MockStorage) GetConsultantByID(id string) (*models.Consultant, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Consultant), args.Error(1)
}

func (m *MockStorage) GetConsultantByChatUserID(chatUserID string) (*models.Consultant, error) {
	args := m.Called(chatUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Consultant), args.Error(1)
}

func (m *MockStorage) FindConsultantsByAgencyID(agencyID int64) ([]models.Consultant, error) {
	args := m.Called(agencyID)
	return args.Get(0).([]models.Consultant), args.Error(1)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) SaveUserChatID(user *models.User, chatUserID string) error {
	args := m.Called(user, chatUserID)
	return args.Error(0)
}

func (m *MockStorage) PublishNotification(event models.NotificationEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) UserInfo(creds chat.Credentials) (*chat.UserInfo, error) {
	args := m.Called(creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.UserInfo), args.Error(1)
}

func (m *MockGateway) CreateRoom(name string, creds chat.Credentials) (string, error) {
	args := m.Called(name, creds)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) CreateRoomAsSystemUser(name string) (string, error) {
	args := m.Called(name)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) AddMember(roomID, chatUserID string) error {
	args := m.Called(roomID, chatUserID)
	return args.Error(0)
}

func (m *MockGateway) RemoveMember(roomID, chatUserID string) error {
	args := m.Called(roomID, chatUserID)
	return args.Error(0)
}

func (m *MockGateway) Members(roomID string) ([]chat.Member, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]chat.Member), args.Error(1)
}

func (m *MockGateway) AddTechnicalUser(roomID string) error {
	args := m.Called(roomID)
	return args.Error(0)
}

func (m *MockGateway) RemoveTechnicalUser(roomID string) error {
	args := m.Called(roomID)
	return args.Error(0)
}

func (m *MockGateway) PurgeSystemMessages(roomID string, oldest, latest time.Time) error {
	args := m.Called(roomID, oldest, latest)
	return args.Error(0)
}

func (m *MockGateway) PostMessage(roomID, message string, creds chat.Credentials) error {
	args := m.Called(roomID, message, creds)
	return args.Error(0)
}

func (m *MockGateway) PostMessageAsSystemUser(roomID, message string) error {
	args := m.Called(roomID, message)
	return args.Error(0)
}

func (m *MockGateway) DeleteRoom(roomID string, creds chat.Credentials) error {
	args := m.Called(roomID, creds)
	return args.Error(0)
}

func (m *MockGateway) DeleteRoomAsSystemUser(roomID string) error {
	args := m.Called(roomID)
	return args.Error(0)
}

type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) HasAuthority(userID, authority string) (bool, error) {
	args := m.Called(userID, authority)
	return args.Bool(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifySessionAssigned(consultant *models.Consultant, session *models.Session, assignedBy string) {
	m.Called(consultant, session, assignedBy)
}

func (m *MockNotifier) NotifyNewEnquiry(session *models.Session, consultants []models.Consultant) {
	m.Called(session, consultants)
}

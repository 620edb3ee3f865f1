package models_test

import (
	"testing"

	"counselgo/backend/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

// TestSessionStatusString verifies the string form of every lifecycle state.
func TestSessionStatusString(t *testing.T) {
	tests := []struct {
		status   models.SessionStatus
		expected string
	}{
		{models.SessionInitial, "INITIAL"},
		{models.SessionNew, "NEW"},
		{models.SessionInProgress, "IN_PROGRESS"},
		{models.SessionDone, "DONE"},
		{models.SessionInArchive, "IN_ARCHIVE"},
		{models.SessionStatus(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.status.String())
	}
}

// TestSessionHasConsultant verifies the assignment predicate for nil, empty
// and set consultant references.
func TestSessionHasConsultant(t *testing.T) {
	session := &models.Session{}
	assert.False(t, session.HasConsultant(), "unassigned session has no consultant")

	empty := ""
	session.ConsultantID = &empty
	assert.False(t, session.HasConsultant(), "empty consultant id counts as unassigned")

	id := "c-1"
	session.ConsultantID = &id
	assert.True(t, session.HasConsultant())
}

// TestSessionHasFeedbackChat verifies the feedback room predicate.
func TestSessionHasFeedbackChat(t *testing.T) {
	session := &models.Session{}
	assert.False(t, session.HasFeedbackChat())

	empty := ""
	session.FeedbackGroupID = &empty
	assert.False(t, session.HasFeedbackChat())

	id := "fb-1"
	session.FeedbackGroupID = &id
	assert.True(t, session.HasFeedbackChat())
}

// TestConsultantInAgency verifies agency membership over the pq array.
func TestConsultantInAgency(t *testing.T) {
	consultant := &models.Consultant{AgencyIDs: pq.Int64Array{10, 20}}

	assert.True(t, consultant.InAgency(10))
	assert.True(t, consultant.InAgency(20))
	assert.False(t, consultant.InAgency(30))

	none := &models.Consultant{}
	assert.False(t, none.InAgency(10), "consultant without agencies belongs nowhere")
}

// TestUserBeforeCreate_GeneratesUUID verifies that the BeforeCreate hook
// assigns a valid UUID when none was imported.
func TestUserBeforeCreate_GeneratesUUID(t *testing.T) {
	// Arrange
	user := &models.User{Username: "asker"}
	assert.Empty(t, user.ID)

	// Act
	err := user.BeforeCreate(nil)

	// Assert
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	_, parseErr := uuid.Parse(user.ID)
	assert.NoError(t, parseErr, "generated id must be a valid UUID")
}

// TestUserBeforeCreate_PreservesImportedID verifies that an id provided by
// the identity provider import is kept.
func TestUserBeforeCreate_PreservesImportedID(t *testing.T) {
	// Arrange
	existingID := uuid.New().String()
	user := &models.User{ID: existingID, Username: "asker"}

	// Act
	err := user.BeforeCreate(nil)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, existingID, user.ID)
}
